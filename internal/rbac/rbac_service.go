package rbac

import (
	"staffdesk/internal/domain"

	"github.com/casbin/casbin/v2"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(role domain.Role, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
}

// NewService loads the static capability table into the enforcer once. The
// policy never changes at runtime, so enforcement is read-only afterwards.
func NewService(enforcer *casbin.Enforcer) (Service, error) {
	for _, rule := range domain.PolicyRules() {
		if _, err := enforcer.AddPolicy(string(rule.Role), rule.Resource, rule.Action); err != nil {
			return nil, err
		}
	}
	return &service{enforcer: enforcer}, nil
}

func (s *service) Enforce(role domain.Role, resource, action string) (bool, error) {
	return s.enforcer.Enforce(string(role), resource, action)
}
