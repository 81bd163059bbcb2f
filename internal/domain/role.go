package domain

// Role values are stored and exchanged verbatim, so they keep the exact
// directory spelling rather than an enum-style rendering.
type Role string

const (
	RoleStaff          Role = "Staff"
	RoleDivisionCC     Role = "Division CC"
	RoleDivisionalHead Role = "Divisional Head"
	RoleHOD            Role = "HOD"
	RoleAdmin          Role = "Admin"
)

type StaffType string

const (
	StaffTypeOffice StaffType = "office"
	StaffTypeField  StaffType = "field"
)

// Valid reports whether the role is one of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleStaff, RoleDivisionCC, RoleDivisionalHead, RoleHOD, RoleAdmin:
		return true
	}
	return false
}

// SystemWide reports whether the role sees and acts across all divisions.
// Admin and HOD are the only super-roles.
func (r Role) SystemWide() bool {
	return r == RoleHOD || r == RoleAdmin
}

// DivisionScoped reports whether the role must carry a non-empty division.
func (r Role) DivisionScoped() bool {
	switch r {
	case RoleStaff, RoleDivisionCC, RoleDivisionalHead:
		return true
	}
	return false
}

// RecommenderRole reports whether a user holding this role may be named as
// the recommender of a leave application.
func (r Role) RecommenderRole() bool {
	return r == RoleDivisionCC || r == RoleDivisionalHead
}

// ApproverRole reports whether a user holding this role may be named as the
// approver of a leave application.
func (r Role) ApproverRole() bool {
	return r == RoleDivisionalHead || r.SystemWide()
}

func (s StaffType) Valid() bool {
	return s == StaffTypeOffice || s == StaffTypeField
}
