package domain

// Actor is the session identity every workflow operation receives explicitly.
// Services never reach for ambient "current user" state; middleware builds an
// Actor from the verified token and handlers pass it down.
type Actor struct {
	ID        string
	Name      string
	Role      Role
	Division  string
	StaffType StaffType
}

// CanRecommendLeave decides whether the actor may act at the recommendation
// stage of a leave application. Explicit assignment always authorizes; the
// role fallback covers HOD/Admin system-wide and the division-scoped
// recommending roles within their own division. Status preconditions are
// enforced separately by the optimistic write, so the dual paths cannot race
// each other into a double transition.
func (a Actor) CanRecommendLeave(recommenderID, division string) bool {
	if a.ID == recommenderID {
		return true
	}
	if a.Role.SystemWide() {
		return true
	}
	if (a.Role == RoleDivisionalHead || a.Role == RoleDivisionCC) && a.Division != "" && a.Division == division {
		return true
	}
	return false
}

// CanApproveLeave decides whether the actor may act at the approval stage.
// Same precedence as recommendation: assignment first, then role fallback.
// Division CC has no approval fallback.
func (a Actor) CanApproveLeave(approverID, division string) bool {
	if a.ID == approverID {
		return true
	}
	if a.Role.SystemWide() {
		return true
	}
	if a.Role == RoleDivisionalHead && a.Division != "" && a.Division == division {
		return true
	}
	return false
}

// CanDownloadApprovedLeave decides who may pull the approved-leave listing.
func (a Actor) CanDownloadApprovedLeave() bool {
	return a.Role.SystemWide() || a.Role == RoleDivisionalHead
}

// CanDecideProgram decides whether the actor may approve or reject a
// submitted program entry of the given division.
func (a Actor) CanDecideProgram(division string) bool {
	if a.Role.SystemWide() {
		return true
	}
	if (a.Role == RoleDivisionCC || a.Role == RoleDivisionalHead) && a.Division != "" && a.Division == division {
		return true
	}
	return false
}

// DirectoryVisibility describes how much of the staff directory the actor
// may query.
type DirectoryVisibility int

const (
	DirectoryNone DirectoryVisibility = iota
	DirectoryDivision
	DirectoryAll
)

// DirectoryScope computes the staff-directory visibility for the actor:
// Admin/HOD see everyone, division-level roles see their division, plain
// Staff sees nobody.
func (a Actor) DirectoryScope() DirectoryVisibility {
	switch {
	case a.Role.SystemWide():
		return DirectoryAll
	case a.Role == RoleDivisionCC || a.Role == RoleDivisionalHead:
		return DirectoryDivision
	default:
		return DirectoryNone
	}
}
