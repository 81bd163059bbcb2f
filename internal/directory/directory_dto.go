package directory

type CreateUserRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=255"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Role        string `json:"role" binding:"required"`
	StaffType   string `json:"staff_type"`
	Division    string `json:"division"`
	Designation string `json:"designation"`
}

// UpdateUserRequest is the Admin-only mutation: role and division
// reassignment plus the profile fields.
type UpdateUserRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=255"`
	Role        string `json:"role" binding:"required"`
	StaffType   string `json:"staff_type" binding:"required"`
	Division    string `json:"division"`
	Designation string `json:"designation"`
}

// UpdateProfileRequest is what a user may change about themselves. Role and
// division stay Admin-only.
type UpdateProfileRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=255"`
	Designation string `json:"designation"`
}

type UserResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	StaffType   string `json:"staff_type"`
	Division    string `json:"division,omitempty"`
	Designation string `json:"designation,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// OfficerOption is the slim picker row the leave form consumes when choosing
// an acting officer, recommender or approver.
type OfficerOption struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Division string `json:"division,omitempty"`
}
