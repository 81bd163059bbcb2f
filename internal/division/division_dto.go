package division

type CreateDivisionRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

type UpdateDivisionRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

type DivisionResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
