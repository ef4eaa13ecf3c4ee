package user

type (
	CreateRequest struct {
		Email     string `json:"email" binding:"required,max=255"`
		FirstName string `json:"first_name" binding:"required,min=1,max=100"`
		LastName  string `json:"last_name" binding:"required,min=1,max=100"`
	}
	// UpdateRequest fields are optional; absent ones keep their stored value.
	UpdateRequest struct {
		Email     *string `json:"email" binding:"omitempty,min=1,max=255"`
		FirstName *string `json:"first_name" binding:"omitempty,min=1,max=100"`
		LastName  *string `json:"last_name" binding:"omitempty,min=1,max=100"`
	}
)
