package user

import "time"

type (
	Response struct {
		ID        string     `json:"id"`
		Email     string     `json:"email"`
		FirstName string     `json:"first_name"`
		LastName  string     `json:"last_name"`
		FullName  string     `json:"full_name"`
		IsActive  bool       `json:"is_active"`
		CreatedAt time.Time  `json:"created_at"`
		UpdatedAt *time.Time `json:"updated_at"`
	}
	Responses    []Response
	ListResponse struct {
		Users Responses `json:"users"`
		Total int       `json:"total"`
		Skip  int       `json:"skip"`
		Limit int       `json:"limit"`
	}
)
