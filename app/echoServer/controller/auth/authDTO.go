package auth

import "libraryapi/model"

type RegisterReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	// Role is honored only when an admin token is sent.
	Role string `json:"role"`
}

func (r RegisterReq) Input() model.RegisterInput {
	return model.RegisterInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Username:  r.Username,
		Name:      r.Name,
		Email:     r.Email,
		Password:  r.Password,
		Role:      r.Role,
	}
}

type LoginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResp struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}
