package user

import "libraryapi/model"

type UpdateUserReq struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

func (r UpdateUserReq) Input() model.UserUpdate {
	return model.UserUpdate{Name: r.Name, Email: r.Email, Password: r.Password, Role: r.Role}
}
