package category

import "libraryapi/model"

type CategoryReq struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

func (r CategoryReq) Input() model.CategoryInput {
	return model.CategoryInput{Name: r.Name, Description: r.Description}
}
