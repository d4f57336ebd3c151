package author

import "libraryapi/model"

type AuthorReq struct {
	Name      string  `json:"name" validate:"required"`
	Biography *string `json:"biography"`
}

func (r AuthorReq) Input() model.AuthorInput {
	return model.AuthorInput{Name: r.Name, Biography: r.Biography}
}
