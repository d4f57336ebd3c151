package validation_test

import (
	"testing"

	"libraryapi/app/echoServer/validation"
	"libraryapi/service/errs"

	"github.com/stretchr/testify/require"
)

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type borrowReq struct {
	BookID int64 `json:"book_id" validate:"required,gt=0"`
}

func TestValidate(t *testing.T) {
	v := validation.New()

	require.NoError(t, v.Validate(loginReq{Email: "a@b.co", Password: "x"}))

	err := v.Validate(loginReq{Password: "x"})
	require.Equal(t, errs.ErrInvalidInput, errs.Code(err))
	require.Equal(t, "email is required", errs.Message(err))

	err = v.Validate(loginReq{Email: "nope", Password: "x"})
	require.Equal(t, "Invalid email format", errs.Message(err))

	err = v.Validate(borrowReq{})
	require.Equal(t, "book_id is required", errs.Message(err))
}
