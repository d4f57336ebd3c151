package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"libraryapi/service/errs"

	"github.com/stretchr/testify/require"
)

func TestCode(t *testing.T) {
	err := errs.Conflict("No available copies of this book")
	require.Equal(t, errs.ErrConflict, errs.Code(err))
	require.Equal(t, "No available copies of this book", errs.Message(err))

	wrapped := fmt.Errorf("borrow: %w", err)
	require.Equal(t, errs.ErrConflict, errs.Code(wrapped))
	require.Equal(t, "No available copies of this book", errs.Message(wrapped))
}

func TestCode_Internal(t *testing.T) {
	err := errors.New("db down")
	require.Equal(t, errs.ErrCode(""), errs.Code(err))
	require.Empty(t, errs.Message(err))
}

func TestWrap(t *testing.T) {
	cause := errors.New("unique violation")
	err := errs.Wrap(errs.ErrConflict, cause, "Email already registered")
	require.ErrorIs(t, err, cause)
	require.Equal(t, errs.ErrConflict, errs.Code(err))
	require.Equal(t, "Email already registered", err.Error())
}
