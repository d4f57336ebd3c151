package hash_test

import (
	"testing"

	"libraryapi/util/hash"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheck(t *testing.T) {
	h, err := hash.HashPassword("longenough1")
	require.NoError(t, err)
	require.NotEqual(t, "longenough1", h)
	require.True(t, hash.Check(h, "longenough1"))
	require.False(t, hash.Check(h, "wrong-password"))
}
