package authorsvc_test

import (
	"context"
	"strings"
	"testing"

	"libraryapi/model"
	authorrepo "libraryapi/repository/author"
	authorsvc "libraryapi/service/author"
	"libraryapi/service/errs"
	"libraryapi/util/testutil"

	"github.com/stretchr/testify/require"
)

func TestAuthors_Lifecycle(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	s := authorsvc.New(db, authorrepo.New(db))

	bio := "  "
	a, err := s.Create(ctx, model.AuthorInput{Name: "  Mary Shelley ", Biography: &bio})
	require.NoError(t, err)
	require.Equal(t, "Mary Shelley", a.Name)
	require.Nil(t, a.Biography)

	_, err = s.Create(ctx, model.AuthorInput{Name: "MARY SHELLEY"})
	require.Equal(t, errs.ErrConflict, errs.Code(err))
	require.Equal(t, "Author name already exists", errs.Message(err))

	// renaming to its own name is not a clash
	bio = "Wrote Frankenstein."
	a, err = s.Update(ctx, a.ID, model.AuthorInput{Name: "Mary Shelley", Biography: &bio})
	require.NoError(t, err)
	require.Equal(t, bio, *a.Biography)

	_, err = s.Update(ctx, 404, model.AuthorInput{Name: "Nobody"})
	require.Equal(t, errs.ErrNotFound, errs.Code(err))

	testutil.SeedBook(t, db, a.ID, "Frankenstein", "9780486282114", 1)
	err = s.Delete(ctx, a.ID)
	require.Equal(t, errs.ErrConflict, errs.Code(err))
	require.Equal(t, "Cannot delete author with associated books", errs.Message(err))

	books, err := s.Books(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, books, 1)

	counts, err := s.ListWithBookCount(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	require.EqualValues(t, 1, counts[0].BookCount)
}

func TestAuthors_Validation(t *testing.T) {
	db := testutil.OpenDB(t)
	s := authorsvc.New(db, authorrepo.New(db))
	ctx := context.Background()

	long := strings.Repeat("x", 2001)
	cases := []model.AuthorInput{
		{Name: ""},
		{Name: strings.Repeat("n", 101)},
		{Name: "Ok", Biography: &long},
	}
	for _, in := range cases {
		_, err := s.Create(ctx, in)
		require.Equal(t, errs.ErrInvalidInput, errs.Code(err))
	}

	_, err := s.GetByID(ctx, 0)
	require.Equal(t, "Invalid ID", errs.Message(err))
	_, err = s.Search(ctx, "")
	require.Equal(t, errs.ErrInvalidInput, errs.Code(err))
}

func TestAuthors_UnicodeNames(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	s := authorsvc.New(db, authorrepo.New(db))

	_, err := s.Create(ctx, model.AuthorInput{Name: "Émile Zola"})
	require.NoError(t, err)
	_, err = s.Create(ctx, model.AuthorInput{Name: "émile zola"})
	require.Equal(t, errs.ErrConflict, errs.Code(err))

	_, err = s.Create(ctx, model.AuthorInput{Name: "Anne_Brontë"})
	require.NoError(t, err)
	got, err := s.Search(ctx, "ÉMILE")
	require.NoError(t, err)
	require.Len(t, got, 1)
	got, err = s.Search(ctx, "_")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Anne_Brontë", got[0].Name)
}

func TestAuthors_Search(t *testing.T) {
	db := testutil.OpenDB(t)
	s := authorsvc.New(db, authorrepo.New(db))
	testutil.SeedAuthor(t, db, "Terry Pratchett")
	testutil.SeedAuthor(t, db, "Neil Gaiman")

	got, err := s.Search(context.Background(), "pRaTch")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Terry Pratchett", got[0].Name)
}
