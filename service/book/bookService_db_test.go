package booksvc_test

import (
	"context"
	"testing"

	"libraryapi/model"
	bookrepo "libraryapi/repository/book"
	booksvc "libraryapi/service/book"
	"libraryapi/service/errs"
	"libraryapi/util/testutil"

	"github.com/stretchr/testify/require"
)

func TestBooks_SearchAndCategories(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	s := booksvc.New(db, bookrepo.New(db))

	herbert := testutil.SeedAuthor(t, db, "Frank Herbert")
	leguin := testutil.SeedAuthor(t, db, "Ursula K. Le Guin")
	dune := testutil.SeedBook(t, db, herbert, "Dune", "9780441013593", 2)
	earthsea := testutil.SeedBook(t, db, leguin, "A Wizard of Earthsea", "9780547773742", 1)
	fantasy := testutil.SeedCategory(t, db, "Fantasy")

	require.NoError(t, s.AddCategory(ctx, earthsea, fantasy))
	err := s.AddCategory(ctx, earthsea, fantasy)
	require.Equal(t, errs.ErrConflict, errs.Code(err))
	require.Equal(t, errs.ErrNotFound, errs.Code(s.AddCategory(ctx, earthsea, 999)))
	require.Equal(t, errs.ErrNotFound, errs.Code(s.AddCategory(ctx, 999, fantasy)))

	cats, err := s.Categories(ctx, earthsea)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	require.Equal(t, "Fantasy", cats[0].Name)

	hits, err := s.Search(ctx, "FANTASY")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, earthsea, hits[0].ID)

	hits, err = s.Search(ctx, "herbert")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, dune, hits[0].ID)
	require.NotNil(t, hits[0].AuthorName)
	require.Equal(t, "Frank Herbert", *hits[0].AuthorName)

	byCat, err := s.ListFiltered(ctx, model.BookFilter{CategoryID: fantasy}, 1, 10)
	require.NoError(t, err)
	require.Len(t, byCat.Data, 1)
	require.EqualValues(t, 2, byCat.Pagination.Total)

	require.NoError(t, s.RemoveCategory(ctx, earthsea, fantasy))
	require.Equal(t, errs.ErrNotFound, errs.Code(s.RemoveCategory(ctx, earthsea, fantasy)))
}

func TestBooks_CreateUpdateCopies(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	s := booksvc.New(db, bookrepo.New(db))
	author := testutil.SeedAuthor(t, db, "Octavia Butler")

	total := 3
	b, err := s.Create(ctx, model.BookInput{Title: "Kindred", AuthorID: author, ISBN: "0807083054", TotalCopies: &total})
	require.NoError(t, err)
	require.Equal(t, 3, b.TotalCopies)
	require.Equal(t, 3, b.AvailableCopies)

	_, err = s.Create(ctx, model.BookInput{Title: "Kindred", AuthorID: author + 1, ISBN: "0807083054"})
	require.Equal(t, errs.ErrInvalidInput, errs.Code(err))

	total = 1
	b, err = s.Update(ctx, b.ID, model.BookInput{Title: "Kindred", AuthorID: author, ISBN: "0807083054", TotalCopies: &total})
	require.NoError(t, err)
	require.Equal(t, 1, b.AvailableCopies)

	n, err := s.AvailableCopies(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	avail, err := s.Available(ctx)
	require.NoError(t, err)
	require.Len(t, avail, 1)

	require.NoError(t, s.Delete(ctx, b.ID))
	_, err = s.Detail(ctx, b.ID)
	require.Equal(t, errs.ErrNotFound, errs.Code(err))
}

func TestBooks_Pagination(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	s := booksvc.New(db, bookrepo.New(db))
	author := testutil.SeedAuthor(t, db, "Isaac Asimov")
	for _, isbn := range []string{"0000000001", "0000000002", "0000000003"} {
		testutil.SeedBook(t, db, author, "Foundation "+isbn[9:], isbn, 1)
	}

	p, err := s.ListPaginated(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, p.Data, 1)
	require.Equal(t, model.Pagination{Page: 2, Limit: 2, Total: 3}, p.Pagination)

	p, err = s.ListPaginated(ctx, 0, 500)
	require.NoError(t, err)
	require.Equal(t, 1, p.Pagination.Page)
	require.Equal(t, 100, p.Pagination.Limit)
	require.Len(t, p.Data, 3)
}

func TestBooks_SearchTreatsWildcardsLiterally(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	s := booksvc.New(db, bookrepo.New(db))

	author := testutil.SeedAuthor(t, db, "Gabriel García Márquez")
	testutil.SeedBook(t, db, author, "One Hundred Years of Solitude", "9780060883287", 1)
	pct := testutil.SeedBook(t, db, author, "100% Memorias", "9780307389732", 1)

	hits, err := s.Search(ctx, "%")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, pct, hits[0].ID)

	hits, err = s.Search(ctx, "_")
	require.NoError(t, err)
	require.Empty(t, hits)

	hits, err = s.Search(ctx, "GARCÍA")
	require.NoError(t, err)
	require.Len(t, hits, 2)

	list, err := s.ListFiltered(ctx, model.BookFilter{Search: "%"}, 1, 10)
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
}
