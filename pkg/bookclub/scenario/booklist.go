package scenario

import (
	"fmt"
	"net/http"

	"github.com/StacyCash/bookclub-e2e/pkg/bookclub"
	"github.com/StacyCash/bookclub-e2e/pkg/bookclub/testutil"
)

// AliasBookList names the book-list route.
const AliasBookList = "bookList"

// BookListShowsBook opens the application, serves the book-list fixture in
// place of the API, follows the book-list link and checks the selected book
// is rendered under its title test-id.
func BookListShowsBook(p Page, env Env) error {
	books, err := env.Fixtures.BookList()
	if err != nil {
		return err
	}
	book, err := books.At(env.BookIndex)
	if err != nil {
		return fmt.Errorf("select book: %w", err)
	}

	if err := p.Visit(env.BaseURL); err != nil {
		return err
	}
	resp := testutil.Response{Status: http.StatusOK, Body: books.Raw, ContentType: "application/json"}
	if err := p.Stub(AliasBookList, http.MethodGet, env.Endpoint(EndpointBookList), resp); err != nil {
		return err
	}
	if err := p.ClickByE2eID(bookclub.IDLinkToBookList); err != nil {
		return err
	}

	id := book.E2eID()
	if err := p.ExpectVisible(id); err != nil {
		return err
	}
	return p.ExpectContains(id, book.Title)
}
