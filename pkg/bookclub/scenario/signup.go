package scenario

import (
	"fmt"
	"net/http"

	"github.com/StacyCash/bookclub-e2e/pkg/bookclub"
	"github.com/StacyCash/bookclub-e2e/pkg/bookclub/testutil"
)

// SignUpSubmits fills the sign-up form from the person fixture, submits it,
// waits for the sign-up request and checks the feedback names the person.
func SignUpSubmits(p Page, env Env) error {
	person, err := signUpSetup(p, env)
	if err != nil {
		return err
	}

	fields := []struct{ id, value string }{
		{bookclub.IDName, person.Name},
		{bookclub.IDEmail, person.Email},
		{bookclub.IDGenre, person.Genre},
	}
	for _, f := range fields {
		if _, err := p.FillByE2eID(f.id, f.value); err != nil {
			return err
		}
	}

	endpoint := env.Endpoint(EndpointSignUp)
	if env.StubSignUp {
		resp, err := testutil.JSONResponse(http.StatusCreated, person)
		if err != nil {
			return err
		}
		err = p.Stub(AliasSignUp, http.MethodPost, endpoint, resp)
		if err != nil {
			return err
		}
	} else if err := p.Spy(AliasSignUp, http.MethodPost, endpoint); err != nil {
		return err
	}

	if err := p.ClickByE2eID(bookclub.IDSubmit); err != nil {
		return err
	}
	if _, err := p.Wait(AliasSignUp); err != nil {
		return err
	}
	return p.ExpectContains(bookclub.IDFeedbackFirst, person.Name)
}

// SignUpNavigatesToBookList follows the book-list link from the sign-up
// page and checks the path.
func SignUpNavigatesToBookList(p Page, env Env) error {
	if _, err := signUpSetup(p, env); err != nil {
		return err
	}
	if err := p.ClickByE2eID(bookclub.IDLinkToBookList); err != nil {
		return err
	}
	return p.ExpectPath(bookclub.BookListPath)
}

func signUpSetup(p Page, env Env) (bookclub.Person, error) {
	if err := p.Visit(env.BaseURL); err != nil {
		return bookclub.Person{}, err
	}
	person, err := env.Fixtures.Person()
	if err != nil {
		return bookclub.Person{}, fmt.Errorf("load person: %w", err)
	}
	return person, nil
}
