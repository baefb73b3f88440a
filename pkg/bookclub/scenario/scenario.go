// Package scenario holds the book club end-to-end scenarios and a runner
// that executes them one after another, each in a fresh browser session.
package scenario

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-rod/rod"

	"github.com/StacyCash/bookclub-e2e/pkg/bookclub"
	"github.com/StacyCash/bookclub-e2e/pkg/bookclub/testutil"
)

// Page is the command vocabulary scenarios drive. *testutil.Session
// implements it.
type Page interface {
	Visit(rawURL string) error
	FillByE2eID(id, value string) (*rod.Element, error)
	ClickByE2eID(id string) error
	ExpectVisible(id string) error
	ExpectContains(id, text string) error
	ExpectPath(path string) error
	Stub(alias, method, rawURL string, resp testutil.Response) error
	Spy(alias, method, rawURL string) error
	Wait(alias string) (testutil.Call, error)
	Close() error
}

var _ Page = (*testutil.Session)(nil)

// Default application endpoints.
const (
	DefaultBaseURL = "https://cypresstest.z6.web.core.windows.net/"
	DefaultAPIURL  = "https://cypresstestapi.azurewebsites.net/api"
)

// API endpoint names under Env.APIURL.
const (
	EndpointBookList = "booklist"
	EndpointSignUp   = "bookclubsignup"
)

// AliasSignUp names the sign-up route for Wait.
const AliasSignUp = "SignUpApi"

// Env is what a scenario needs besides the page: where the application
// lives and which fixtures to feed it.
type Env struct {
	BaseURL  string
	APIURL   string
	Fixtures *bookclub.Fixtures

	// BookIndex picks the book the list scenario checks; -1 is the last.
	BookIndex int
	// StubSignUp answers the sign-up POST from the person fixture instead
	// of letting it reach the real API.
	StubSignUp bool
}

// DefaultEnv targets the hosted application with the embedded fixtures.
func DefaultEnv() Env {
	return Env{
		BaseURL:    DefaultBaseURL,
		APIURL:     DefaultAPIURL,
		Fixtures:   bookclub.EmbeddedFixtures(),
		BookIndex:  -1,
		StubSignUp: true,
	}
}

// Validate checks the URLs are absolute and fixtures are set.
func (e Env) Validate() error {
	for name, raw := range map[string]string{"base URL": e.BaseURL, "API URL": e.APIURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s %q must be an absolute URL", name, raw)
		}
	}
	if e.Fixtures == nil {
		return errors.New("fixtures are not configured")
	}
	return nil
}

// Endpoint returns the absolute URL of an API endpoint.
func (e Env) Endpoint(name string) string {
	return strings.TrimSuffix(e.APIURL, "/") + "/" + name
}

// Scenario is one named, self-contained test case.
type Scenario struct {
	Name string
	Run  func(p Page, env Env) error
}

// All returns every scenario in execution order.
func All() []Scenario {
	return []Scenario{
		{Name: "book-list/loads-books", Run: BookListShowsBook},
		{Name: "sign-up/submits-and-shows-feedback", Run: SignUpSubmits},
		{Name: "sign-up/navigates-to-book-list", Run: SignUpNavigatesToBookList},
	}
}

// Select returns the scenarios whose names match any of patterns, in
// execution order. A pattern matches a full name or a "group/" prefix. No
// patterns selects everything.
func Select(patterns ...string) ([]Scenario, error) {
	all := All()
	if len(patterns) == 0 {
		return all, nil
	}
	var out []Scenario
	for _, sc := range all {
		for _, p := range patterns {
			if sc.Name == p || strings.HasPrefix(sc.Name, strings.TrimSuffix(p, "/")+"/") {
				out = append(out, sc)
				break
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no scenario matches %q", patterns)
	}
	return out, nil
}
