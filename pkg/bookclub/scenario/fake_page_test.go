package scenario

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-rod/rod"

	"github.com/StacyCash/bookclub-e2e/pkg/bookclub"
	"github.com/StacyCash/bookclub-e2e/pkg/bookclub/testutil"
)

// fakePage stands in for the application: it renders the book list from a
// stubbed booklist route and feedback from a submitted form.
type fakePage struct {
	steps   []string
	visited string
	path    string
	fields  map[string]string
	text    map[string]string
	routes  map[string]fakeRoute
	calls   map[string]int
	closed  bool

	// failure knobs
	slugRule   func(string) string
	dropSubmit bool
	failClose  error
	panicOn    string

	// ctx and onWait make Wait block until ctx is done; onWait runs first.
	ctx    context.Context
	onWait func()
}

type fakeRoute struct {
	method, url string
	stub        *testutil.Response
}

func newFakePage() *fakePage {
	return &fakePage{
		fields:   make(map[string]string),
		text:     make(map[string]string),
		routes:   make(map[string]fakeRoute),
		calls:    make(map[string]int),
		slugRule: bookclub.Slug,
	}
}

func (f *fakePage) step(format string, args ...any) {
	f.steps = append(f.steps, fmt.Sprintf(format, args...))
}

func (f *fakePage) Visit(rawURL string) error {
	f.step("visit %s", rawURL)
	f.visited = rawURL
	f.path = "/"
	for _, id := range []string{bookclub.IDLinkToBookList, bookclub.IDName, bookclub.IDEmail, bookclub.IDGenre, bookclub.IDSubmit} {
		f.text[id] = ""
	}
	return nil
}

func (f *fakePage) requireVisit() error {
	if f.visited == "" {
		return testutil.ErrNoPage
	}
	return nil
}

func (f *fakePage) FillByE2eID(id, value string) (*rod.Element, error) {
	f.step("fill %s=%s", id, value)
	if err := f.requireVisit(); err != nil {
		return nil, err
	}
	if _, ok := f.text[id]; !ok {
		return nil, &testutil.ExpectationError{Step: "find " + id, Err: testutil.ErrTimeout}
	}
	f.fields[id] = value
	return nil, nil
}

func (f *fakePage) ClickByE2eID(id string) error {
	f.step("click %s", id)
	if f.panicOn == id {
		panic("boom")
	}
	if err := f.requireVisit(); err != nil {
		return err
	}
	switch id {
	case bookclub.IDLinkToBookList:
		f.path = bookclub.BookListPath
		for alias, rt := range f.routes {
			if rt.method != "GET" || !strings.HasSuffix(rt.url, "/"+EndpointBookList) || rt.stub == nil {
				continue
			}
			f.calls[alias]++
			list, err := bookclub.ParseBookList(rt.stub.Body)
			if err != nil {
				return err
			}
			for _, b := range list.Books {
				f.text["title-"+f.slugRule(b.Title)] = b.Title
			}
		}
	case bookclub.IDSubmit:
		if f.dropSubmit {
			return nil
		}
		for alias, rt := range f.routes {
			if rt.method == "POST" && strings.HasSuffix(rt.url, "/"+EndpointSignUp) {
				f.calls[alias]++
			}
		}
		f.text[bookclub.IDFeedbackFirst] = "Thanks " + f.fields[bookclub.IDName] + ", you are signed up"
	default:
		if _, ok := f.text[id]; !ok {
			return &testutil.ExpectationError{Step: "find " + id, Err: testutil.ErrTimeout}
		}
	}
	return nil
}

func (f *fakePage) ExpectVisible(id string) error {
	f.step("expect visible %s", id)
	if _, ok := f.text[id]; !ok {
		return &testutil.ExpectationError{Step: "expected " + id + " to be visible", Last: "no element", Err: testutil.ErrTimeout}
	}
	return nil
}

func (f *fakePage) ExpectContains(id, text string) error {
	f.step("expect %s contains %s", id, text)
	got, ok := f.text[id]
	if !ok || !strings.Contains(got, text) {
		return &testutil.ExpectationError{Step: "expected " + id + " to contain " + text, Last: got, Err: testutil.ErrTimeout}
	}
	return nil
}

func (f *fakePage) ExpectPath(path string) error {
	f.step("expect path %s", path)
	if f.path != path {
		return &testutil.ExpectationError{Step: "expected pathname " + path, Last: f.path, Err: testutil.ErrTimeout}
	}
	return nil
}

func (f *fakePage) Stub(alias, method, rawURL string, resp testutil.Response) error {
	f.step("stub %s %s %s", alias, method, rawURL)
	f.routes[alias] = fakeRoute{method: method, url: rawURL, stub: &resp}
	return nil
}

func (f *fakePage) Spy(alias, method, rawURL string) error {
	f.step("spy %s %s %s", alias, method, rawURL)
	f.routes[alias] = fakeRoute{method: method, url: rawURL}
	return nil
}

func (f *fakePage) Wait(alias string) (testutil.Call, error) {
	f.step("wait %s", alias)
	rt, ok := f.routes[alias]
	if !ok {
		return testutil.Call{}, testutil.ErrUnknownAlias
	}
	if f.onWait != nil {
		f.onWait()
		<-f.ctx.Done()
		return testutil.Call{}, &testutil.ExpectationError{
			Step: "wait for route " + alias,
			Err:  fmt.Errorf("%w: %w", testutil.ErrTimeout, f.ctx.Err()),
		}
	}
	if f.calls[alias] == 0 {
		return testutil.Call{}, &testutil.ExpectationError{Step: "wait for route " + alias, Err: testutil.ErrTimeout}
	}
	f.calls[alias]--
	return testutil.Call{Alias: alias, Method: rt.method, URL: rt.url}, nil
}

func (f *fakePage) Close() error {
	f.closed = true
	return f.failClose
}

var errOpen = errors.New("no browser")
