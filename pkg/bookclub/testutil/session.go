package testutil

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// E2eAttr is the DOM attribute the application tags testable elements with.
const E2eAttr = "data-e2e-id"

// E2eSelector returns the CSS selector for an element whose data-e2e-id
// equals id.
func E2eSelector(id string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\a `)
	return "[" + E2eAttr + `="` + r.Replace(id) + `"]`
}

// Session is one isolated page with its own route mocks. Commands wait up
// to the session timeout, then fail with an error wrapping ErrTimeout.
// Canceling the session's context aborts any command in flight.
type Session struct {
	ctxBrowser *rod.Browser
	base       *rod.Page // not bound to ctx, used for teardown
	page       *rod.Page
	routes     *Routes
	timeout    time.Duration
	logger     *log.Logger
	visited    bool
}

func newSession(ctx context.Context, ctxBrowser *rod.Browser, page *rod.Page, timeout time.Duration, logger *log.Logger) *Session {
	return &Session{
		ctxBrowser: ctxBrowser,
		base:       page,
		page:       page.Context(ctx),
		routes:     newRoutes(page, timeout, logger),
		timeout:    timeout,
		logger:     logger,
	}
}

// Visit navigates to rawURL and waits for the load event.
func (s *Session) Visit(rawURL string) error {
	page := s.page.Timeout(s.timeout)
	defer page.CancelTimeout()

	if err := page.Navigate(rawURL); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", rawURL, timeoutErr(err))
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("page %s did not load: %w", rawURL, timeoutErr(err))
	}
	s.visited = true
	s.logger.Debug("visited", "url", rawURL)
	return nil
}

// GetByE2eID waits for the element whose data-e2e-id equals id.
func (s *Session) GetByE2eID(id string) (*rod.Element, error) {
	if !s.visited {
		return nil, ErrNoPage
	}
	el, err := s.page.Timeout(s.timeout).Element(E2eSelector(id))
	if err != nil {
		return nil, s.lookupErr(id, err)
	}
	return el.CancelTimeout(), nil
}

// FillByE2eID resolves id like GetByE2eID, clears the element's value and
// types value into it.
func (s *Session) FillByE2eID(id, value string) (*rod.Element, error) {
	el, err := s.GetByE2eID(id)
	if err != nil {
		return nil, err
	}
	t := el.Timeout(s.timeout)
	defer t.CancelTimeout()

	if err := t.WaitVisible(); err != nil {
		return nil, fmt.Errorf("fill %q: %w", id, s.lookupErr(id, err))
	}
	if _, err := t.Eval(`function () {
		this.focus();
		this.value = '';
		this.dispatchEvent(new Event('input', { bubbles: true }));
	}`); err != nil {
		return nil, fmt.Errorf("clear %q: %w", id, err)
	}
	if value != "" {
		if err := t.Input(value); err != nil {
			return nil, fmt.Errorf("type into %q: %w", id, timeoutErr(err))
		}
	}
	return el, nil
}

// ClickByE2eID resolves id and clicks it once it is interactable.
func (s *Session) ClickByE2eID(id string) error {
	el, err := s.GetByE2eID(id)
	if err != nil {
		return err
	}
	if err := el.Timeout(s.timeout).Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %q: %w", id, s.lookupErr(id, err))
	}
	return nil
}

// ExpectVisible waits until id is rendered and visible.
func (s *Session) ExpectVisible(id string) error {
	return s.expectElement(id, "to be visible", func(el *rod.Element) (bool, string, error) {
		visible, err := el.Visible()
		if err != nil {
			return false, "", err
		}
		if !visible {
			return false, "hidden element", nil
		}
		return true, "", nil
	})
}

// ExpectContains waits until id's text contains text.
func (s *Session) ExpectContains(id, text string) error {
	return s.expectElement(id, fmt.Sprintf("to contain %q", text), func(el *rod.Element) (bool, string, error) {
		got, err := el.Text()
		if err != nil {
			return false, "", err
		}
		return strings.Contains(got, text), fmt.Sprintf("%q", got), nil
	})
}

func (s *Session) expectElement(id, what string, check func(*rod.Element) (bool, string, error)) error {
	if !s.visited {
		return ErrNoPage
	}
	sel := E2eSelector(id)
	return Eventually(s.page.GetContext(), fmt.Sprintf("expected %s %s", sel, what), s.timeout, PollInterval,
		func() (bool, string, error) {
			els, err := s.page.Elements(sel)
			if err != nil {
				return false, "", err
			}
			if els.Empty() {
				return false, "no element", nil
			}
			return check(els.First())
		})
}

// Location returns the page's current URL.
func (s *Session) Location() (*url.URL, error) {
	if !s.visited {
		return nil, ErrNoPage
	}
	res, err := s.page.Eval(`() => window.location.href`)
	if err != nil {
		return nil, fmt.Errorf("failed to read location: %w", err)
	}
	return url.Parse(res.Value.String())
}

// ExpectPath waits until the location's path equals path.
func (s *Session) ExpectPath(path string) error {
	if !s.visited {
		return ErrNoPage
	}
	return Eventually(s.page.GetContext(), fmt.Sprintf("expected pathname %q", path), s.timeout, PollInterval,
		func() (bool, string, error) {
			u, err := s.Location()
			if err != nil {
				return false, "", err
			}
			return u.Path == path, fmt.Sprintf("%q", u.Path), nil
		})
}

// Stub registers a stubbed route; see Routes.Stub.
func (s *Session) Stub(alias, method, rawURL string, resp Response) error {
	return s.routes.Stub(alias, method, rawURL, resp)
}

// Spy registers a pass-through route; see Routes.Spy.
func (s *Session) Spy(alias, method, rawURL string) error {
	return s.routes.Spy(alias, method, rawURL)
}

// Wait blocks until the route registered as alias has been called.
func (s *Session) Wait(alias string) (Call, error) {
	return s.routes.Wait(s.page.GetContext(), alias)
}

// WaitStable waits for the page to be stable (no DOM changes).
func (s *Session) WaitStable() error {
	if !s.visited {
		return ErrNoPage
	}
	return s.page.WaitStable(s.timeout)
}

// Close tears down route mocks, the page and its browser context.
func (s *Session) Close() error {
	var errs []error
	if err := s.routes.Close(); err != nil {
		errs = append(errs, fmt.Errorf("stop routes: %w", err))
	}
	if err := s.base.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close page: %w", err))
	}
	if s.ctxBrowser != nil {
		if err := s.ctxBrowser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser context: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (s *Session) lookupErr(id string, err error) error {
	err = timeoutErr(err)
	if errors.Is(err, ErrTimeout) {
		return &ExpectationError{Step: "find " + E2eSelector(id), Err: err}
	}
	return err
}

func timeoutErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}
