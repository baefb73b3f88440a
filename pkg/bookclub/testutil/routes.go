package testutil

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/goccy/go-json"
)

// Response is the canned reply of a stubbed route.
type Response struct {
	Status      int               // default 200
	Body        []byte            // sent verbatim
	ContentType string            // default application/json
	Headers     map[string]string // extra headers
}

// JSONResponse encodes v as the body of a Response.
func JSONResponse(status int, v any) (Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return Response{}, fmt.Errorf("failed to encode response: %w", err)
	}
	return Response{Status: status, Body: body, ContentType: "application/json"}, nil
}

// Call is one request a route matched.
type Call struct {
	Alias  string
	Method string
	URL    string
	Body   string
	At     time.Time
}

type route struct {
	alias  string
	method string
	url    string
	stub   *Response

	calls    []Call
	consumed int
	signal   chan struct{}
}

// matches reports whether a request hits the route. Query string and
// fragment are ignored; a method of "" or "*" matches any method.
func (r *route) matches(method string, u *url.URL) bool {
	if r.method != "" && r.method != "*" && !strings.EqualFold(r.method, method) {
		return false
	}
	return sameResource(r.url, u)
}

func sameResource(routeURL string, u *url.URL) bool {
	want, err := url.Parse(routeURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(want.Scheme, u.Scheme) &&
		strings.EqualFold(want.Host, u.Host) &&
		strings.TrimSuffix(want.Path, "/") == strings.TrimSuffix(u.Path, "/")
}

// action is what the hijack handler should do with a paused request.
type action int

const (
	actionContinue action = iota
	actionFulfill
	actionPreflight
)

// Routes intercepts the page's network traffic for registered URLs.
// A stubbed route answers from its Response; a spied route lets the request
// through. Both record every matching call for Wait.
type Routes struct {
	page    *rod.Page
	router  *rod.HijackRouter
	logger  *log.Logger
	timeout time.Duration
	now     func() time.Time
	hijack  func(pattern string) error // nil when detached from a page

	mu       sync.Mutex
	routes   []*route
	byAlias  map[string]*route
	patterns map[string]bool
}

func newRoutes(page *rod.Page, timeout time.Duration, logger *log.Logger) *Routes {
	r := &Routes{
		page:     page,
		logger:   logger,
		timeout:  timeout,
		now:      time.Now,
		byAlias:  make(map[string]*route),
		patterns: make(map[string]bool),
	}
	if page != nil {
		r.hijack = r.intercept
	}
	return r
}

// Stub fulfils method requests to rawURL with resp. An empty alias
// defaults to "METHOD URL".
func (r *Routes) Stub(alias, method, rawURL string, resp Response) error {
	return r.add(alias, method, rawURL, &resp)
}

// Spy records method requests to rawURL and lets them reach the network.
func (r *Routes) Spy(alias, method, rawURL string) error {
	return r.add(alias, method, rawURL, nil)
}

func (r *Routes) add(alias, method, rawURL string, stub *Response) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("route URL %q must be absolute", rawURL)
	}
	method = strings.ToUpper(method)
	if alias == "" {
		alias = method + " " + rawURL
	}

	r.mu.Lock()
	if _, dup := r.byAlias[alias]; dup {
		r.mu.Unlock()
		return fmt.Errorf("route alias %q already registered", alias)
	}
	rt := &route{
		alias:  alias,
		method: method,
		url:    rawURL,
		stub:   stub,
		signal: make(chan struct{}),
	}
	r.routes = append(r.routes, rt)
	r.byAlias[alias] = rt

	pattern := u.Scheme + "://" + u.Host + u.Path + "*"
	needPattern := !r.patterns[pattern]
	r.patterns[pattern] = true
	r.mu.Unlock()

	if r.hijack == nil || !needPattern {
		return nil
	}
	if err := r.hijack(pattern); err != nil {
		r.remove(rt, pattern)
		return err
	}
	return nil
}

// remove unregisters rt and pattern after interception failed, so the alias
// can be registered again.
func (r *Routes) remove(rt *route, pattern string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, other := range r.routes {
		if other == rt {
			r.routes = append(r.routes[:i], r.routes[i+1:]...)
			break
		}
	}
	delete(r.byAlias, rt.alias)
	delete(r.patterns, pattern)
}

func (r *Routes) intercept(pattern string) error {
	start := false
	if r.router == nil {
		r.router = r.page.HijackRequests()
		start = true
	}
	if err := r.router.Add(pattern, "", r.handle); err != nil {
		return fmt.Errorf("failed to intercept %s: %w", pattern, err)
	}
	if start {
		go r.router.Run()
	}
	return nil
}

func (r *Routes) handle(h *rod.Hijack) {
	method := h.Request.Method()
	u := h.Request.URL()

	rt, act := r.resolve(method, u, h.Request.Body())
	switch act {
	case actionPreflight:
		h.Response.Payload().ResponseCode = http.StatusNoContent
		h.Response.SetHeader(corsHeaders(h.Request.Header("Origin"))...)
	case actionFulfill:
		resp := rt.stub
		status := resp.Status
		if status == 0 {
			status = http.StatusOK
		}
		contentType := resp.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		headers := append(corsHeaders(h.Request.Header("Origin")), "Content-Type", contentType)
		for k, v := range resp.Headers {
			headers = append(headers, k, v)
		}
		h.Response.Payload().ResponseCode = status
		h.Response.SetHeader(headers...)
		h.Response.SetBody(resp.Body)
		r.logger.Debug("route stubbed", "alias", rt.alias, "method", method, "url", u.String(), "status", status)
	default:
		if rt != nil {
			r.logger.Debug("route spied", "alias", rt.alias, "method", method, "url", u.String())
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	}
}

// resolve picks the first registered route for a request and records the
// call. Preflights for a stubbed URL are answered but not recorded.
func (r *Routes) resolve(method string, u *url.URL, body string) (*route, action) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if method == http.MethodOptions {
		for _, rt := range r.routes {
			if rt.stub != nil && rt.method != http.MethodOptions && sameResource(rt.url, u) {
				return rt, actionPreflight
			}
		}
	}

	for _, rt := range r.routes {
		if !rt.matches(method, u) {
			continue
		}
		rt.calls = append(rt.calls, Call{
			Alias:  rt.alias,
			Method: method,
			URL:    u.String(),
			Body:   body,
			At:     r.now(),
		})
		close(rt.signal)
		rt.signal = make(chan struct{})
		if rt.stub != nil {
			return rt, actionFulfill
		}
		return rt, actionContinue
	}
	return nil, actionContinue
}

func corsHeaders(origin string) []string {
	if origin == "" {
		origin = "*"
	}
	return []string{
		"Access-Control-Allow-Origin", origin,
		"Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		"Access-Control-Allow-Headers", "Content-Type, Authorization",
		"Access-Control-Allow-Credentials", "true",
	}
}

// Wait blocks until alias has a call that no earlier Wait returned, like
// cy.wait('@alias'). It gives up after the session timeout or when ctx ends.
func (r *Routes) Wait(ctx context.Context, alias string) (Call, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	for {
		r.mu.Lock()
		rt, ok := r.byAlias[alias]
		if !ok {
			r.mu.Unlock()
			return Call{}, fmt.Errorf("%w: %q", ErrUnknownAlias, alias)
		}
		if rt.consumed < len(rt.calls) {
			c := rt.calls[rt.consumed]
			rt.consumed++
			r.mu.Unlock()
			return c, nil
		}
		signal := rt.signal
		r.mu.Unlock()

		select {
		case <-signal:
		case <-ctx.Done():
			return Call{}, &ExpectationError{
				Step: fmt.Sprintf("wait for route %q", alias),
				Last: fmt.Sprintf("%d call(s)", r.count(alias)),
				Err:  ErrTimeout,
			}
		}
	}
}

// Calls returns every call recorded for alias.
func (r *Routes) Calls(alias string) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.byAlias[alias]
	if !ok {
		return nil
	}
	return append([]Call(nil), rt.calls...)
}

func (r *Routes) count(alias string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rt, ok := r.byAlias[alias]; ok {
		return len(rt.calls)
	}
	return 0
}

// Close stops intercepting. Routes cannot be reused afterwards.
func (r *Routes) Close() error {
	if r.router == nil {
		return nil
	}
	err := r.router.Stop()
	r.router = nil
	return err
}
