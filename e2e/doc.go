//go:build e2e

// Package e2e provides end-to-end tests for the book club application.
//
// These tests are isolated from the standard test suite via build tags.
// They require a Chrome browser (auto-downloaded by Rod if not present)
// and are intended for CI pipelines or explicit local testing.
//
// Running E2E tests against the local fixture site:
//
//	go test -tags=e2e ./e2e/...
//
// Running them against a deployed application:
//
//	BOOKCLUB_BASE_URL=https://cypresstest.z6.web.core.windows.net/ \
//	BOOKCLUB_API_URL=https://cypresstestapi.azurewebsites.net/api \
//	go test -tags=e2e ./e2e/...
//
// Running all tests except E2E:
//
//	go test ./...
//
// E2E tests use:
//   - Rod for browser automation (Chrome DevTools Protocol)
//   - the fixture-site server when no BOOKCLUB_BASE_URL is set
//   - Session from pkg/bookclub/testutil for GetByE2eID/FillByE2eID
//
// Test isolation:
// Each test starts its own fixture site on a random port and opens its
// own incognito session; route mocks die with the session.
package e2e
