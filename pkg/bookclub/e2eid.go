package bookclub

import "strings"

// Test-ids the application exposes. Title ids are built with TitleE2eID.
const (
	IDLinkToBookList = "link-to-booklist"
	IDName           = "name"
	IDEmail          = "email"
	IDGenre          = "genre"
	IDSubmit         = "submit"
	IDFeedbackFirst  = "feedback0"

	titlePrefix = "title-"
)

// BookListPath is the route the book-list link navigates to.
const BookListPath = "/book-list"

// Slug lower-cases title and joins its space-separated words with hyphens.
//
// It mirrors the application's rule exactly: the title is split on single
// spaces, so punctuation is kept and a run of n spaces becomes a run of n
// hyphens. Tabs and other whitespace are left untouched.
func Slug(title string) string {
	return strings.Join(strings.Split(strings.ToLower(title), " "), "-")
}

// TitleE2eID returns the data-e2e-id of the element rendering title.
func TitleE2eID(title string) string {
	return titlePrefix + Slug(title)
}
