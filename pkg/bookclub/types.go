// Package bookclub holds the data model the book club end-to-end scenarios
// run against: book and person records loaded from fixtures, and the
// test-id rules the application uses to tag its DOM.
package bookclub

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrEmptyBookList is returned when a book-list fixture has no entries.
	ErrEmptyBookList = errors.New("book list is empty")
	// ErrInvalidPerson is returned when a person fixture is missing a field.
	ErrInvalidPerson = errors.New("invalid person")
)

// Book is one entry of the GET /api/booklist payload.
// Only Title is relied upon; the other fields are carried for display.
type Book struct {
	Title  string `json:"title"`
	Author string `json:"author,omitempty"`
	Genre  string `json:"genre,omitempty"`
}

// E2eID returns the data-e2e-id the application gives this book's title.
func (b Book) E2eID() string {
	return TitleE2eID(b.Title)
}

// BookList is the decoded book-list fixture. Raw keeps the document exactly
// as authored so it can be served back verbatim as a mock response.
type BookList struct {
	Books []Book
	Raw   []byte
}

// Len returns the number of books.
func (l *BookList) Len() int {
	return len(l.Books)
}

// Last returns the final book in the list.
func (l *BookList) Last() (Book, error) {
	return l.At(-1)
}

// At returns the book at index i. Negative indices count from the end, so
// -1 is the last book.
func (l *BookList) At(i int) (Book, error) {
	n := len(l.Books)
	if n == 0 {
		return Book{}, ErrEmptyBookList
	}
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return Book{}, fmt.Errorf("book index %d out of range [0,%d)", i, n)
	}
	return l.Books[i], nil
}

// Person is the sign-up form input.
type Person struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Genre string `json:"genre" validate:"required"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
}

// Validate checks that every form field has a value and that Email is an
// address.
func (p Person) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidPerson, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is empty")
		case "email":
			msgs = append(msgs, fmt.Sprintf("email %q is not an address", fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidPerson, strings.Join(msgs, ", "))
}
