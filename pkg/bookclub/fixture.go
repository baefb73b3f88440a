package bookclub

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/goccy/go-json"

	"github.com/StacyCash/bookclub-e2e/fixtures"
)

// Fixtures loads the book-list and person documents from a file system.
// A fresh value is cheap; scenarios load fixtures per run so no state leaks
// between them.
type Fixtures struct {
	fsys       fs.FS
	bookList   string
	personPath string
}

// FixturesOption configures Fixtures.
type FixturesOption func(*Fixtures)

// WithBookListPath overrides the book-list document path.
func WithBookListPath(p string) FixturesOption {
	return func(f *Fixtures) {
		f.bookList = p
	}
}

// WithPersonPath overrides the person document path.
func WithPersonPath(p string) FixturesOption {
	return func(f *Fixtures) {
		f.personPath = p
	}
}

// NewFixtures reads fixtures from fsys using the default document paths.
func NewFixtures(fsys fs.FS, opts ...FixturesOption) *Fixtures {
	f := &Fixtures{
		fsys:       fsys,
		bookList:   fixtures.BookListPath,
		personPath: fixtures.PersonPath,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// EmbeddedFixtures reads the fixtures compiled into the binary.
func EmbeddedFixtures(opts ...FixturesOption) *Fixtures {
	return NewFixtures(fixtures.FS, opts...)
}

// DirFixtures reads fixtures from dir, or the embedded set when dir is empty.
func DirFixtures(dir string, opts ...FixturesOption) *Fixtures {
	if dir == "" {
		return EmbeddedFixtures(opts...)
	}
	return NewFixtures(os.DirFS(dir), opts...)
}

// BookList loads and decodes the book-list fixture.
func (f *Fixtures) BookList() (*BookList, error) {
	data, err := fs.ReadFile(f.fsys, f.bookList)
	if err != nil {
		return nil, fmt.Errorf("failed to read book list fixture: %w", err)
	}
	return ParseBookList(data)
}

// Person loads, decodes and validates the person fixture.
func (f *Fixtures) Person() (Person, error) {
	data, err := fs.ReadFile(f.fsys, f.personPath)
	if err != nil {
		return Person{}, fmt.Errorf("failed to read person fixture: %w", err)
	}
	return ParsePerson(data)
}

// ParseBookList decodes a JSON array of books. Every entry needs a title.
func ParseBookList(data []byte) (*BookList, error) {
	var books []Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("failed to parse book list: %w", err)
	}
	if len(books) == 0 {
		return nil, ErrEmptyBookList
	}
	for i, b := range books {
		if b.Title == "" {
			return nil, fmt.Errorf("book %d has no title", i)
		}
	}
	raw := make([]byte, len(data))
	copy(raw, data)
	return &BookList{Books: books, Raw: raw}, nil
}

// ParsePerson decodes and validates a person record.
func ParsePerson(data []byte) (Person, error) {
	var p Person
	if err := json.Unmarshal(data, &p); err != nil {
		return Person{}, fmt.Errorf("failed to parse person: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Person{}, err
	}
	return p, nil
}
