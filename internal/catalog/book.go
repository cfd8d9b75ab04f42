package catalog

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusBorrowed  Status = "borrowed"
)

var ErrInvalidStatus = errors.New("invalid book status")

// ParseStatus accepts either case; the store keeps "Available" and "Borrowed".
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(StatusAvailable):
		return StatusAvailable, nil
	case string(StatusBorrowed):
		return StatusBorrowed, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

func (s Status) String() string {
	return string(s)
}

// Value stores the capitalised form the schema's CHECK constraint expects.
func (s Status) Value() (driver.Value, error) {
	switch s {
	case StatusAvailable:
		return "Available", nil
	case StatusBorrowed:
		return "Borrowed", nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, string(s))
	}
}

func (s *Status) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidStatus, src)
	}

	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Book is one catalog record. ISBN is its identity and never changes once the
// record exists; the store keeps it as a number.
type Book struct {
	Title   string     `db:"title" json:"title"`
	Author  string     `db:"author" json:"author"`
	ISBN    string     `db:"isbn" json:"isbn"`
	Year    int        `db:"pub_year" json:"year"`
	Status  Status     `db:"status" json:"status"`
	DueDate *time.Time `db:"due_date" json:"due_date,omitempty"`
}

type SearchMode int

const (
	SearchByTitle SearchMode = iota + 1
	SearchByISBN
)

var ErrInvalidSearchMode = errors.New("invalid search mode")

// ParseSearchMode maps the menu choices "1" and "2" to a mode.
func ParseSearchMode(s string) (SearchMode, error) {
	switch strings.TrimSpace(s) {
	case "1":
		return SearchByTitle, nil
	case "2":
		return SearchByISBN, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSearchMode, s)
	}
}

func (m SearchMode) String() string {
	switch m {
	case SearchByTitle:
		return "title"
	case SearchByISBN:
		return "isbn"
	default:
		return "unknown"
	}
}
