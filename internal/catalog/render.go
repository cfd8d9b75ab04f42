package catalog

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	widthNo     = 4
	widthTitle  = 25
	widthAuthor = 20
	widthISBN   = 15
	widthStatus = 10
	ruleWidth   = 80
)

var rule = strings.Repeat("-", ruleWidth)

// Render writes the snapshot as a fixed-width table with 1-based row
// numbers. Cells longer than their column are cut so the columns line up.
func (s *Service) Render(w io.Writer) error {
	return RenderTable(w, s.books)
}

// RenderTable writes books in the layout used by Render.
func RenderTable(w io.Writer, books []Book) error {
	var b strings.Builder

	b.WriteString("\nLibrary Books:\n")
	b.WriteString(rule + "\n")
	writeRow(&b, "No.", "Title", "Author", "ISBN", "Status")
	b.WriteString(rule + "\n")
	for i, book := range books {
		writeRow(&b, strconv.Itoa(i+1), book.Title, book.Author, book.ISBN, book.Status.String())
	}
	b.WriteString(rule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeRow(b *strings.Builder, no, title, author, isbn, status string) {
	fmt.Fprintf(b, "%-*s %-*s %-*s %-*s %-*s\n",
		widthNo, cell(no, widthNo),
		widthTitle, cell(title, widthTitle),
		widthAuthor, cell(author, widthAuthor),
		widthISBN, cell(isbn, widthISBN),
		widthStatus, cell(status, widthStatus),
	)
}

func cell(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width])
}
