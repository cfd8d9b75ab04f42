// Package console runs the interactive text menu on top of the catalog
// service and access control.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"lms/internal/access"
	"lms/internal/apperr"
	"lms/internal/catalog"
	"lms/internal/logging"
)

const (
	roleLibrarian = "librarian"
	roleMember    = "member"
	roleExit      = "exit"

	logAttrSessionID = "session_id"
)

var rule = strings.Repeat("-", 80)

// Session is one interactive run: it reads answers from in and writes the
// menus to out until the user exits or the input ends.
type Session struct {
	ID string

	in      *bufio.Scanner
	out     io.Writer
	catalog *catalog.Service
	auth    access.Authorizer
	logger  *slog.Logger
}

func NewSession(in io.Reader, out io.Writer, svc *catalog.Service, auth access.Authorizer, logger *slog.Logger) *Session {
	if logger == nil {
		logger = logging.Discard()
	}
	id := newSessionID()
	return &Session{
		ID:      id,
		in:      bufio.NewScanner(in),
		out:     out,
		catalog: svc,
		auth:    auth,
		logger:  logger.With(logAttrSessionID, id),
	}
}

func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Run loads the catalog and drives the role menu. End of input ends the
// session without error; only a failure to read the input is reported.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info("session started")
	defer s.logger.Info("session ended")

	s.catalog.Load(ctx)

	for {
		answer, ok := s.ask(promptRole)
		if !ok {
			return s.err()
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case roleLibrarian:
			if !s.librarian(ctx) {
				return s.err()
			}
		case roleMember:
			if !s.member(ctx) {
				return s.err()
			}
		case roleExit:
			s.println(msgGoodbye)
			return nil
		default:
			s.println(msgRoleHint)
		}
	}
}

func (s *Session) err() error {
	if err := s.in.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// librarian returns false when the input ended.
func (s *Session) librarian(ctx context.Context) bool {
	id, ok := s.ask(promptID)
	if !ok {
		return false
	}

	p, err := s.auth.Authorize(ctx, id)
	if err != nil {
		s.logger.Warn("librarian denied", "error", err.Error())
		s.println(msgAccessDenied)
		return true
	}
	s.logger.Info("librarian authorized", "librarian_id", p.ID)
	fmt.Fprintf(s.out, msgHello, p.Name)

	for {
		fmt.Fprint(s.out, librarianMenu)
		choice, ok := s.ask(promptChoice)
		if !ok {
			return false
		}

		switch strings.TrimSpace(choice) {
		case "1":
			if !s.addBook(ctx) {
				return false
			}
		case "2":
			if !s.removeBook(ctx) {
				return false
			}
		case "3":
			if !s.search(ctx, false) {
				return false
			}
		case "4":
			s.display()
		case "5":
			s.println(msgGoodbye)
			return true
		default:
			s.println(msgInvalidChoice)
		}
	}
}

func (s *Session) member(ctx context.Context) bool {
	s.println(msgWelcomeMember)
	answer, ok := s.ask(promptMember)
	if !ok {
		return false
	}

	choice, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		s.println(msgInvalidNumber)
		return true
	}

	switch choice {
	case 1:
		s.display()
	case 2:
		return s.search(ctx, true)
	default:
		s.println(msgInvalidChoice)
	}
	return true
}

func (s *Session) addBook(ctx context.Context) bool {
	var fields [4]string
	for i, prompt := range []string{promptTitle, promptISBN, promptAuthor, promptYear} {
		v, ok := s.ask(prompt)
		if !ok {
			return false
		}
		fields[i] = strings.TrimSpace(v)
	}

	year, err := strconv.Atoi(fields[3])
	if err != nil {
		s.logger.Warn("add book rejected", "reason", "publication year is not a number")
		s.println(msgAddFailed)
		return true
	}

	b := catalog.Book{Title: fields[0], ISBN: fields[1], Author: fields[2], Year: year, Status: catalog.StatusAvailable}
	if err := s.catalog.Add(ctx, b); err != nil {
		s.logger.Warn("add book failed", "isbn", b.ISBN, "kind", apperr.KindOf(err).String(), "error", err.Error())
		s.println(msgAddFailed)
		return true
	}
	s.println(msgAdded)
	return true
}

func (s *Session) removeBook(ctx context.Context) bool {
	isbn, ok := s.ask(promptRemoveKey)
	if !ok {
		return false
	}
	isbn = strings.TrimSpace(isbn)

	if err := s.catalog.Remove(ctx, isbn); err != nil {
		s.logger.Warn("remove book failed", "isbn", isbn, "kind", apperr.KindOf(err).String(), "error", err.Error())
		s.println(msgRemoveFailed)
		return true
	}
	s.println(msgRemoved)
	return true
}

func (s *Session) search(ctx context.Context, member bool) bool {
	answer, ok := s.ask(promptSearchBy)
	if !ok {
		return false
	}
	if _, err := strconv.Atoi(strings.TrimSpace(answer)); err != nil {
		s.println(msgInvalidNumber)
		return true
	}
	mode, err := catalog.ParseSearchMode(answer)
	if err != nil {
		s.println(msgInvalidChoice)
		return true
	}

	prompt := promptTitle
	if mode == catalog.SearchByISBN {
		prompt = promptISBN
	}
	value, ok := s.ask(prompt)
	if !ok {
		return false
	}

	books, err := s.catalog.Search(ctx, mode, strings.TrimSpace(value))
	if err != nil {
		s.logger.Warn("search failed", "mode", mode.String(), "kind", apperr.KindOf(err).String(), "error", err.Error())
	}
	if len(books) == 0 {
		s.println(msgNoBooks)
		return true
	}

	s.println(msgResultsHeader)
	s.println(rule)
	for _, b := range books {
		fmt.Fprintf(s.out, msgResultLine, b.Title, b.Author, b.ISBN, b.Status)
	}
	s.println(rule)
	if member {
		fmt.Fprint(s.out, msgFrontDesk)
	}
	return true
}

func (s *Session) display() {
	if err := s.catalog.Render(s.out); err != nil {
		s.logger.Error("render failed", "error", err.Error())
		return
	}
	if s.catalog.LoadErr() != nil {
		s.println(msgCatalogOffline)
	}
}

// ask prints prompt and reads one line. It returns false at end of input.
func (s *Session) ask(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		fmt.Fprintln(s.out)
		return "", false
	}
	return s.in.Text(), true
}

func (s *Session) println(msg string) {
	fmt.Fprintln(s.out, msg)
}
