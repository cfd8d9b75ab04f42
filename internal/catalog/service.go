package catalog

import (
	"context"
	"log/slog"
	"slices"

	"lms/internal/logging"
)

// Service keeps an in-memory snapshot of the catalog, sorted by title, and
// rebuilds it from the repository after every successful mutation. A
// Service belongs to one session and is not safe for concurrent use.
type Service struct {
	repo    Repository
	logger  *slog.Logger
	books   []Book
	loadErr error
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{repo: repo, logger: logger, books: []Book{}}
}

// Load replaces the snapshot with the repository's current content. On
// failure the snapshot is emptied and the error is kept in LoadErr instead of
// being returned.
func (s *Service) Load(ctx context.Context) {
	books, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("cannot load catalog", "error", err.Error())
		s.books = []Book{}
		s.loadErr = err
		return
	}
	s.books = books
	s.loadErr = nil
	s.logger.Debug("catalog loaded", "books", len(books))
}

// LoadErr is the error of the last Load, nil when it succeeded. It tells a
// failed load apart from an empty catalog.
func (s *Service) LoadErr() error {
	return s.loadErr
}

// Books returns a copy of the snapshot.
func (s *Service) Books() []Book {
	return slices.Clone(s.books)
}

func (s *Service) Add(ctx context.Context, b Book) error {
	if err := s.repo.Insert(ctx, b); err != nil {
		return err
	}
	s.logger.Info("book added", "isbn", b.ISBN)
	s.Load(ctx)
	return nil
}

func (s *Service) Remove(ctx context.Context, isbn string) error {
	if err := s.repo.DeleteByISBN(ctx, isbn); err != nil {
		return err
	}
	s.logger.Info("book removed", "isbn", isbn)
	s.Load(ctx)
	return nil
}

func (s *Service) Search(ctx context.Context, mode SearchMode, value string) ([]Book, error) {
	return s.repo.Search(ctx, mode, value)
}

// Count reads through to the repository; a failure counts as zero books.
func (s *Service) Count(ctx context.Context) int {
	n, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Warn("cannot count books", "error", err.Error())
		return 0
	}
	return n
}
