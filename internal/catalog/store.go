// Package catalog owns the shared book catalog: one stored record per ISBN,
// created lazily from the external provider on first reference.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/metadata"
)

// BookRepository persists catalog rows.
type BookRepository interface {
	FindByISBN(isbn string) (*entities.Book, error)
	CreateIfAbsent(book *entities.Book) (*entities.Book, bool, error)
}

// Fetcher looks up ISBNs at the external provider.
type Fetcher interface {
	Fetch(ctx context.Context, isbn string) (*metadata.BookRecord, error)
}

type Store struct {
	repo    BookRepository
	fetcher Fetcher
	group   singleflight.Group
}

func NewStore(repo BookRepository, fetcher Fetcher) *Store {
	return &Store{repo: repo, fetcher: fetcher}
}

// Get returns the cataloged book or ErrBookNotFound. It never calls the provider.
func (s *Store) Get(isbn string) (*entities.Book, error) {
	isbn = metadata.NormalizeISBN(isbn)
	if isbn == "" {
		return nil, ErrInvalidISBN
	}

	book, err := s.repo.FindByISBN(isbn)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrBookNotFound, isbn)
	}
	if err != nil {
		return nil, fmt.Errorf("find book %s: %w", isbn, err)
	}
	return book, nil
}

// GetOrFetch returns the cataloged book, fetching and storing it on a miss.
// Concurrent misses for one ISBN share a single provider call, and the
// insert-if-absent write keeps the first stored row authoritative.
func (s *Store) GetOrFetch(ctx context.Context, isbn string) (*entities.Book, error) {
	book, err := s.Get(isbn)
	if err == nil {
		return book, nil
	}
	if !errors.Is(err, ErrBookNotFound) {
		return nil, err
	}

	isbn = metadata.NormalizeISBN(isbn)
	v, err, shared := s.group.Do(isbn, func() (any, error) {
		return s.fetchAndStore(context.WithoutCancel(ctx), isbn)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.Debug("catalog miss coalesced", "isbn", isbn)
	}

	stored := *v.(*entities.Book)
	return &stored, nil
}

func (s *Store) fetchAndStore(ctx context.Context, isbn string) (*entities.Book, error) {
	// Another flight may have finished between our miss and this call.
	if book, err := s.repo.FindByISBN(isbn); err == nil {
		return book, nil
	}

	record, err := s.fetcher.Fetch(ctx, isbn)
	switch {
	case errors.Is(err, metadata.ErrNotFound):
		return nil, fmt.Errorf("%w: %s", ErrExternalRecordNotFound, isbn)
	case errors.Is(err, metadata.ErrInvalidISBN):
		return nil, ErrInvalidISBN
	case err != nil:
		return nil, fmt.Errorf("%w: %s: %w", ErrExternalSourceUnavailable, isbn, err)
	}

	book, created, err := s.repo.CreateIfAbsent(toEntity(isbn, record))
	if err != nil {
		return nil, fmt.Errorf("store book %s: %w", isbn, err)
	}
	if created {
		slog.Info("book cataloged", "isbn", isbn, "title", book.Title, "provider", book.Provider)
	}
	return book, nil
}

// toEntity maps a provider record onto a catalog row keyed by the requested
// ISBN, whatever formatting the provider echoed back.
func toEntity(isbn string, record *metadata.BookRecord) *entities.Book {
	book := &entities.Book{
		ISBN:        isbn,
		Title:       record.Title,
		Subtitle:    record.Subtitle,
		Authors:     nonNil(record.Authors),
		Publisher:   record.Publisher,
		Synopsis:    record.Synopsis,
		Year:        record.Year,
		Format:      record.Format,
		PageCount:   record.PageCount,
		Subjects:    nonNil(record.Subjects),
		Location:    record.Location,
		RetailPrice: record.RetailPrice,
		CoverURL:    record.CoverURL,
		Provider:    record.Provider,
	}
	if d := record.Dimensions; d != nil {
		book.Dimensions = entities.Dimensions{Width: d.Width, Height: d.Height, Unit: d.Unit}
	}
	return book
}

func nonNil(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
