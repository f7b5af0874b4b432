// Package favourites manages each customer's set of favourite books.
//
// Mutations for one customer run one at a time; different customers never
// wait on each other. The unique index on customer_favorite_books backs the
// same guarantee at the database level.
package favourites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/metadata"
)

var (
	ErrAlreadyFavorited = errors.New("book already in favourites")
	ErrFavoriteNotFound = errors.New("book not in favourites")
)

// CustomerResolver fails with customers.ErrCustomerNotFound for unknown ids.
type CustomerResolver interface {
	Resolve(id uint) error
	Delete(id uint) error
}

type Catalog interface {
	GetOrFetch(ctx context.Context, isbn string) (*entities.Book, error)
}

// RelationStore persists the customer/book join rows.
type RelationStore interface {
	Link(customerID uint, isbn string) error
	Unlink(customerID uint, isbn string) (bool, error)
	Exists(customerID uint, isbn string) (bool, error)
	ListBooks(customerID uint, limit, offset int) ([]entities.Book, int64, error)
	GetBook(customerID uint, isbn string) (*entities.Book, error)
}

type Manager struct {
	customers CustomerResolver
	catalog   Catalog
	store     RelationStore
	locks     *xsync.MapOf[uint, *customerLock]
}

// customerLock is held in Manager.locks only while refs > 0.
type customerLock struct {
	mu   sync.Mutex
	refs int
}

func NewManager(customers CustomerResolver, catalog Catalog, store RelationStore) *Manager {
	return &Manager{
		customers: customers,
		catalog:   catalog,
		store:     store,
		locks:     xsync.NewMapOf[uint, *customerLock](),
	}
}

// Add favourites isbn for the customer, cataloging the book first if needed.
func (m *Manager) Add(ctx context.Context, customerID uint, isbn string) (*entities.Book, error) {
	isbn, err := normalizeISBN(isbn)
	if err != nil {
		return nil, err
	}

	unlock := m.lock(customerID)
	defer unlock()

	if err := m.customers.Resolve(customerID); err != nil {
		return nil, err
	}

	exists, err := m.store.Exists(customerID, isbn)
	if err != nil {
		return nil, fmt.Errorf("check favourite: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyFavorited, isbn)
	}

	book, err := m.catalog.GetOrFetch(ctx, isbn)
	if err != nil {
		return nil, err
	}

	if err := m.store.Link(customerID, book.ISBN); err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, fmt.Errorf("%w: %s", ErrAlreadyFavorited, isbn)
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			// The customer was deleted while the book was being fetched.
			if resolveErr := m.customers.Resolve(customerID); resolveErr != nil {
				return nil, resolveErr
			}
		}
		return nil, fmt.Errorf("link favourite: %w", err)
	}

	slog.Info("favourite added", "customer_id", customerID, "isbn", book.ISBN)
	return book, nil
}

// Remove drops isbn from the customer's favourites. The catalog row stays.
func (m *Manager) Remove(customerID uint, isbn string) error {
	isbn, err := normalizeISBN(isbn)
	if err != nil {
		return err
	}

	unlock := m.lock(customerID)
	defer unlock()

	if err := m.customers.Resolve(customerID); err != nil {
		return err
	}

	removed, err := m.store.Unlink(customerID, isbn)
	if err != nil {
		return fmt.Errorf("unlink favourite: %w", err)
	}
	if !removed {
		return fmt.Errorf("%w: %s", ErrFavoriteNotFound, isbn)
	}

	slog.Info("favourite removed", "customer_id", customerID, "isbn", isbn)
	return nil
}

// DeleteCustomer removes the customer once no mutation of their favourites
// is in flight. Favourite rows cascade; catalog books stay.
func (m *Manager) DeleteCustomer(customerID uint) error {
	unlock := m.lock(customerID)
	defer unlock()

	return m.customers.Delete(customerID)
}

// List returns a page of the customer's favourites in the order they were
// added, plus the total count.
func (m *Manager) List(customerID uint, limit, offset int) ([]entities.Book, int64, error) {
	if err := m.customers.Resolve(customerID); err != nil {
		return nil, 0, err
	}
	return m.store.ListBooks(customerID, limit, offset)
}

// Get returns the book only if it is among this customer's favourites, even
// when the catalog already holds it.
func (m *Manager) Get(customerID uint, isbn string) (*entities.Book, error) {
	isbn, err := normalizeISBN(isbn)
	if err != nil {
		return nil, err
	}
	if err := m.customers.Resolve(customerID); err != nil {
		return nil, err
	}

	book, err := m.store.GetBook(customerID, isbn)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrFavoriteNotFound, isbn)
	}
	if err != nil {
		return nil, fmt.Errorf("get favourite: %w", err)
	}
	return book, nil
}

// lock serializes mutations per customer. The map entry is dropped by the
// last holder or waiter, so idle customers cost nothing.
func (m *Manager) lock(customerID uint) func() {
	l, _ := m.locks.Compute(customerID, func(l *customerLock, loaded bool) (*customerLock, bool) {
		if !loaded {
			l = &customerLock{}
		}
		l.refs++
		return l, false
	})
	l.mu.Lock()

	return func() {
		l.mu.Unlock()
		m.locks.Compute(customerID, func(l *customerLock, _ bool) (*customerLock, bool) {
			l.refs--
			return l, l.refs == 0
		})
	}
}

func normalizeISBN(isbn string) (string, error) {
	normalized := metadata.NormalizeISBN(isbn)
	if normalized == "" {
		return "", fmt.Errorf("%w: %q", catalog.ErrInvalidISBN, isbn)
	}
	return normalized, nil
}
