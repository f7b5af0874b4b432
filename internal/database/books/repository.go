// Package books provides database operations for the shared book catalog.
//
// This package implements the BookRepository interface defined in
// internal/catalog/store.go.
//
// # Interface Implementation
//
//	var _ catalog.BookRepository = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, created, err := repo.CreateIfAbsent(&entities.Book{ISBN: isbn, Title: title})
package books

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Repository handles all book catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByISBN returns gorm.ErrRecordNotFound when the ISBN is not cataloged.
func (r *Repository) FindByISBN(isbn string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("isbn = ?", isbn).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// CreateIfAbsent inserts book unless a row with the same ISBN already exists,
// then returns whichever row is stored. created is false when another writer
// got there first; the existing row is never modified.
func (r *Repository) CreateIfAbsent(book *entities.Book) (*entities.Book, bool, error) {
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "isbn"}},
		DoNothing: true,
	}).Create(book)
	if result.Error != nil {
		return nil, false, fmt.Errorf("insert book %s: %w", book.ISBN, result.Error)
	}

	stored, err := r.FindByISBN(book.ISBN)
	if err != nil {
		return nil, false, fmt.Errorf("reload book %s: %w", book.ISBN, err)
	}
	return stored, result.RowsAffected == 1, nil
}

// Count returns the number of cataloged books.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}
