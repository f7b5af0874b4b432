// Package favourites provides database operations for the
// customer_favorite_books join table.
//
// This package implements the RelationStore interface defined in
// internal/favourites/manager.go.
//
// # Interface Implementation
//
//	var _ favourites.RelationStore = (*Repository)(nil)
//
// # Usage
//
//	repo := favourites.NewRepository(db)
//	books, total, err := repo.ListBooks(customerID, 20, 0)
package favourites

import (
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Repository handles all favourite relation database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new favourites repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Link adds isbn to the customer's favourites. A duplicate pair fails with
// gorm.ErrDuplicatedKey, an unknown customer with gorm.ErrForeignKeyViolated.
func (r *Repository) Link(customerID uint, isbn string) error {
	return r.db.Create(&entities.FavoriteBook{
		CustomerID: customerID,
		BookISBN:   isbn,
	}).Error
}

// Unlink removes the pair and reports whether a row was deleted.
func (r *Repository) Unlink(customerID uint, isbn string) (bool, error) {
	result := r.db.
		Where("customer_id = ? AND book_isbn = ?", customerID, isbn).
		Delete(&entities.FavoriteBook{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists reports whether the customer has favourited isbn.
func (r *Repository) Exists(customerID uint, isbn string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.FavoriteBook{}).
		Where("customer_id = ? AND book_isbn = ?", customerID, isbn).
		Count(&count).Error
	return count > 0, err
}

// ListBooks returns the customer's favourite books in the order they were
// added, with the total count for pagination. A non-positive limit returns
// every row.
func (r *Repository) ListBooks(customerID uint, limit, offset int) ([]entities.Book, int64, error) {
	var total int64
	if err := r.favouritesOf(customerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.favouritesOf(customerID).Order("customer_favorite_books.id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var books []entities.Book
	err := query.Find(&books).Error
	return books, total, err
}

// GetBook returns gorm.ErrRecordNotFound unless isbn is among the
// customer's favourites.
func (r *Repository) GetBook(customerID uint, isbn string) (*entities.Book, error) {
	var book entities.Book
	err := r.favouritesOf(customerID).
		Where("books.isbn = ?", isbn).
		First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *Repository) favouritesOf(customerID uint) *gorm.DB {
	return r.db.Model(&entities.Book{}).
		Joins("JOIN customer_favorite_books ON customer_favorite_books.book_isbn = books.isbn").
		Where("customer_favorite_books.customer_id = ?", customerID)
}
