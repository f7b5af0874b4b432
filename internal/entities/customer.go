package entities

import "time"

type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CPF       string    `gorm:"uniqueIndex;size:11;not null" json:"cpf"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FavoriteBook links a customer to a catalog book. The composite unique
// index keeps each (customer, isbn) pair to a single row, and rows cannot
// outlive their customer.
type FavoriteBook struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"not null;uniqueIndex:idx_customer_book" json:"customer_id"`
	Customer   *Customer `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	BookISBN   string    `gorm:"size:20;not null;uniqueIndex:idx_customer_book;index" json:"book_isbn"`
	CreatedAt  time.Time `json:"created_at"`
}

func (FavoriteBook) TableName() string {
	return "customer_favorite_books"
}
