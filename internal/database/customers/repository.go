// Package customers provides database operations for customer management.
//
// # Usage
//
//	repo := customers.NewRepository(db)
//	customer, err := repo.GetByID(42)
package customers

import (
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Repository handles all customer database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new customers repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a customer. Email or CPF collisions fail with gorm.ErrDuplicatedKey.
func (r *Repository) Create(customer *entities.Customer) error {
	return r.db.Create(customer).Error
}

// GetByID returns gorm.ErrRecordNotFound for unknown ids.
func (r *Repository) GetByID(id uint) (*entities.Customer, error) {
	var customer entities.Customer
	err := r.db.First(&customer, id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Exists reports whether a customer with id is stored.
func (r *Repository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Customer{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Update persists every field of an existing customer.
func (r *Repository) Update(customer *entities.Customer) error {
	return r.db.Save(customer).Error
}

// Delete removes the customer and reports whether it existed. Favourite
// rows go with it through the ON DELETE CASCADE foreign key.
func (r *Repository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&entities.Customer{}, id)
	return result.RowsAffected > 0, result.Error
}

// List returns customers ordered by id with the total count.
func (r *Repository) List(limit, offset int) ([]entities.Customer, int64, error) {
	var total int64
	if err := r.db.Model(&entities.Customer{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var customers []entities.Customer
	err := query.Find(&customers).Error
	return customers, total, err
}

// EmailTaken reports whether another customer already uses email.
func (r *Repository) EmailTaken(email string, excludeID uint) (bool, error) {
	return r.taken("email", email, excludeID)
}

// CPFTaken reports whether another customer already uses cpf.
func (r *Repository) CPFTaken(cpf string, excludeID uint) (bool, error) {
	return r.taken("cpf", cpf, excludeID)
}

func (r *Repository) taken(column, value string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&entities.Customer{}).Where(column+" = ?", value)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}
