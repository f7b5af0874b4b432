package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookshelf/internal/customers"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/favourites"
)

// This file consolidates the service interfaces used by HTTP controllers.
// Each controller depends only on the methods it calls.

// HealthChecker is satisfied by *database.Database.
type HealthChecker interface {
	Ping() error
}

// CustomerService is satisfied by *customers.Service.
type CustomerService interface {
	Create(in customers.Input) (*entities.Customer, error)
	Get(id uint) (*entities.Customer, error)
	Update(id uint, in customers.Input) (*entities.Customer, error)
	Delete(id uint) error
	List(limit, offset int) ([]entities.Customer, int64, error)
	Resolve(id uint) error
}

// CustomerRemover is satisfied by *favourites.Manager, which lets in-flight
// favourite changes finish before the customer goes.
type CustomerRemover interface {
	DeleteCustomer(id uint) error
}

// FavoriteService is satisfied by *favourites.Manager.
type FavoriteService interface {
	CustomerRemover
	Add(ctx context.Context, customerID uint, isbn string) (*entities.Book, error)
	Remove(customerID uint, isbn string) error
	List(customerID uint, limit, offset int) ([]entities.Book, int64, error)
	Get(customerID uint, isbn string) (*entities.Book, error)
	Summary(customerID uint) (*favourites.Summary, error)
}

// BulkSubmitter is satisfied by *tasks.Client.
type BulkSubmitter interface {
	SubmitBulkAdd(customerID uint, isbns []string) (string, error)
}

// TaskStatusReader is satisfied by *tasks.Client.
type TaskStatusReader interface {
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}
