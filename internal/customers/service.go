// Package customers manages customer records and resolves customer ids for
// the favourites manager.
package customers

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrCPFTaken         = errors.New("cpf already registered")
	ErrInvalidCustomer  = errors.New("invalid customer")
)

var validate = validator.New()

// Repository is the persistence contract, satisfied by database/customers.
type Repository interface {
	Create(customer *entities.Customer) error
	GetByID(id uint) (*entities.Customer, error)
	Exists(id uint) (bool, error)
	Update(customer *entities.Customer) error
	Delete(id uint) (bool, error)
	List(limit, offset int) ([]entities.Customer, int64, error)
	EmailTaken(email string, excludeID uint) (bool, error)
	CPFTaken(cpf string, excludeID uint) (bool, error)
}

// Input carries the writable customer fields.
type Input struct {
	Name  string `json:"name" validate:"required"`
	CPF   string `json:"cpf" validate:"len=11,numeric"`
	Email string `json:"email" validate:"required,email"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(in Input) (*entities.Customer, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(in, 0); err != nil {
		return nil, err
	}

	customer := &entities.Customer{Name: in.Name, CPF: in.CPF, Email: in.Email}
	if err := s.repo.Create(customer); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.conflict(in, 0)
		}
		return nil, fmt.Errorf("create customer: %w", err)
	}

	slog.Info("customer created", "customer_id", customer.ID)
	return customer, nil
}

func (s *Service) Get(id uint) (*entities.Customer, error) {
	customer, err := s.repo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrCustomerNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}
	return customer, nil
}

// Resolve fails with ErrCustomerNotFound unless the customer exists.
func (s *Service) Resolve(id uint) error {
	exists, err := s.repo.Exists(id)
	if err != nil {
		return fmt.Errorf("resolve customer %d: %w", id, err)
	}
	if !exists {
		return fmt.Errorf("%w: %d", ErrCustomerNotFound, id)
	}
	return nil
}

func (s *Service) Update(id uint, in Input) (*entities.Customer, error) {
	customer, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	in, err = normalize(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(in, id); err != nil {
		return nil, err
	}

	customer.Name, customer.CPF, customer.Email = in.Name, in.CPF, in.Email
	if err := s.repo.Update(customer); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.conflict(in, id)
		}
		return nil, fmt.Errorf("update customer %d: %w", id, err)
	}
	return customer, nil
}

// Delete removes the customer and their favourites; cataloged books stay.
func (s *Service) Delete(id uint) error {
	deleted, err := s.repo.Delete(id)
	if err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	if !deleted {
		return fmt.Errorf("%w: %d", ErrCustomerNotFound, id)
	}
	slog.Info("customer deleted", "customer_id", id)
	return nil
}

func (s *Service) List(limit, offset int) ([]entities.Customer, int64, error) {
	return s.repo.List(limit, offset)
}

func (s *Service) checkUnique(in Input, excludeID uint) error {
	taken, err := s.repo.EmailTaken(in.Email, excludeID)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return ErrEmailTaken
	}

	taken, err = s.repo.CPFTaken(in.CPF, excludeID)
	if err != nil {
		return fmt.Errorf("check cpf: %w", err)
	}
	if taken {
		return ErrCPFTaken
	}
	return nil
}

// conflict names the unique column that won a race against checkUnique.
// If the competing row is already gone, email is reported.
func (s *Service) conflict(in Input, excludeID uint) error {
	if err := s.checkUnique(in, excludeID); err != nil {
		return err
	}
	return ErrEmailTaken
}

func normalize(in Input) (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.CPF = digitsOnly(in.CPF)

	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return in, fmt.Errorf("%w: %s failed %s", ErrInvalidCustomer, strings.ToLower(fe.Field()), fe.Tag())
		}
		return in, fmt.Errorf("%w: %v", ErrInvalidCustomer, err)
	}
	return in, nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
