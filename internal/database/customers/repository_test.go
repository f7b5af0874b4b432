package customers

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository) {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "customers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db.DB, NewRepository(db.DB)
}

func newCustomer(name, cpf, email string) *entities.Customer {
	return &entities.Customer{Name: name, CPF: cpf, Email: email}
}

func TestCreateAndGet(t *testing.T) {
	_, repo := setupTestDB(t)

	customer := newCustomer("Ana", "12345678901", "ana@example.com")
	require.NoError(t, repo.Create(customer))
	assert.NotZero(t, customer.ID)

	got, err := repo.GetByID(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)

	_, err = repo.GetByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreate_UniqueEmail(t *testing.T) {
	_, repo := setupTestDB(t)

	require.NoError(t, repo.Create(newCustomer("Ana", "12345678901", "ana@example.com")))
	err := repo.Create(newCustomer("Bia", "10987654321", "ana@example.com"))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestTakenChecks(t *testing.T) {
	_, repo := setupTestDB(t)
	ana := newCustomer("Ana", "12345678901", "ana@example.com")
	require.NoError(t, repo.Create(ana))

	taken, err := repo.EmailTaken("ana@example.com", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.EmailTaken("ana@example.com", ana.ID)
	require.NoError(t, err)
	assert.False(t, taken, "own email does not count")

	taken, err = repo.CPFTaken("12345678901", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.CPFTaken("00000000000", 0)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestDelete_RemovesFavouritesButNotBooks(t *testing.T) {
	db, repo := setupTestDB(t)
	ana := newCustomer("Ana", "12345678901", "ana@example.com")
	require.NoError(t, repo.Create(ana))
	require.NoError(t, db.Create(&entities.Book{ISBN: "111", Title: "Kept"}).Error)
	require.NoError(t, db.Create(&entities.FavoriteBook{CustomerID: ana.ID, BookISBN: "111"}).Error)

	deleted, err := repo.Delete(ana.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	var favourites, books int64
	require.NoError(t, db.Model(&entities.FavoriteBook{}).Count(&favourites).Error)
	require.NoError(t, db.Model(&entities.Book{}).Count(&books).Error)
	assert.Zero(t, favourites)
	assert.Equal(t, int64(1), books)

	deleted, err = repo.Delete(ana.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestList(t *testing.T) {
	_, repo := setupTestDB(t)
	require.NoError(t, repo.Create(newCustomer("Ana", "11111111111", "ana@example.com")))
	require.NoError(t, repo.Create(newCustomer("Bia", "22222222222", "bia@example.com")))
	require.NoError(t, repo.Create(newCustomer("Caio", "33333333333", "caio@example.com")))

	customers, total, err := repo.List(2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, customers, 2)
	assert.Equal(t, "Bia", customers[0].Name)

	exists, err := repo.Exists(customers[0].ID)
	require.NoError(t, err)
	assert.True(t, exists)
}
