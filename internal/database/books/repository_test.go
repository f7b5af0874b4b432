package books

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.DB)
}

func TestFindByISBN_Missing(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.FindByISBN("9780000000000")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateIfAbsent(t *testing.T) {
	repo := setupTestDB(t)

	first, created, err := repo.CreateIfAbsent(&entities.Book{
		ISBN:    "9788535902774",
		Title:   "Ensaio sobre a cegueira",
		Authors: []string{"José Saramago"},
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Ensaio sobre a cegueira", first.Title)

	second, created, err := repo.CreateIfAbsent(&entities.Book{
		ISBN:  "9788535902774",
		Title: "A different title",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Ensaio sobre a cegueira", second.Title, "existing row must not be overwritten")

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCreateIfAbsent_ConcurrentWriters(t *testing.T) {
	repo := setupTestDB(t)

	const writers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		errs    []error
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, ok, err := repo.CreateIfAbsent(&entities.Book{
				ISBN:  "9788535902774",
				Title: fmt.Sprintf("writer %d", i),
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if ok {
				created++
			}
		}(i)
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Equal(t, 1, created)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
