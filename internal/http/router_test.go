package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/customers"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	dbcustomers "github.com/mrlokans/bookshelf/internal/database/customers"
	dbfavourites "github.com/mrlokans/bookshelf/internal/database/favourites"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/favourites"
	"github.com/mrlokans/bookshelf/internal/metadata"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// recordingSubmitter captures bulk submissions instead of running them.
type recordingSubmitter struct {
	mu      sync.Mutex
	batches map[uint][][]string
	err     error
}

func (r *recordingSubmitter) SubmitBulkAdd(customerID uint, isbns []string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches[customerID] = append(r.batches[customerID], isbns)
	return "task-" + uintString(customerID), nil
}

type fakeTaskStatus map[string]backlite.TaskStatus

func (f fakeTaskStatus) Status(_ context.Context, id string) (backlite.TaskStatus, error) {
	if status, ok := f[id]; ok {
		return status, nil
	}
	return backlite.TaskStatusNotFound, nil
}

type apiEnv struct {
	router    *gin.Engine
	submitter *recordingSubmitter
	auditDir  string
	provider  map[string]metadata.BookRecord
	down      bool
	mu        sync.Mutex
}

func setupAPI(t *testing.T) *apiEnv {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &apiEnv{
		submitter: &recordingSubmitter{batches: make(map[uint][][]string)},
		auditDir:  filepath.Join(t.TempDir(), "audit"),
		provider:  make(map[string]metadata.BookRecord),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.mu.Lock()
		defer env.mu.Unlock()
		if env.down {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		record, ok := env.provider[strings.TrimPrefix(r.URL.Path, "/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(record)
	}))
	t.Cleanup(server.Close)

	client := metadata.NewClient(metadata.ClientConfig{
		BaseURL: server.URL + "/",
		Retry: metadata.RetryPolicy{
			MaxAttempts: 3,
			Backoff:     time.Millisecond,
			Sleep:       func(context.Context, time.Duration) error { return nil },
		},
	})
	customerService := customers.NewService(dbcustomers.NewRepository(db.DB))
	store := catalog.NewStore(books.NewRepository(db.DB), client)
	manager := favourites.NewManager(customerService, store, dbfavourites.NewRepository(db.DB))

	env.router = NewRouter(RouterConfig{
		Database:      db,
		Customers:     customerService,
		Favorites:     manager,
		BulkSubmitter: env.submitter,
		TaskStatus:    fakeTaskStatus{"task-1": backlite.TaskStatusSuccess},
		Auditor:       audit.NewAuditor(env.auditDir),
		Version:       "test",
	})
	return env
}

func (e *apiEnv) addRecord(isbn, title string, authors ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.provider[isbn] = metadata.BookRecord{ISBN: isbn, Title: title, Authors: authors, Subjects: []string{"Fiction"}}
}

func (e *apiEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *apiEnv) createCustomer(t *testing.T, email, cpf string) entities.Customer {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/customers", customers.Input{Name: "Ana", Email: email, CPF: cpf})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var customer entities.Customer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &customer))
	return customer
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCustomersAPI(t *testing.T) {
	env := setupAPI(t)

	w := env.do(t, http.MethodGet, "/api/v1/customers", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	customer := env.createCustomer(t, "Ana@Example.com", "123.456.789-01")
	assert.Equal(t, "ana@example.com", customer.Email)
	assert.Equal(t, "12345678901", customer.CPF)

	t.Run("duplicate email conflicts", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/customers", customers.Input{Name: "B", Email: "ana@example.com", CPF: "98765432100"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "email_taken", decodeError(t, w).Code)
	})

	t.Run("invalid input", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/customers", customers.Input{Name: "B", Email: "nope", CPF: "1"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get and list", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/customers/"+uintString(customer.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, http.MethodGet, "/api/v1/customers?limit=10", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var page PaginatedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Equal(t, int64(1), page.Total)
		assert.Equal(t, 10, page.Limit)
	})

	t.Run("update", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/api/v1/customers/"+uintString(customer.ID),
			customers.Input{Name: "Ana Maria", Email: "ana@example.com", CPF: "12345678901"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Ana Maria")
	})

	t.Run("bad id and missing customer", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/v1/customers/abc", nil).Code)

		w := env.do(t, http.MethodGet, "/api/v1/customers/999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "customer_not_found", decodeError(t, w).Code)
	})

	t.Run("delete", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/v1/customers/"+uintString(customer.ID), nil).Code)
		assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/v1/customers/"+uintString(customer.ID), nil).Code)
	})
}

func TestCustomersAPI_DeleteDropsFavourites(t *testing.T) {
	env := setupAPI(t)
	env.addRecord("9788545702870", "Akira", "Katsuhiro Otomo")
	customer := env.createCustomer(t, "ana@example.com", "12345678901")
	path := "/api/v1/customers/" + uintString(customer.ID)

	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, path+"/favorites/9788545702870", nil).Code)
	require.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, path, nil).Code)

	w := env.do(t, http.MethodGet, path+"/favorites", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "customer_not_found", decodeError(t, w).Code)

	// A new customer reusing the email starts with no favourites.
	again := env.createCustomer(t, "ana@example.com", "12345678901")
	w = env.do(t, http.MethodGet, "/api/v1/customers/"+uintString(again.ID)+"/favorites", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Akira")
}

func TestFavoritesAPI_AddGetRemove(t *testing.T) {
	env := setupAPI(t)
	env.addRecord("9788545702870", "Akira", "Katsuhiro Otomo")
	customer := env.createCustomer(t, "ana@example.com", "12345678901")
	base := "/api/v1/customers/" + uintString(customer.ID) + "/favorites/"

	w := env.do(t, http.MethodPost, base+"9788545702870", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var book entities.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
	assert.Equal(t, "Akira", book.Title)
	assert.Equal(t, []string{"Katsuhiro Otomo"}, book.Authors)

	w = env.do(t, http.MethodPost, base+"9788545702870", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already_favorited", decodeError(t, w).Code)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, base+"9788545702870", nil).Code)

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, base+"9788545702870", nil).Code)

	w = env.do(t, http.MethodDelete, base+"9788545702870", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "favorite_not_found", decodeError(t, w).Code)

	w = env.do(t, http.MethodGet, base+"9788545702870", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoritesAPI_UpstreamFailures(t *testing.T) {
	env := setupAPI(t)
	customer := env.createCustomer(t, "ana@example.com", "12345678901")
	base := "/api/v1/customers/" + uintString(customer.ID) + "/favorites/"

	w := env.do(t, http.MethodPost, base+"0000000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "external_record_not_found", decodeError(t, w).Code)

	env.mu.Lock()
	env.down = true
	env.mu.Unlock()

	w = env.do(t, http.MethodPost, base+"9788545702870", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "external_source_unavailable", resp.Code)
	assert.NotContains(t, resp.Error, "502", "upstream detail is not exposed")

	w = env.do(t, http.MethodPost, "/api/v1/customers/999/favorites/9788545702870", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "customer_not_found", decodeError(t, w).Code)
}

func TestFavoritesAPI_ListAndSummary(t *testing.T) {
	env := setupAPI(t)
	env.addRecord("1111111111", "First", "Author A")
	env.addRecord("2222222222", "Second", "Author A")
	env.addRecord("3333333333", "Third", "Author B")
	customer := env.createCustomer(t, "ana@example.com", "12345678901")
	base := "/api/v1/customers/" + uintString(customer.ID) + "/favorites"

	for _, isbn := range []string{"1111111111", "2222222222", "3333333333"} {
		require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, base+"/"+isbn, nil).Code)
	}

	w := env.do(t, http.MethodGet, base+"?limit=2&offset=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Data    []entities.Book `json:"data"`
		Total   int64           `json:"total"`
		HasMore bool            `json:"has_more"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Second", page.Data[0].Title)
	assert.Equal(t, "Third", page.Data[1].Title)
	assert.False(t, page.HasMore)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, base+"?limit=-1", nil).Code)

	w = env.do(t, http.MethodGet, base+"/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary favourites.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, []string{"Author A", "Author B"}, summary.TopAuthors)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/v1/customers/999/favorites", nil).Code)
}

func TestFavoritesAPI_BulkAdd(t *testing.T) {
	env := setupAPI(t)
	customer := env.createCustomer(t, "ana@example.com", "12345678901")
	path := "/api/v1/customers/" + uintString(customer.ID) + "/favorites/bulk-add"

	w := env.do(t, http.MethodPost, path, BulkAddRequest{ISBNs: []string{" A ", "", "B", "C"}})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	var resp BulkAddResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "task-"+uintString(customer.ID), resp.TaskID)
	assert.Equal(t, 3, resp.Items)
	assert.Equal(t, "/api/v1/tasks/"+resp.TaskID, w.Header().Get("Location"))
	assert.Equal(t, [][]string{{"A", "B", "C"}}, env.submitter.batches[customer.ID])

	matches, err := filepath.Glob(filepath.Join(env.auditDir, "*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	t.Run("empty batch", func(t *testing.T) {
		w := env.do(t, http.MethodPost, path, BulkAddRequest{ISBNs: []string{" "}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown customer", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/customers/999/favorites/bulk-add", BulkAddRequest{ISBNs: []string{"A"}})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("enqueue failure", func(t *testing.T) {
		env.submitter.err = errors.New("queue closed")
		defer func() { env.submitter.err = nil }()

		w := env.do(t, http.MethodPost, path, BulkAddRequest{ISBNs: []string{"A"}})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal server error", decodeError(t, w).Error)
	})
}

func TestTasksAPI(t *testing.T) {
	env := setupAPI(t)

	w := env.do(t, http.MethodGet, "/api/v1/tasks/task-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"success"`)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/v1/tasks/missing", nil).Code)
}

func TestRequestID(t *testing.T) {
	env := setupAPI(t)

	w := env.do(t, http.MethodGet, "/ping", nil)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/999", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
	assert.Equal(t, "abc-123", decodeError(t, w).RequestID)
}
