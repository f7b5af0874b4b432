package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/auth"
)

// maxBulkItems bounds a single bulk-add request.
const maxBulkItems = 500

// BulkAddRequest is the body of a bulk-add call.
type BulkAddRequest struct {
	ISBNs []string `json:"isbns"`
}

// BulkAddResponse identifies the enqueued batch.
type BulkAddResponse struct {
	TaskID string `json:"task_id"`
	Items  int    `json:"items"`
}

type FavouritesController struct {
	favorites FavoriteService
	customers CustomerService
	bulk      BulkSubmitter
	auditor   *audit.Auditor
}

func NewFavouritesController(favorites FavoriteService, customers CustomerService, bulk BulkSubmitter, auditor *audit.Auditor) *FavouritesController {
	return &FavouritesController{
		favorites: favorites,
		customers: customers,
		bulk:      bulk,
		auditor:   auditor,
	}
}

// BulkAdd enqueues a batch of ISBNs and returns before any item is processed.
// POST /api/v1/customers/:customerId/favorites/bulk-add
func (fc *FavouritesController) BulkAdd(c *gin.Context) {
	customerID, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}

	var req BulkAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	isbns := compactISBNs(req.ISBNs)
	if len(isbns) == 0 {
		respondBadRequest(c, "isbns must contain at least one value")
		return
	}
	if len(isbns) > maxBulkItems {
		respondBadRequest(c, "isbns must contain at most "+strconv.Itoa(maxBulkItems)+" values")
		return
	}

	// Unknown customers fail fast here rather than once per item in the worker.
	if err := fc.customers.Resolve(customerID); err != nil {
		respondServiceError(c, err, "bulk add resolve customer")
		return
	}

	taskID, err := fc.bulk.SubmitBulkAdd(customerID, isbns)
	if err != nil {
		respondInternalError(c, err, "bulk add enqueue")
		return
	}

	if _, err := fc.auditor.RecordBulkSubmission(audit.BulkSubmission{
		TaskID:     taskID,
		CustomerID: customerID,
		ISBNs:      isbns,
		ClientID:   auth.GetClientID(c),
	}); err != nil {
		slog.Warn("failed to record bulk submission", "task_id", taskID, "error", err)
	}

	c.Header("Location", "/api/v1/tasks/"+taskID)
	c.JSON(http.StatusAccepted, BulkAddResponse{TaskID: taskID, Items: len(isbns)})
}

// List returns a page of the customer's favourite books in the order they were added.
// GET /api/v1/customers/:customerId/favorites?limit=&offset=
func (fc *FavouritesController) List(c *gin.Context) {
	customerID, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	books, total, err := fc.favorites.List(customerID, limit, offset)
	if err != nil {
		respondServiceError(c, err, "list favourites")
		return
	}
	c.JSON(http.StatusOK, newPaginatedResponse(books, total, limit, offset))
}

// Summary aggregates the customer's favourites.
// GET /api/v1/customers/:customerId/favorites/summary
func (fc *FavouritesController) Summary(c *gin.Context) {
	customerID, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}

	summary, err := fc.favorites.Summary(customerID)
	if err != nil {
		respondServiceError(c, err, "favourites summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Get returns one favourite book.
// GET /api/v1/customers/:customerId/favorites/:isbn
func (fc *FavouritesController) Get(c *gin.Context) {
	customerID, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}

	book, err := fc.favorites.Get(customerID, c.Param("isbn"))
	if err != nil {
		respondServiceError(c, err, "get favourite")
		return
	}
	c.JSON(http.StatusOK, book)
}

// Add favourites a single ISBN, fetching it from the provider if needed.
// POST /api/v1/customers/:customerId/favorites/:isbn
func (fc *FavouritesController) Add(c *gin.Context) {
	customerID, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}

	book, err := fc.favorites.Add(c.Request.Context(), customerID, c.Param("isbn"))
	if err != nil {
		respondServiceError(c, err, "add favourite")
		return
	}
	c.JSON(http.StatusCreated, book)
}

// Remove drops a favourite link. The catalog book is kept.
// DELETE /api/v1/customers/:customerId/favorites/:isbn
func (fc *FavouritesController) Remove(c *gin.Context) {
	customerID, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}

	if err := fc.favorites.Remove(customerID, c.Param("isbn")); err != nil {
		respondServiceError(c, err, "remove favourite")
		return
	}
	c.Status(http.StatusNoContent)
}

// compactISBNs trims entries and drops blanks while keeping request order.
func compactISBNs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, isbn := range in {
		if isbn = strings.TrimSpace(isbn); isbn != "" {
			out = append(out, isbn)
		}
	}
	return out
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
