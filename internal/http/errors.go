package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/customers"
	"github.com/mrlokans/bookshelf/internal/favourites"
)

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{customers.ErrCustomerNotFound, http.StatusNotFound, "customer_not_found"},
	{customers.ErrEmailTaken, http.StatusConflict, "email_taken"},
	{customers.ErrCPFTaken, http.StatusConflict, "cpf_taken"},
	{customers.ErrInvalidCustomer, http.StatusBadRequest, "invalid_customer"},
	{favourites.ErrAlreadyFavorited, http.StatusConflict, "already_favorited"},
	{favourites.ErrFavoriteNotFound, http.StatusNotFound, "favorite_not_found"},
	{catalog.ErrExternalRecordNotFound, http.StatusNotFound, "external_record_not_found"},
	{catalog.ErrExternalSourceUnavailable, http.StatusServiceUnavailable, "external_source_unavailable"},
	{catalog.ErrInvalidISBN, http.StatusBadRequest, "invalid_isbn"},
	{catalog.ErrBookNotFound, http.StatusNotFound, "book_not_found"},
}

// respondServiceError maps domain errors to HTTP responses. Anything
// unrecognized is logged and reported as an opaque 500.
func respondServiceError(c *gin.Context, err error, context string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			respondError(c, m.status, m.code, clientMessage(err, m.target))
			return
		}
	}
	respondInternalError(c, err, context)
}

// clientMessage keeps upstream failure detail out of 503 bodies.
func clientMessage(err, target error) string {
	if errors.Is(target, catalog.ErrExternalSourceUnavailable) {
		return target.Error()
	}
	return err.Error()
}
