package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/customers"
)

type CustomersController struct {
	service CustomerService
	remover CustomerRemover
}

// NewCustomersController deletes through remover when it is set, falling
// back to service.Delete otherwise.
func NewCustomersController(service CustomerService, remover CustomerRemover) *CustomersController {
	return &CustomersController{service: service, remover: remover}
}

// Create registers a customer.
// POST /api/v1/customers
func (cc *CustomersController) Create(c *gin.Context) {
	var in customers.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	customer, err := cc.service.Create(in)
	if err != nil {
		respondServiceError(c, err, "create customer")
		return
	}

	c.Header("Location", "/api/v1/customers/"+uintString(customer.ID))
	c.JSON(http.StatusCreated, customer)
}

// List returns a page of customers, or 204 when there are none.
// GET /api/v1/customers?limit=&offset=
func (cc *CustomersController) List(c *gin.Context) {
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	list, total, err := cc.service.List(limit, offset)
	if err != nil {
		respondServiceError(c, err, "list customers")
		return
	}
	if total == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, newPaginatedResponse(list, total, limit, offset))
}

// Get returns a single customer.
// GET /api/v1/customers/:customerId
func (cc *CustomersController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}

	customer, err := cc.service.Get(id)
	if err != nil {
		respondServiceError(c, err, "get customer")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// Update replaces a customer's name, email and CPF.
// PUT /api/v1/customers/:customerId
func (cc *CustomersController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}

	var in customers.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	customer, err := cc.service.Update(id, in)
	if err != nil {
		respondServiceError(c, err, "update customer")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// Delete removes a customer and their favourite links. Catalog books stay.
// DELETE /api/v1/customers/:customerId
func (cc *CustomersController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}

	remove := cc.service.Delete
	if cc.remover != nil {
		remove = cc.remover.DeleteCustomer
	}
	if err := remove(id); err != nil {
		respondServiceError(c, err, "delete customer")
		return
	}
	c.Status(http.StatusNoContent)
}
