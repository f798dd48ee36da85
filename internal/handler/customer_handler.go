package handler

import (
	"net/http"

	"invoicedesk/internal/service"
	"invoicedesk/pkg/pagination"
	"invoicedesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	customerService service.CustomerService
}

func NewCustomerHandler(customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

func (h *CustomerHandler) RegisterRoutes(router *gin.RouterGroup) {
	customers := router.Group("/api/customers")
	{
		customers.POST("", h.CreateCustomer)
		customers.GET("", h.ListCustomers)
		customers.GET("/:id", h.GetCustomer)
		customers.PUT("/:id", h.UpdateCustomer)
		customers.DELETE("/:id", h.DeleteCustomer)

		customers.GET("/:id/prices", h.ListPriceOverrides)
		customers.PUT("/:id/prices", h.SetPriceOverride)
		customers.DELETE("/:id/prices/:productID", h.DeletePriceOverride)
	}
}

// CreateCustomer adds a customer
// @Summary      Create customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CustomerRequest  true  "Customer Payload"
// @Success      201      {object}  response.Response{data=model.Customer}
// @Failure      400      {object}  response.Response
// @Router       /api/customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req service.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, customer))
}

// ListCustomers returns customers, searchable by name/contact/email
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Param        search  query     string  false  "Search term"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Success      200     {object}  response.Response{data=response.Paged}
// @Router       /api/customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	params := pagination.Parse(c)

	customers, total, err := h.customerService.ListCustomers(c.Request.Context(), c.Query("search"), params.Page, params.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, response.Paged{
		Items: customers,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}))
}

// GetCustomer returns one customer
// @Summary      Get customer
// @Tags         customers
// @Produce      json
// @Param        id   path      int  true  "Customer ID"
// @Success      200  {object}  response.Response{data=model.Customer}
// @Failure      404  {object}  response.Response
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, customer))
}

// UpdateCustomer edits a customer in place
// @Summary      Update customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id       path      int                      true  "Customer ID"
// @Param        payload  body      service.CustomerRequest  true  "Customer Payload"
// @Success      200      {object}  response.Response{data=model.Customer}
// @Failure      404      {object}  response.Response
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), id, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, customer))
}

// DeleteCustomer removes a customer; refused while invoices reference it
// @Summary      Delete customer
// @Tags         customers
// @Produce      json
// @Param        id   path      int  true  "Customer ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}

// ListPriceOverrides lists a customer's product price overrides
// @Summary      List price overrides
// @Tags         customers
// @Produce      json
// @Param        id   path      int  true  "Customer ID"
// @Success      200  {object}  response.Response{data=[]model.CustomerProductPrice}
// @Router       /api/customers/{id}/prices [get]
func (h *CustomerHandler) ListPriceOverrides(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	overrides, err := h.customerService.ListPriceOverrides(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, overrides))
}

// SetPriceOverride upserts a customer-specific product price
// @Summary      Set price override
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id       path      int                           true  "Customer ID"
// @Param        payload  body      service.PriceOverrideRequest  true  "Override Payload"
// @Success      200      {object}  response.Response{data=model.CustomerProductPrice}
// @Failure      404      {object}  response.Response
// @Router       /api/customers/{id}/prices [put]
func (h *CustomerHandler) SetPriceOverride(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.PriceOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	override, err := h.customerService.SetPriceOverride(c.Request.Context(), id, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, override))
}

// DeletePriceOverride removes one override
// @Summary      Delete price override
// @Tags         customers
// @Produce      json
// @Param        id         path      int  true  "Customer ID"
// @Param        productID  path      int  true  "Product ID"
// @Success      200        {object}  response.Response
// @Router       /api/customers/{id}/prices/{productID} [delete]
func (h *CustomerHandler) DeletePriceOverride(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "productID")
	if !ok {
		return
	}

	if err := h.customerService.DeletePriceOverride(c.Request.Context(), id, productID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": productID}))
}
