package handler

import (
	"errors"
	"net/http"
	"strconv"

	"invoicedesk/internal/service"
	"invoicedesk/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// statusForError maps business errors to HTTP statuses. Everything the
// services return is recoverable; the request is rejected and no
// partial state is committed.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateInvoiceNumber),
		errors.Is(err, service.ErrConstraintViolation),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmptyInvoice):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusForError(err)
	c.JSON(status, response.Error(status, err.Error()))
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid "+name+" parameter"))
		return 0, false
	}
	return uint(id), true
}
