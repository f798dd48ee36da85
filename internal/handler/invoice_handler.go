package handler

import (
	"log"
	"net/http"

	"invoicedesk/internal/service"
	"invoicedesk/pkg/pagination"
	"invoicedesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
	pdfService     service.PDFService
}

func NewInvoiceHandler(invoiceService service.InvoiceService, pdfService service.PDFService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		pdfService:     pdfService,
	}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/api/invoices")
	{
		invoices.POST("", h.CreateInvoice)
		invoices.GET("", h.ListInvoices)
		invoices.GET("/next-number", h.NextNumber)
		invoices.GET("/by-number/:invoiceNo", h.GetInvoiceByNumber)
		invoices.GET("/:id", h.GetInvoice)
		invoices.DELETE("/:id", h.DeleteInvoice)
		invoices.POST("/:id/pdf", h.RegeneratePDF)
		invoices.POST("/pdf/regenerate-all", h.RegenerateAllPDFs)
	}
}

// CreateInvoice prices the submitted lines, saves the invoice and
// renders its PDF
// @Summary      Create invoice
// @Description  Prices line items, assigns the next invoice number and saves invoice plus items in one transaction
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateInvoiceRequest  true  "Create Invoice Payload"
// @Success      201      {object}  response.Response{data=model.Invoice}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	// PDF rendering happens after the commit; a render failure leaves
	// the invoice saved without a path, recoverable via the pdf route.
	if path, err := h.pdfService.GenerateInvoicePDF(c.Request.Context(), invoice); err != nil {
		log.Println("WARNING: invoice saved but pdf generation failed:", err)
	} else if err := h.invoiceService.AttachPDF(c.Request.Context(), invoice.ID, path); err != nil {
		log.Println("WARNING: failed to store pdf path:", err)
	} else {
		invoice.PDFPath = path
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// ListInvoices returns a paginated list, optionally filtered by a
// search term over invoice number and customer name
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        search  query     string  false  "Match against invoice number or customer name"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=response.Paged}
// @Router       /api/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	params := pagination.Parse(c)

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), service.InvoiceFilter{
		Search: c.Query("search"),
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, response.Paged{
		Items: invoices,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}))
}

// NextNumber previews the next invoice number without consuming it
// @Summary      Preview next invoice number
// @Tags         invoices
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/invoices/next-number [get]
func (h *InvoiceHandler) NextNumber(c *gin.Context) {
	number, err := h.invoiceService.PeekNextNumber(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"invoice_no": number}))
}

// GetInvoice returns one invoice with items, customer and company
// @Summary      Get invoice
// @Tags         invoices
// @Produce      json
// @Param        id   path      int  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=model.Invoice}
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// GetInvoiceByNumber looks an invoice up by its printed number
// @Summary      Get invoice by number
// @Tags         invoices
// @Produce      json
// @Param        invoiceNo  path      string  true  "Invoice number"
// @Success      200        {object}  response.Response{data=model.Invoice}
// @Failure      404        {object}  response.Response
// @Router       /api/invoices/by-number/{invoiceNo} [get]
func (h *InvoiceHandler) GetInvoiceByNumber(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoiceByNo(c.Request.Context(), c.Param("invoiceNo"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// DeleteInvoice removes an invoice and its line items
// @Summary      Delete invoice
// @Tags         invoices
// @Produce      json
// @Param        id   path      int  true  "Invoice ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}

// RegeneratePDF re-renders the PDF for a stored invoice
// @Summary      Regenerate invoice PDF
// @Tags         invoices
// @Produce      json
// @Param        id   path      int  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=object}
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id}/pdf [post]
func (h *InvoiceHandler) RegeneratePDF(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	path, err := h.pdfService.GenerateInvoicePDF(c.Request.Context(), invoice)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := h.invoiceService.AttachPDF(c.Request.Context(), id, path); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"pdf_path": path}))
}

// RegenerateAllPDFs re-renders every stored invoice, e.g. after the
// company profile changed
// @Summary      Regenerate all invoice PDFs
// @Tags         invoices
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/invoices/pdf/regenerate-all [post]
func (h *InvoiceHandler) RegenerateAllPDFs(c *gin.Context) {
	paths, err := h.pdfService.RegenerateAll(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"regenerated": len(paths)}))
}
