package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"invoicedesk/internal/service"
	"invoicedesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
	exportService service.ExportService
	pdfService    service.PDFService
}

func NewReportHandler(reportService service.ReportService, exportService service.ExportService, pdfService service.PDFService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		exportService: exportService,
		pdfService:    pdfService,
	}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports")
	{
		reports.GET("/summary", h.PeriodSummary)
		reports.GET("/top-products", h.TopProducts)
		reports.GET("/top-customers", h.TopCustomers)
		reports.GET("/series", h.SalesSeries)
		reports.GET("/export", h.ExportReport)
	}

	router.GET("/api/dashboard", h.Dashboard)

	router.GET("/api/exports/customers", h.ExportCustomers)
	router.GET("/api/exports/products", h.ExportProducts)
	router.POST("/api/imports/customers", h.ImportCustomers)
	router.POST("/api/imports/products", h.ImportProducts)
}

func reportRangeFromQuery(c *gin.Context) service.ReportRange {
	return service.ReportRange{
		Start: c.Query("start"),
		End:   c.Query("end"),
	}
}

// PeriodSummary aggregates invoices in a date range
// @Summary      Period summary report
// @Tags         reports
// @Produce      json
// @Param        start  query     string  true  "Start date (YYYY-MM-DD)"
// @Param        end    query     string  true  "End date (YYYY-MM-DD)"
// @Success      200    {object}  response.Response{data=service.PeriodReport}
// @Router       /api/reports/summary [get]
func (h *ReportHandler) PeriodSummary(c *gin.Context) {
	report, err := h.reportService.PeriodReport(c.Request.Context(), reportRangeFromQuery(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// TopProducts ranks products by revenue in a date range
// @Summary      Top products
// @Tags         reports
// @Produce      json
// @Param        start  query     string  true   "Start date (YYYY-MM-DD)"
// @Param        end    query     string  true   "End date (YYYY-MM-DD)"
// @Param        limit  query     int     false  "Row limit (default 5)"
// @Success      200    {object}  response.Response{data=[]model.ProductBreakdown}
// @Router       /api/reports/top-products [get]
func (h *ReportHandler) TopProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	rows, err := h.reportService.TopProducts(c.Request.Context(), reportRangeFromQuery(c), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// TopCustomers ranks customers by revenue in a date range
// @Summary      Top customers
// @Tags         reports
// @Produce      json
// @Param        start  query     string  true   "Start date (YYYY-MM-DD)"
// @Param        end    query     string  true   "End date (YYYY-MM-DD)"
// @Param        limit  query     int     false  "Row limit (default 5)"
// @Success      200    {object}  response.Response{data=[]model.CustomerBreakdown}
// @Router       /api/reports/top-customers [get]
func (h *ReportHandler) TopCustomers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	rows, err := h.reportService.TopCustomers(c.Request.Context(), reportRangeFromQuery(c), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// SalesSeries returns chart-ready sales buckets
// @Summary      Sales series
// @Tags         reports
// @Produce      json
// @Param        start   query     string  true   "Start date (YYYY-MM-DD)"
// @Param        end     query     string  true   "End date (YYYY-MM-DD)"
// @Param        bucket  query     string  false  "daily or monthly (default monthly)"
// @Success      200     {object}  response.Response{data=[]model.SeriesPoint}
// @Router       /api/reports/series [get]
func (h *ReportHandler) SalesSeries(c *gin.Context) {
	rows, err := h.reportService.SalesSeries(c.Request.Context(), reportRangeFromQuery(c), c.DefaultQuery("bucket", "monthly"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// Dashboard returns the landing-screen snapshot
// @Summary      Dashboard snapshot
// @Tags         reports
// @Produce      json
// @Success      200  {object}  response.Response{data=model.DashboardSnapshot}
// @Router       /api/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	snapshot, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, snapshot))
}

// ExportReport downloads the period report as csv, xlsx or pdf
// @Summary      Export period report
// @Tags         reports
// @Produce      application/octet-stream
// @Param        start   query  string  true   "Start date (YYYY-MM-DD)"
// @Param        end     query  string  true   "End date (YYYY-MM-DD)"
// @Param        format  query  string  false  "csv, xlsx or pdf (default csv)"
// @Success      200     {file}  file
// @Router       /api/reports/export [get]
func (h *ReportHandler) ExportReport(c *gin.Context) {
	r := reportRangeFromQuery(c)
	report, err := h.reportService.PeriodReport(c.Request.Context(), r)
	if err != nil {
		abortWithError(c, err)
		return
	}

	base := fmt.Sprintf("invoice_summary_%s_%s", r.Start, r.End)
	format := c.DefaultQuery("format", "csv")
	switch format {
	case "csv":
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", base))
		c.Header("Content-Type", "text/csv")
		if err := h.exportService.WriteReportCSV(report, c.Writer); err != nil {
			abortWithError(c, err)
		}
	case "xlsx":
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", base))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := h.exportService.WriteReportXLSX(report, c.Writer); err != nil {
			abortWithError(c, err)
		}
	case "pdf":
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", base))
		c.Header("Content-Type", "application/pdf")
		if err := h.pdfService.WritePeriodReportPDF(report, c.Writer); err != nil {
			abortWithError(c, err)
		}
	default:
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Unsupported export format: "+format))
	}
}

// ExportCustomers downloads all customers as CSV
// @Summary      Export customers CSV
// @Tags         imports-exports
// @Produce      text/csv
// @Success      200  {file}  file
// @Router       /api/exports/customers [get]
func (h *ReportHandler) ExportCustomers(c *gin.Context) {
	c.Header("Content-Disposition", "attachment; filename=customers.csv")
	c.Header("Content-Type", "text/csv")
	if err := h.exportService.ExportCustomersCSV(c.Request.Context(), c.Writer); err != nil {
		abortWithError(c, err)
	}
}

// ExportProducts downloads the product catalog as CSV
// @Summary      Export products CSV
// @Tags         imports-exports
// @Produce      text/csv
// @Success      200  {file}  file
// @Router       /api/exports/products [get]
func (h *ReportHandler) ExportProducts(c *gin.Context) {
	c.Header("Content-Disposition", "attachment; filename=products.csv")
	c.Header("Content-Type", "text/csv")
	if err := h.exportService.ExportProductsCSV(c.Request.Context(), c.Writer); err != nil {
		abortWithError(c, err)
	}
}

// ImportCustomers upserts customers from an uploaded CSV file
// @Summary      Import customers CSV
// @Tags         imports-exports
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "CSV file"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Router       /api/imports/customers [post]
func (h *ReportHandler) ImportCustomers(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing CSV file upload: "+err.Error()))
		return
	}
	defer file.Close()

	count, err := h.exportService.ImportCustomersCSV(c.Request.Context(), file)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"imported": count}))
}

// ImportProducts upserts catalog products from an uploaded CSV file
// @Summary      Import products CSV
// @Tags         imports-exports
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "CSV file"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Router       /api/imports/products [post]
func (h *ReportHandler) ImportProducts(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing CSV file upload: "+err.Error()))
		return
	}
	defer file.Close()

	count, err := h.exportService.ImportProductsCSV(c.Request.Context(), file)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"imported": count}))
}
