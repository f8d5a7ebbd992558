package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"facturas/internal/domain"
	"facturas/internal/export"
	"facturas/internal/invoice"
	"facturas/internal/port"
	"facturas/internal/service"
)

// InvoiceHandler handles invoice endpoints.
type InvoiceHandler struct {
	invoiceService    service.InvoiceService
	extractionService service.ExtractionService
	now               func() time.Time
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService, extractionService service.ExtractionService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService:    invoiceService,
		extractionService: extractionService,
		now:               time.Now,
	}
}

// markPaidRequest is the body of PATCH /invoices/:id/mark-as-paid.
type markPaidRequest struct {
	PaymentDate string `json:"paymentDate" binding:"required"`
}

// calculateRequest carries the calculator inputs. Amounts are coerced the
// same way draft edits are.
type calculateRequest struct {
	Type      invoice.Field[domain.InvoiceType] `json:"type"`
	Amount    invoice.Field[decimal.Decimal]    `json:"amount"`
	Amount105 invoice.Field[decimal.Decimal]    `json:"amount_105"`
	HasIIBB   invoice.Field[bool]               `json:"has_ii_bb"`
}

// calculateResponse is the calculator output plus its display strings.
type calculateResponse struct {
	Derived invoice.Derived `json:"derived"`
	Display invoice.Display `json:"display"`
}

// List handles GET /api/v1/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	filter, err := parseInvoiceFilter(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.invoiceService.List(c.Request.Context(), service.InvoiceListInput{
		Filter: filter,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, result.Invoices, PagMeta{Total: result.Total, Page: result.Page, PerPage: result.PerPage})
}

// GetByID handles GET /api/v1/invoices/:id
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := parseInt64Param(c, "id", "invoice")
	if !ok {
		return
	}

	inv, err := h.invoiceService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// Create handles POST /api/v1/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	var p invoice.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	inv, err := h.invoiceService.Create(c.Request.Context(), userID, p)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, inv)
}

// Update handles PATCH /api/v1/invoices/:id
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := parseInt64Param(c, "id", "invoice")
	if !ok {
		return
	}

	var p invoice.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	inv, err := h.invoiceService.Update(c.Request.Context(), id, p)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// Delete handles DELETE /api/v1/invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := parseInt64Param(c, "id", "invoice")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "invoice deleted"})
}

// MarkPaid handles PATCH /api/v1/invoices/:id/mark-as-paid
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	id, ok := parseInt64Param(c, "id", "invoice")
	if !ok {
		return
	}

	var req markPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	inv, err := h.invoiceService.MarkPaid(c.Request.Context(), id, req.PaymentDate)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// MarkPrepared handles PATCH /api/v1/invoices/:id/mark-as-prepared
func (h *InvoiceHandler) MarkPrepared(c *gin.Context) {
	id, ok := parseInt64Param(c, "id", "invoice")
	if !ok {
		return
	}

	inv, err := h.invoiceService.MarkPrepared(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// Export handles GET /api/v1/invoices/export
func (h *InvoiceHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}
	filter, err := parseInvoiceFilter(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	// Buffered so a failure halfway still yields a JSON error.
	var buf bytes.Buffer
	if err := h.invoiceService.Export(c.Request.Context(), filter, format, &buf); err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename("facturas", format, h.now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// Calculate handles POST /api/v1/invoices/calculate
func (h *InvoiceHandler) Calculate(c *gin.Context) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	t, ok := req.Type.Get()
	if !ok || !t.Valid() {
		RespondFieldErrors(c, domain.FieldErrors{"type": "El tipo de factura debe ser A o X"})
		return
	}

	in := invoice.Inputs{
		Type:      t,
		Amount:    req.Amount.OrElse(decimal.Zero),
		Amount105: req.Amount105.OrElse(decimal.Zero),
		HasIIBB:   req.HasIIBB.OrElse(false),
	}
	derived := invoice.Recompute(in)

	RespondOK(c, calculateResponse{Derived: derived, Display: invoice.DisplayOf(in, derived)})
}

// ProcessImage handles POST /api/v1/invoices/process-image
func (h *InvoiceHandler) ProcessImage(c *gin.Context) {
	image, closeFile, ok := readImageUpload(c)
	if !ok {
		return
	}
	defer closeFile()

	settings, ok := parseOCRSettings(c)
	if !ok {
		return
	}

	processed, err := h.extractionService.ProcessImage(c.Request.Context(), image, settings)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, processed)
}

// parseInvoiceFilter reads the listing filters shared by List and Export.
func parseInvoiceFilter(c *gin.Context) (domain.InvoiceFilter, error) {
	var f domain.InvoiceFilter

	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			status := domain.InvoiceStatus(s)
			if !status.Valid() {
				return f, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidFilter, s)
			}
			f.Statuses = append(f.Statuses, status)
		}
	}

	if raw := c.Query("type"); raw != "" {
		t := domain.InvoiceType(raw)
		if !t.Valid() {
			return f, fmt.Errorf("%w: unknown type %q", domain.ErrInvalidFilter, raw)
		}
		f.Type = t
	}

	for _, q := range []struct {
		key string
		dst *string
	}{{"fromDate", &f.FromDate}, {"toDate", &f.ToDate}} {
		raw := c.Query(q.key)
		if raw == "" {
			continue
		}
		if _, err := time.Parse(invoice.DateLayout, raw); err != nil {
			return f, fmt.Errorf("%w: %s must be YYYY-MM-DD", domain.ErrInvalidFilter, q.key)
		}
		*q.dst = raw
	}

	if raw := c.Query("supplierId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return f, fmt.Errorf("%w: supplierId must be numeric", domain.ErrInvalidFilter)
		}
		f.SupplierID = &id
	}

	if raw := c.Query("sortBy"); raw != "" {
		f.SortBy = domain.InvoiceSort(raw)
	}
	switch strings.ToLower(c.DefaultQuery("sortOrder", "asc")) {
	case "asc":
	case "desc":
		f.Descending = true
	default:
		return f, fmt.Errorf("%w: sortOrder must be asc or desc", domain.ErrInvalidFilter)
	}

	return f, nil
}

// parseInt64Param parses a numeric path parameter. Returns false if it is
// malformed (error response already written).
func parseInt64Param(c *gin.Context, name, resource string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+resource+" ID")
		return 0, false
	}
	return id, true
}

// readImageUpload reads the multipart "file" field. The returned func closes
// the file. Returns false if the field is missing (error response already
// written).
func readImageUpload(c *gin.Context) (service.ImageUploadInput, func(), bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return service.ImageUploadInput{}, nil, false
	}
	return service.ImageUploadInput{
		File:     file,
		Size:     header.Size,
		Filename: header.Filename,
	}, func() { _ = file.Close() }, true
}

// parseOCRSettings decodes the optional "settings" form field. Returns false
// if it is present but malformed (error response already written).
func parseOCRSettings(c *gin.Context) (*port.OCRSettings, bool) {
	raw := strings.TrimSpace(c.PostForm("settings"))
	if raw == "" {
		return nil, true
	}
	var s port.OCRSettings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_SETTINGS", "settings must be a JSON object")
		return nil, false
	}
	return &s, true
}
