package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"facturas/internal/invoice"
	"facturas/internal/service"
)

// DraftHandler handles invoice draft and OCR extraction endpoints.
type DraftHandler struct {
	draftService      service.DraftService
	extractionService service.ExtractionService
}

// NewDraftHandler creates a new DraftHandler.
func NewDraftHandler(draftService service.DraftService, extractionService service.ExtractionService) *DraftHandler {
	return &DraftHandler{draftService: draftService, extractionService: extractionService}
}

// createDraftRequest is the optional body of POST /drafts.
type createDraftRequest struct {
	FromInvoiceID *int64 `json:"fromInvoiceId"`
}

// Create handles POST /api/v1/drafts
func (h *DraftHandler) Create(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	var req createDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	session, err := h.draftService.Create(c.Request.Context(), userID, req.FromInvoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, session)
}

// GetByID handles GET /api/v1/drafts/:id
func (h *DraftHandler) GetByID(c *gin.Context) {
	userID, draftID, ok := h.draftRef(c)
	if !ok {
		return
	}

	session, err := h.draftService.Get(c.Request.Context(), userID, draftID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, session)
}

// Update handles PATCH /api/v1/drafts/:id
func (h *DraftHandler) Update(c *gin.Context) {
	userID, draftID, ok := h.draftRef(c)
	if !ok {
		return
	}

	var p invoice.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	session, err := h.draftService.Edit(c.Request.Context(), userID, draftID, p)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, session)
}

// Validate handles POST /api/v1/drafts/:id/validate
func (h *DraftHandler) Validate(c *gin.Context) {
	userID, draftID, ok := h.draftRef(c)
	if !ok {
		return
	}

	report, err := h.draftService.Validate(c.Request.Context(), userID, draftID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, report)
}

// Submit handles POST /api/v1/drafts/:id/submit
func (h *DraftHandler) Submit(c *gin.Context) {
	userID, draftID, ok := h.draftRef(c)
	if !ok {
		return
	}

	inv, err := h.draftService.Submit(c.Request.Context(), userID, draftID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// Delete handles DELETE /api/v1/drafts/:id
func (h *DraftHandler) Delete(c *gin.Context) {
	userID, draftID, ok := h.draftRef(c)
	if !ok {
		return
	}

	if err := h.draftService.Discard(c.Request.Context(), userID, draftID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "draft discarded"})
}

// StartExtraction handles POST /api/v1/drafts/:id/extractions
func (h *DraftHandler) StartExtraction(c *gin.Context) {
	userID, draftID, ok := h.draftRef(c)
	if !ok {
		return
	}

	image, closeFile, ok := readImageUpload(c)
	if !ok {
		return
	}
	defer closeFile()

	settings, ok := parseOCRSettings(c)
	if !ok {
		return
	}

	attempt, err := h.extractionService.Start(c.Request.Context(), userID, draftID, image, settings)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondAccepted(c, attempt)
}

// GetExtraction handles GET /api/v1/drafts/:id/extractions/:attemptId
func (h *DraftHandler) GetExtraction(c *gin.Context) {
	userID, draftID, ok := h.draftRef(c)
	if !ok {
		return
	}
	attemptID, err := uuid.Parse(c.Param("attemptId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid attempt ID")
		return
	}

	view, err := h.extractionService.Attempt(c.Request.Context(), userID, draftID, attemptID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// draftRef reads the caller and the draft id. Returns false if either is
// missing (error response already written).
func (h *DraftHandler) draftRef(c *gin.Context) (userID, draftID uuid.UUID, ok bool) {
	userID, ok = extractUserID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	draftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid draft ID")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, draftID, true
}
