package port

import (
	"context"

	"facturas/internal/reconcile"
)

// OCRSettings are forwarded untouched to the OCR engine.
type OCRSettings struct {
	ConfidenceThreshold *float64 `json:"confidence_threshold,omitempty"`
	Language            string   `json:"language,omitempty"`
	OCREngine           string   `json:"ocr_engine,omitempty"`
	Temperature         *float64 `json:"temperature,omitempty"`
}

// ExtractInput carries an invoice image to read.
type ExtractInput struct {
	FileBytes   []byte
	ContentType string
	Settings    OCRSettings
}

// InvoiceExtractor reads invoice fields off an image. Confidence in the
// returned envelope is a percentage.
type InvoiceExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*reconcile.ExtractionEnvelope, error)
}
