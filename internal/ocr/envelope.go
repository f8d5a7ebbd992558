package ocr

import (
	"encoding/json"
	"fmt"
	"strings"

	"facturas/internal/reconcile"
)

// DecodeEnvelope parses a model reply into an ExtractionEnvelope, tolerating
// a markdown code fence around the JSON.
func DecodeEnvelope(text string) (*reconcile.ExtractionEnvelope, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	var env reconcile.ExtractionEnvelope
	if err := json.Unmarshal([]byte(cleaned), &env); err != nil {
		return nil, fmt.Errorf("parsing model JSON output: %w (raw: %s)", err, Truncate(text, 500))
	}
	if len(env.InvoiceData) == 0 || string(env.InvoiceData) == "null" {
		return nil, fmt.Errorf("model output has no invoiceData (raw: %s)", Truncate(text, 500))
	}
	return &env, nil
}

// Truncate shortens s to maxLen bytes for logging.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
