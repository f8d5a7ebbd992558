package ocr

import (
	"context"

	"facturas/internal/port"
	"facturas/internal/reconcile"
)

// Engine names accepted in OCR settings, mapped to provider names.
var engineProviders = map[string]string{
	"openai": "openai",
	"google": "gemini",
}

// Selector routes a request to the engine named in its settings. Requests
// that name no engine, or one that is not configured (tesseract, for
// instance), go to the default chain; the latter are flagged on the envelope.
type Selector struct {
	def     port.InvoiceExtractor
	engines map[string]port.InvoiceExtractor
}

// NewSelector creates a Selector. byProvider is keyed by provider name.
func NewSelector(def port.InvoiceExtractor, byProvider map[string]port.InvoiceExtractor) *Selector {
	engines := make(map[string]port.InvoiceExtractor)
	for engine, provider := range engineProviders {
		if e, ok := byProvider[provider]; ok {
			engines[engine] = e
		}
	}
	return &Selector{def: def, engines: engines}
}

func (s *Selector) Extract(ctx context.Context, input port.ExtractInput) (*reconcile.ExtractionEnvelope, error) {
	engine := input.Settings.OCREngine
	if engine == "" {
		return s.def.Extract(ctx, input)
	}
	if e, ok := s.engines[engine]; ok {
		return e.Extract(ctx, input)
	}

	input.Settings.OCREngine = ""
	env, err := s.def.Extract(ctx, input)
	if err != nil {
		return nil, err
	}
	env.EngineSubstituted = engine
	return env, nil
}
