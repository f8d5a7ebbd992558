package ocr

import (
	"fmt"

	"facturas/internal/config"
	"facturas/internal/domain"
	"facturas/internal/port"
)

// ProviderFactory creates an InvoiceExtractor from a provider config.
type ProviderFactory func(cfg *config.OCRProviderConfig) (port.InvoiceExtractor, error)

var providers = map[string]ProviderFactory{}

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewExtractor creates an InvoiceExtractor from a provider config using the registered factory.
func NewExtractor(cfg *config.OCRProviderConfig) (port.InvoiceExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("provider %q: %w", cfg.Provider, domain.ErrUnknownOCREngine)
	}
	return factory(cfg)
}
