package ocr_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"facturas/internal/config"
	"facturas/internal/domain"
	"facturas/internal/ocr"
	"facturas/internal/port"
	"facturas/mocks"
)

func TestRateLimitError(t *testing.T) {
	underlying := fmt.Errorf("rate limited")
	rlErr := ocr.NewRateLimitError("openai", underlying, 30)

	assert.Contains(t, rlErr.Error(), "openai")
	assert.Contains(t, rlErr.Error(), "30s")
	assert.Equal(t, underlying, errors.Unwrap(rlErr))

	wrapped := fmt.Errorf("extract failed: %w", rlErr)
	var target *ocr.RateLimitError
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, 30*time.Second, target.RetryAfter)

	assert.Equal(t, 60*time.Second, ocr.NewRateLimitError("x", underlying, 0).RetryAfter)
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, ocr.ParseRetryAfterHeader(""))
	assert.Equal(t, 12, ocr.ParseRetryAfterHeader("12"))
	assert.Equal(t, 0, ocr.ParseRetryAfterHeader("Wed, 21 Oct 2015 07:28:00 GMT"))
}

func TestNewExtractor_UnknownProvider(t *testing.T) {
	_, err := ocr.NewExtractor(&config.OCRProviderConfig{Provider: "tesseract"})
	assert.ErrorIs(t, err, domain.ErrUnknownOCREngine)
}

func TestNewExtractor_Registered(t *testing.T) {
	want := new(mocks.MockInvoiceExtractor)
	ocr.RegisterProvider("fake", func(cfg *config.OCRProviderConfig) (port.InvoiceExtractor, error) {
		return want, nil
	})

	got, err := ocr.NewExtractor(&config.OCRProviderConfig{Provider: "fake"})
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestSelector(t *testing.T) {
	def := new(mocks.MockInvoiceExtractor)
	gem := new(mocks.MockInvoiceExtractor)
	sel := ocr.NewSelector(def, map[string]port.InvoiceExtractor{"gemini": gem})

	plain := port.ExtractInput{ContentType: "image/png"}
	def.On("Extract", mock.Anything, plain).Return(envelope("default"), nil)
	out, err := sel.Extract(context.Background(), plain)
	require.NoError(t, err)
	assert.Equal(t, "default", out.ExtractedText)

	google := port.ExtractInput{ContentType: "image/png", Settings: port.OCRSettings{OCREngine: "google"}}
	gem.On("Extract", mock.Anything, google).Return(envelope("gemini"), nil)
	out, err = sel.Extract(context.Background(), google)
	require.NoError(t, err)
	assert.Equal(t, "gemini", out.ExtractedText)

	tesseract := port.ExtractInput{ContentType: "image/jpeg", Settings: port.OCRSettings{OCREngine: "tesseract", Language: "spa"}}
	routed := port.ExtractInput{ContentType: "image/jpeg", Settings: port.OCRSettings{Language: "spa"}}
	def.On("Extract", mock.Anything, routed).Return(envelope("default"), nil)
	out, err = sel.Extract(context.Background(), tesseract)
	require.NoError(t, err)
	assert.Equal(t, "default", out.ExtractedText)
	assert.Equal(t, "tesseract", out.EngineSubstituted)
	gem.AssertExpectations(t)
}

func TestDecodeEnvelope(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		env, err := ocr.DecodeEnvelope(`{"invoiceData":{"amount":100},"confidence":92}`)
		require.NoError(t, err)
		require.NotNil(t, env.Confidence)
		assert.InDelta(t, 92, *env.Confidence, 1e-9)
	})

	t.Run("fenced", func(t *testing.T) {
		env, err := ocr.DecodeEnvelope("```json\n{\"invoiceData\":{\"type\":\"A\"}}\n```")
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"A"}`, string(env.InvoiceData))
	})

	t.Run("missing_invoice_data", func(t *testing.T) {
		_, err := ocr.DecodeEnvelope(`{"confidence":50}`)
		assert.Error(t, err)
	})

	t.Run("not_json", func(t *testing.T) {
		_, err := ocr.DecodeEnvelope("I could not read the image")
		assert.Error(t, err)
	})
}

func TestBuildInvoicePrompt(t *testing.T) {
	spa := ocr.BuildInvoicePrompt(port.OCRSettings{})
	assert.Contains(t, spa, "invoiceData")
	assert.Contains(t, spa, "Spanish")

	eng := ocr.BuildInvoicePrompt(port.OCRSettings{Language: "eng"})
	assert.Contains(t, eng, "English")
}
