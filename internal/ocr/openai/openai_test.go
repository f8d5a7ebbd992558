package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturas/internal/config"
	"facturas/internal/domain"
	"facturas/internal/ocr"
	"facturas/internal/ocr/openai"
	"facturas/internal/port"
	"facturas/internal/reconcile"
)

func newTestExtractor(serverURL string) *openai.Extractor {
	cfg := &config.OCRProviderConfig{
		Provider:     "openai",
		APIKey:       "test-openai-key",
		DefaultModel: "gpt-4o",
		TimeoutSecs:  30,
	}
	return openai.NewWithEndpoint(cfg, serverURL)
}

func successResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
	}
}

func TestExtract_Success(t *testing.T) {
	modelJSON := `{"invoiceData":{"date":"2025-02-10","type":"A","amount":1000,"has_ii_bb":true,"total_neto":1000,"ii_bb_amount":0},"supplierInfo":{"name":"ACME S.A.","cuit":"30-11111111-1"},"confidence":88,"extractedText":"FACTURA A"}`
	temp := 0.1

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-openai-key", r.Header.Get("Authorization"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "gpt-4o", reqBody["model"])
		assert.InDelta(t, 0.1, reqBody["temperature"], 1e-9)

		msg := reqBody["messages"].([]interface{})[0].(map[string]interface{})
		content := msg["content"].([]interface{})
		require.Len(t, content, 2)
		img := content[0].(map[string]interface{})
		assert.Equal(t, "image_url", img["type"])
		url := img["image_url"].(map[string]interface{})["url"].(string)
		assert.Contains(t, url, "data:image/jpeg;base64,")

		_ = json.NewEncoder(w).Encode(successResponse(modelJSON))
	}))
	defer server.Close()

	env, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte{0xff, 0xd8, 0xff},
		ContentType: "image/jpeg",
		Settings:    port.OCRSettings{Temperature: &temp},
	})

	require.NoError(t, err)
	require.NotNil(t, env.Confidence)
	assert.InDelta(t, 88, *env.Confidence, 1e-9)
	require.NotNil(t, env.SupplierInfo)
	assert.Equal(t, "ACME S.A.", env.SupplierInfo.Name)

	c, err := reconcile.Normalize(*env)
	require.NoError(t, err)
	assert.InDelta(t, 0.88, c.Confidence.Value, 1e-9)
	assert.Equal(t, domain.InvoiceTypeA, c.Type.Value)
}

func TestExtract_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"slow down"}`))
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{ContentType: "image/png"})

	var rlErr *ocr.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "openai", rlErr.Provider)
	assert.Equal(t, float64(7), rlErr.RetryAfter.Seconds())
}

func TestExtract_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`boom`))
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{ContentType: "image/png"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestExtract_Truncated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{"content": `{"invoiceData":`}, "finish_reason": "length"},
			},
		})
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{ContentType: "image/png"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}

func TestExtract_UnsupportedContentType(t *testing.T) {
	_, err := newTestExtractor("http://unused").Extract(context.Background(), port.ExtractInput{ContentType: "application/pdf"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}
