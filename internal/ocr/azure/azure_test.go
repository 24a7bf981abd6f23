package azure_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docextract/internal/ocr/azure"
)

const ocrResponse = `{
  "language": "en",
  "orientation": "Up",
  "regions": [
    {"boundingBox": "0,0,10,10", "lines": [
      {"boundingBox": "0,0,10,5", "words": [{"boundingBox": "0,0,5,5", "text": "INVOICE"}, {"boundingBox": "5,0,5,5", "text": "#1042"}]},
      {"boundingBox": "0,5,10,5", "words": [{"boundingBox": "0,5,5,5", "text": "Total"}, {"boundingBox": "5,5,5,5", "text": "370.51"}]}
    ]}
  ]
}`

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page-1.png")
	require.NoError(t, os.WriteFile(path, []byte("fake png bytes"), 0o600))
	return path
}

func TestRecognize_JoinsWordsPerLine(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Ocp-Apim-Subscription-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(ocrResponse))
	}))
	defer srv.Close()

	rec := azure.NewRecognizer(srv.URL, "secret", "eng")
	text, err := rec.Recognize(context.Background(), writeImage(t))

	require.NoError(t, err)
	assert.Equal(t, "INVOICE #1042\nTotal 370.51\n", text)
	assert.Equal(t, "secret", gotKey)
}

func TestRecognize_LanguageParameter(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"eng", "en"},
		{"DE", "de"},
		{"por", "pt"},
		{"jpn", "unk"},
		{"", "unk"},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			var got string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.URL.Query().Get("language")
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(ocrResponse))
			}))
			defer srv.Close()

			_, err := azure.NewRecognizer(srv.URL, "secret", tt.lang).Recognize(context.Background(), writeImage(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecognize_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"401","message":"Access denied"}}`))
	}))
	defer srv.Close()

	rec := azure.NewRecognizer(srv.URL, "bad", "eng")
	_, err := rec.Recognize(context.Background(), writeImage(t))
	assert.Error(t, err)
}

func TestRecognize_MissingImage(t *testing.T) {
	rec := azure.NewRecognizer("http://127.0.0.1:1", "key", "eng")
	_, err := rec.Recognize(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestAvailable(t *testing.T) {
	assert.Error(t, azure.NewRecognizer("", "", "eng").Available())
	assert.Error(t, azure.NewRecognizer("https://example.cognitiveservices.azure.com", "", "eng").Available())
	assert.NoError(t, azure.NewRecognizer("https://example.cognitiveservices.azure.com", "key", "eng").Available())
	assert.Equal(t, "azure", azure.NewRecognizer("", "", "").Name())
}
