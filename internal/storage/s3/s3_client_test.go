package s3_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docextract/internal/config"
	"docextract/internal/domain"
	"docextract/internal/port"
	s3storage "docextract/internal/storage/s3"
)

var pdfBody = []byte("%PDF-1.4\nfake body for download\n%%EOF\n")

func newStorage(t *testing.T) port.ObjectStorage {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/invoices/in/1042.pdf":
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Length", strconv.Itoa(len(pdfBody)))
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.Header().Set("Content-Range", "bytes 0-"+strconv.Itoa(len(pdfBody)-1)+"/"+strconv.Itoa(len(pdfBody)))
			w.WriteHeader(http.StatusPartialContent)
			_, _ = w.Write(pdfBody)
		default:
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			if r.Method != http.MethodHead {
				_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`))
			}
		}
	}))
	t.Cleanup(srv.Close)

	storage, err := s3storage.NewS3Client(&config.S3Config{
		Region:    "us-east-1",
		Bucket:    "invoices",
		Endpoint:  srv.URL,
		AccessKey: "test",
		SecretKey: "test",
	})
	require.NoError(t, err)
	return storage
}

func TestStat(t *testing.T) {
	info, err := newStorage(t).Stat(context.Background(), "invoices", "in/1042.pdf")
	require.NoError(t, err)
	assert.Equal(t, "in/1042.pdf", info.Key)
	assert.Equal(t, int64(len(pdfBody)), info.Size)
	assert.Equal(t, "application/pdf", info.ContentType)
}

func TestStat_NotFound(t *testing.T) {
	_, err := newStorage(t).Stat(context.Background(), "invoices", "missing.pdf")
	assert.ErrorIs(t, err, domain.ErrObjectNotFound)
}

func TestDownload(t *testing.T) {
	data, err := newStorage(t).Download(context.Background(), "invoices", "in/1042.pdf")
	require.NoError(t, err)
	assert.Equal(t, pdfBody, data)
}

func TestDownload_NotFound(t *testing.T) {
	_, err := newStorage(t).Download(context.Background(), "invoices", "missing.pdf")
	assert.ErrorIs(t, err, domain.ErrObjectNotFound)
}
