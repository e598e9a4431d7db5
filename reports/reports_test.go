package reports_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stocklight/go-inventory-client/reports"
)

func TestLowInventoryPDF(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake report")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/report/low-inventory", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(pdf)
	}))
	defer srv.Close()

	client, err := reports.NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	data, err := client.LowInventoryPDF(context.Background())
	require.NoError(t, err)
	require.Equal(t, pdf, data)
}

func TestLowInventoryPDFDenied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client, err := reports.NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	_, err = client.LowInventoryPDF(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "403")
}
