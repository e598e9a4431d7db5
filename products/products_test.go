package products_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stocklight/go-inventory-client/products"
)

func TestList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode([]products.Product{
			{ID: 1, Name: "Keyboard", Price: "49.90", Quantity: 12, Category: "peripherals"},
			{ID: 2, Name: "Mouse", Price: "19.90", Quantity: 3, Category: "peripherals"},
		}))
	}))
	defer srv.Close()

	client, err := products.NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	list, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Keyboard", list[0].Name)
}

func TestCreate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var p products.Product
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		p.ID = 42

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		require.NoError(t, json.NewEncoder(w).Encode(p))
	}))
	defer srv.Close()

	client, err := products.NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	created, err := client.Create(context.Background(), products.Product{Name: "Monitor", Price: "199.00", Quantity: 7})
	require.NoError(t, err)
	require.Equal(t, int64(42), created.ID)
	require.Equal(t, "Monitor", created.Name)
}

func TestUpdate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/products/7", r.URL.Path)

		var p products.Product
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		p.ID = 7

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(p))
	}))
	defer srv.Close()

	client, err := products.NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	updated, err := client.Update(context.Background(), 7, products.Product{Name: "Monitor", Quantity: 5})
	require.NoError(t, err)
	require.Equal(t, int64(7), updated.ID)
}

func TestDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/products/7", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client, err := products.NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	require.NoError(t, client.Delete(context.Background(), 7))
}

func TestListSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client, err := products.NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	_, err = client.List(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "403")
}
