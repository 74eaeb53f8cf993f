package repositories_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/httpapi"
)

// recorder keeps the sequence of calls a fake backend received.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, req.Method+" "+req.URL.Path)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func newBackend(t *testing.T, mux *http.ServeMux) (*httpapi.Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.add(r)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)
	api, err := httpapi.NewClient(ts.URL, httpapi.WithHTTPClient(ts.Client()))
	require.NoError(t, err)
	return api, rec
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var fixedNow = func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) }

func TestDiffMembership(t *testing.T) {
	cases := []struct {
		name       string
		old, new   []int64
		wantRemove []int64
		wantAdd    []int64
	}{
		{"both empty", nil, nil, []int64{}, []int64{}},
		{"all new", nil, []int64{3, 1}, []int64{}, []int64{1, 3}},
		{"all removed", []int64{2, 1}, nil, []int64{1, 2}, []int64{}},
		{"overlap", []int64{1, 2, 3}, []int64{2, 3, 4, 5}, []int64{1}, []int64{4, 5}},
		{"duplicates collapse", []int64{1, 1, 2}, []int64{2, 2, 6, 6}, []int64{1}, []int64{6}},
		{"identical", []int64{4, 5}, []int64{5, 4}, []int64{}, []int64{}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			remove, add := repositories.DiffMembership(tc.old, tc.new)
			assert.Equal(t, tc.wantRemove, remove)
			assert.Equal(t, tc.wantAdd, add)
		})
	}
}

// inputStore is a fake service_inputs table for one service.
type inputStore struct {
	mu        sync.Mutex
	members   map[int64]int
	failAdd   map[int64]bool
	failDel   map[int64]bool
	missing   map[int64]bool
	serviceID int64
}

func (s *inputStore) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /service/input_service/service/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		out := []models.ServiceInputRecord{}
		for pid, q := range s.members {
			out = append(out, models.ServiceInputRecord{ServiceID: s.serviceID, ProductID: pid, Quantity: q})
		}
		writeJSON(w, http.StatusOK, out)
	})
	mux.HandleFunc("DELETE /service/input_service/{sid}/{pid}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		pid := parseID(r.PathValue("pid"))
		switch {
		case s.failDel[pid]:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
		case s.missing[pid]:
			delete(s.members, pid)
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "not associated"})
		default:
			delete(s.members, pid)
			w.WriteHeader(http.StatusNoContent)
		}
	})
	mux.HandleFunc("POST /service/input_service/", func(w http.ResponseWriter, r *http.Request) {
		var in models.ServiceInputRecord
		_ = json.NewDecoder(r.Body).Decode(&in)
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.failAdd[in.ProductID] {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "rejected"})
			return
		}
		s.members[in.ProductID] = in.Quantity
		writeJSON(w, http.StatusCreated, in)
	})
	mux.HandleFunc("PUT /service/input_service/{sid}/{pid}", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Quantity int `json:"quantity"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.members[parseID(r.PathValue("pid"))] = body.Quantity
		writeJSON(w, http.StatusOK, body)
	})
}

func (s *inputStore) ids() map[int64]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]int, len(s.members))
	for k, v := range s.members {
		out[k] = v
	}
	return out
}

func parseID(s string) int64 {
	id, _ := strconv.ParseInt(s, 10, 64)
	return id
}

func components(ids map[int64]int) []models.Product {
	out := make([]models.Product, 0, len(ids))
	for id, q := range ids {
		out = append(out, models.Product{ID: id, QuantityViaService: q})
	}
	return out
}

func TestReconcileProductsReachesDesiredMembership(t *testing.T) {
	store := &inputStore{
		serviceID: 9,
		members:   map[int64]int{1: 1, 2: 1, 3: 2},
		missing:   map[int64]bool{1: true},
	}
	mux := http.NewServeMux()
	store.routes(mux)
	api, rec := newBackend(t, mux)
	repo := repositories.NewHTTPServiceRepository(api, repositories.NewMemoryProductRepository())

	desired := map[int64]int{2: 4, 3: 2, 4: 1, 5: 3}
	result, err := repo.ReconcileProducts(context.Background(), 9, components(desired))
	require.NoError(t, err, "a 404 on removal counts as already removed")

	assert.Equal(t, []int64{1}, result.Removed)
	assert.Equal(t, []int64{4, 5}, result.Added)
	assert.Equal(t, []int64{2}, result.Updated)
	assert.Equal(t, desired, store.ids())

	lastDelete, firstWrite := -1, len(rec.snapshot())
	for i, call := range rec.snapshot() {
		switch {
		case strings.HasPrefix(call, "DELETE"):
			lastDelete = i
		case strings.HasPrefix(call, "POST"), strings.HasPrefix(call, "PUT"):
			if i < firstWrite {
				firstWrite = i
			}
		}
	}
	assert.Less(t, lastDelete, firstWrite, "removals complete before additions start")
}

func TestReconcileProductsRemovalFailureStillAdds(t *testing.T) {
	store := &inputStore{
		serviceID: 9,
		members:   map[int64]int{1: 1, 2: 1},
		failDel:   map[int64]bool{1: true},
	}
	mux := http.NewServeMux()
	store.routes(mux)
	api, _ := newBackend(t, mux)
	repo := repositories.NewHTTPServiceRepository(api, repositories.NewMemoryProductRepository())

	_, err := repo.ReconcileProducts(context.Background(), 9, []models.Product{{ID: 7, QuantityViaService: 1}})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, httpapi.StatusCode(err))

	members := store.ids()
	assert.Contains(t, members, int64(7), "additions run despite a failed removal")
	assert.NotContains(t, members, int64(2))
	assert.Contains(t, members, int64(1))
}

func TestReconcileProductsAdditionFailureFails(t *testing.T) {
	store := &inputStore{
		serviceID: 9,
		members:   map[int64]int{},
		failAdd:   map[int64]bool{4: true},
	}
	mux := http.NewServeMux()
	store.routes(mux)
	api, _ := newBackend(t, mux)
	repo := repositories.NewHTTPServiceRepository(api, repositories.NewMemoryProductRepository())

	_, err := repo.ReconcileProducts(context.Background(), 9, []models.Product{{ID: 3}, {ID: 4}, {ID: 5}})
	require.Error(t, err)
	assert.Equal(t, "rejected", httpapi.Detail(err))
	assert.Len(t, store.ids(), 2, "every addition was attempted")
}

func TestServiceGetByIDLoadsComponents(t *testing.T) {
	store := &inputStore{serviceID: 4, members: map[int64]int{1: 2, 99: 1}}
	mux := http.NewServeMux()
	store.routes(mux)
	mux.HandleFunc("GET /service/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.ServiceRecord{ID: 4, Name: "Empaque regalo", Price: 3000})
	})
	api, _ := newBackend(t, mux)
	products := repositories.NewMemoryProductRepository(models.Product{ID: 1, Name: "Papel", Price: 500, QuantityDirect: 7})
	repo := repositories.NewHTTPServiceRepository(api, products)

	s, err := repo.GetByID(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Empaque regalo", s.Name)
	require.Len(t, s.Products, 1, "components that no longer exist are skipped")
	assert.Equal(t, int64(1), s.Products[0].ID)
	assert.Equal(t, 2, s.Products[0].QuantityViaService)
	assert.Zero(t, s.Products[0].QuantityDirect)
}

func TestProductCreateUploadsImage(t *testing.T) {
	var created models.ProductRecord
	mux := http.NewServeMux()
	mux.HandleFunc("POST /product/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		created.ID = 12
		writeJSON(w, http.StatusCreated, created)
	})
	mux.HandleFunc("PUT /product/image/{id}", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, []byte("png-bytes"), data)
		assert.Equal(t, "photo.png", header.Filename)
		writeJSON(w, http.StatusOK, "http://cdn.local/12.png")
	})
	api, rec := newBackend(t, mux)
	repo := repositories.NewHTTPProductRepository(api, repositories.WithClock(fixedNow))

	p, err := repo.Create(context.Background(), models.Product{
		Name:  "Cuaderno",
		Price: 8500,
		Stock: 10,
		Image: models.NewImageUpload(models.ImageUpload{Filename: "photo.png", ContentType: "image/png", Content: []byte("png-bytes")}),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), p.ID)
	assert.Equal(t, "http://cdn.local/12.png", p.Image.URL())
	assert.Equal(t, "https://example.com/image.jpg", created.ImageURL, "metadata is posted with the placeholder")
	assert.True(t, fixedNow().Equal(created.CreatedAt))
	assert.Equal(t, []string{"POST /product/", "PUT /product/image/12"}, rec.snapshot())
}

func TestProductCreateImageFailureIsDistinguishable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /product/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, models.ProductRecord{ID: 30, Name: "Cuaderno", ImageURL: "https://example.com/image.jpg"})
	})
	mux.HandleFunc("PUT /product/image/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"message": "image too large"})
	})
	api, _ := newBackend(t, mux)
	repo := repositories.NewHTTPProductRepository(api)

	p, err := repo.Create(context.Background(), models.Product{
		Name:  "Cuaderno",
		Image: models.NewImageUpload(models.ImageUpload{Filename: "a.png", Content: []byte{1}}),
	})
	require.Error(t, err)
	var uploadErr *repositories.ImageUploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, int64(30), uploadErr.Product.ID)
	require.NotNil(t, p)
	assert.Equal(t, int64(30), p.ID)
	assert.Equal(t, http.StatusRequestEntityTooLarge, httpapi.StatusCode(err))
}

func TestProductUpdateByIDSetsStockThroughStockEndpoint(t *testing.T) {
	var fields map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /product/{id}", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
		writeJSON(w, http.StatusOK, models.ProductRecord{ID: 5, Name: "Nuevo"})
	})
	mux.HandleFunc("PUT /product/stock/{id}/{stock}/{replace}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "40", r.PathValue("stock"))
		assert.Equal(t, "true", r.PathValue("replace"))
		writeJSON(w, http.StatusOK, models.ProductRecord{ID: 5, Name: "Nuevo", Stock: 40})
	})
	api, rec := newBackend(t, mux)
	repo := repositories.NewHTTPProductRepository(api)

	p, err := repo.UpdateByID(context.Background(), 5, models.Product{Name: "Nuevo", Stock: 40})
	require.NoError(t, err)
	assert.Equal(t, 40, p.Stock)
	assert.NotContains(t, fields, "stock")
	assert.Equal(t, []string{"PUT /product/5", "PUT /product/stock/5/40/true"}, rec.snapshot())
}

func TestDeleteByIDDistinguishesNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /product/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "404" {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Product not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "database down"})
	})
	api, _ := newBackend(t, mux)
	repo := repositories.NewHTTPProductRepository(api)

	err := repo.DeleteByID(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, httpapi.IsNotFound(err))
	assert.Equal(t, "Product not found", httpapi.Detail(err))

	err = repo.DeleteByID(context.Background(), 1)
	require.Error(t, err)
	assert.False(t, httpapi.IsNotFound(err))
	var te *httpapi.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
}

func TestSearchLowStock(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /product/search/low-stock", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.ProductRecord{{ID: 2, Name: "Lápiz", Stock: 1, MinimumStock: 5}})
	})
	api, _ := newBackend(t, mux)

	out, err := repositories.NewHTTPProductRepository(api).SearchLowStock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.ProductStockRecord{{ID: 2, Name: "Lápiz", Stock: 1, MinimumStock: 5}}, out)
}

func TestOrderRepositoryEndpoints(t *testing.T) {
	var header models.OrderRecord
	var line models.OrderProductRecord
	var invoice models.InvoiceRequest
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/order/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&header))
		header.ID = 77
		writeJSON(w, http.StatusCreated, header)
	})
	mux.HandleFunc("POST /api/order/product/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&line))
		writeJSON(w, http.StatusCreated, line)
	})
	mux.HandleFunc("PUT /api/order/status/{id}/{status}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "77", r.PathValue("id"))
		assert.Equal(t, "Completada", r.PathValue("status"))
		writeJSON(w, http.StatusOK, map[string]string{"status": "Completada"})
	})
	mux.HandleFunc("POST /billing/generate", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&invoice))
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("https://invoices.local/77.pdf\n"))
	})
	api, _ := newBackend(t, mux)
	paths := repositories.Paths{Order: "/api/order", Invoice: "/billing/generate"}
	repo := repositories.NewHTTPOrderRepository(api, repositories.WithPaths(paths), repositories.WithClock(fixedNow))
	ctx := context.Background()

	o, err := repo.Create(ctx, models.OrderDraft{ClientID: 5, EmployeeID: 8, TotalPrice: 15000})
	require.NoError(t, err)
	assert.Equal(t, int64(77), o.ID)
	assert.Equal(t, models.OrderPending, o.Status)
	assert.Equal(t, "Pendiente", header.Status)

	require.NoError(t, repo.AddProductLine(ctx, models.OrderProductLine{OrderID: 77, ProductID: 1, Quantity: 2}))
	assert.Equal(t, models.OrderProductRecord{OrderID: 77, ProductID: 1, Quantity: 2}, line)

	require.NoError(t, repo.UpdateStatus(ctx, 77, models.OrderCompleted))
	assert.Error(t, repo.UpdateStatus(ctx, 77, models.OrderStatus("shipped")))

	link, err := repo.GenerateInvoice(ctx, 77, 0.19)
	require.NoError(t, err)
	assert.Equal(t, "https://invoices.local/77.pdf", link)
	assert.Equal(t, models.InvoiceRequest{OrderID: 77, TaxRate: 0.19}, invoice)
}

func TestClientRepositoryCreate(t *testing.T) {
	var sent models.ClientRecord
	mux := http.NewServeMux()
	mux.HandleFunc("POST /user/client/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		sent.ID = 3
		writeJSON(w, http.StatusCreated, sent)
	})
	api, _ := newBackend(t, mux)

	c, err := repositories.NewHTTPClientRepository(api).Create(context.Background(), models.Client{DocumentID: "1032456789", Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.ID)
	assert.True(t, sent.State)
	assert.Equal(t, "1032456789", sent.DocumentID)
}

func TestMemoryOrderRepositoryFailOn(t *testing.T) {
	repo := repositories.NewMemoryOrderRepository()
	ctx := context.Background()

	o, err := repo.Create(ctx, models.OrderDraft{ClientID: 1})
	require.NoError(t, err)

	repo.FailOn(repositories.OpGenerateInvoice, assert.AnError)
	_, err = repo.GenerateInvoice(ctx, o.ID, 0.19)
	assert.ErrorIs(t, err, assert.AnError)

	repo.FailOn(repositories.OpGenerateInvoice, nil)
	link, err := repo.GenerateInvoice(ctx, o.ID, 0.19)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "memory://invoices/"))

	assert.True(t, httpapi.IsNotFound(repo.DeleteByID(ctx, 999)))
}
