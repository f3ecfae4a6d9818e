package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/veerananda/Stock-Deduction-Service/internal/clock"
	"github.com/veerananda/Stock-Deduction-Service/internal/inventory/infrastructure/memory"
	"github.com/veerananda/Stock-Deduction-Service/internal/order/application"
	"github.com/veerananda/Stock-Deduction-Service/internal/order/domain"
	"github.com/veerananda/Stock-Deduction-Service/internal/order/infrastructure/schedule"
	"github.com/veerananda/Stock-Deduction-Service/pkg/delayq"
)

type memRepo struct {
	orders map[string]domain.Order
}

func (m *memRepo) Save(_ context.Context, o domain.Order) error {
	m.orders[o.ID] = o
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (domain.Order, bool, error) {
	o, ok := m.orders[id]
	return o, ok, nil
}

func (m *memRepo) GetStatus(_ context.Context, id string) (domain.OrderStatus, bool, error) {
	o, ok := m.orders[id]
	return o.Status, ok, nil
}

func (m *memRepo) Transition(_ context.Context, id string, from, to domain.OrderStatus) (bool, error) {
	o, ok := m.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	m.orders[id] = o
	return true, nil
}

func newTestHandler(t *testing.T) (http.Handler, *memRepo, *delayq.MemoryQueue) {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	repo := &memRepo{orders: make(map[string]domain.Order)}
	queue := delayq.NewMemoryQueue()
	clk := clock.NewFixed(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	sched := schedule.New(log, queue, 5*time.Minute, clk)
	svc := application.NewService(log, repo, sched, clk)
	h := NewHandler(log, svc, memory.NewLedger())
	return h.Routes(), repo, queue
}

func TestPlaceOrder(t *testing.T) {
	t.Parallel()

	t.Run("accepts a valid order and schedules its deduction", func(t *testing.T) {
		routes, repo, queue := newTestHandler(t)

		body := `{"customer":"alice","items":[{"sku":"itemA","quantity":2}]}`
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp["status"] != "pending" || resp["order_id"] == "" {
			t.Fatalf("unexpected response: %v", resp)
		}
		if _, ok := repo.orders[resp["order_id"]]; !ok {
			t.Fatalf("expected order persisted")
		}
		if queue.Len() != 1 {
			t.Fatalf("expected one scheduled task, got %d", queue.Len())
		}
	})

	t.Run("rejects empty and invalid bodies", func(t *testing.T) {
		routes, _, _ := newTestHandler(t)

		for _, body := range []string{`not json`, `{"customer":"alice","items":[]}`, `{"customer":"alice","items":[{"sku":"a","quantity":0}]}`} {
			rec := httptest.NewRecorder()
			routes.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
			}
		}
	})
}

func TestOrderTransitions(t *testing.T) {
	t.Parallel()

	placeOrder := func(t *testing.T, routes http.Handler) string {
		rec := httptest.NewRecorder()
		body := `{"customer":"alice","items":[{"sku":"itemA","quantity":1}]}`
		routes.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))
		var resp map[string]string
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		return resp["order_id"]
	}

	t.Run("cancel pending order", func(t *testing.T) {
		routes, repo, _ := newTestHandler(t)
		id := placeOrder(t, routes)

		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders/"+id+"/cancel", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if repo.orders[id].Status != domain.StatusCancelled {
			t.Fatalf("expected cancelled, got %s", repo.orders[id].Status)
		}
	})

	t.Run("cancel completed order conflicts", func(t *testing.T) {
		routes, _, _ := newTestHandler(t)
		id := placeOrder(t, routes)

		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders/"+id+"/complete", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		routes.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders/"+id+"/cancel", nil))
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("cancel unknown order is 404", func(t *testing.T) {
		routes, _, _ := newTestHandler(t)
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders/missing/cancel", nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("get returns the order with its items", func(t *testing.T) {
		routes, _, _ := newTestHandler(t)
		id := placeOrder(t, routes)

		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/"+id, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var o domain.Order
		if err := json.Unmarshal(rec.Body.Bytes(), &o); err != nil {
			t.Fatalf("decode order: %v", err)
		}
		if o.ID != id || len(o.Items) != 1 {
			t.Fatalf("unexpected order: %+v", o)
		}
	})
}

func TestStockEndpoints(t *testing.T) {
	t.Parallel()
	routes, _, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/stock/itemA", strings.NewReader(`{"available":5}`)))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/stock/itemA", strings.NewReader(`{"available":-1}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative stock, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stock/itemA", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		SKU       string `json:"sku"`
		Available int    `json:"available"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode stock: %v", err)
	}
	if resp.SKU != "itemA" || resp.Available != 5 {
		t.Fatalf("unexpected stock response: %+v", resp)
	}
}
