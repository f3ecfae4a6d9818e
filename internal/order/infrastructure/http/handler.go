package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	inventoryapp "github.com/veerananda/Stock-Deduction-Service/internal/inventory/application"
	"github.com/veerananda/Stock-Deduction-Service/internal/order/application"
	"github.com/veerananda/Stock-Deduction-Service/internal/order/domain"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	ledger  inventoryapp.Ledger
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service, ledger inventoryapp.Ledger) *Handler {
	return &Handler{
		log:     log,
		service: service,
		ledger:  ledger,
		tracer:  otel.Tracer("order-http"),
	}
}

type placeOrderReq struct {
	Customer string            `json:"customer"`
	Items    []domain.LineItem `json:"items"`
}

type stockReq struct {
	Available int `json:"available"`
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/orders", h.placeOrder)
	r.Get("/orders/{id}", h.getOrder)
	r.Post("/orders/{id}/cancel", h.cancelOrder)
	r.Post("/orders/{id}/complete", h.completeOrder)
	r.Put("/stock/{sku}", h.setStock)
	r.Get("/stock/{sku}", h.getStock)
	return r
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PlaceOrder")
	defer span.End()

	var req placeOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	o, err := h.service.PlaceOrder(ctx, req.Customer, req.Items)
	if err != nil {
		if errors.Is(err, domain.ErrNoItems) || errors.Is(err, domain.ErrInvalidQuantity) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error("place order failed", "err", err)
		http.Error(w, "order could not be accepted", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": string(o.Status), "order_id": o.ID})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetOrder")
	defer span.End()

	o, err := h.service.Get(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error("get order failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(o)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "CancelOrder", h.service.Cancel)
}

func (h *Handler) completeOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "CompleteOrder", h.service.Complete)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, span string, fn func(ctx context.Context, id string) error) {
	ctx, sp := h.tracer.Start(r.Context(), span)
	defer sp.End()

	id := chi.URLParam(r, "id")
	err := fn(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrNotPending):
		http.Error(w, "order is not pending", http.StatusConflict)
	case err != nil:
		h.log.Error("transition failed", "order_id", id, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) setStock(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SetStock")
	defer span.End()

	var req stockReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Available < 0 {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	sku := chi.URLParam(r, "sku")
	if err := h.ledger.SetStock(ctx, sku, req.Available); err != nil {
		h.log.Error("set stock failed", "sku", sku, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getStock(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetStock")
	defer span.End()

	sku := chi.URLParam(r, "sku")
	level, err := h.ledger.GetStock(ctx, sku)
	if err != nil {
		h.log.Error("get stock failed", "sku", sku, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(level)
}
