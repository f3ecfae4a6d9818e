package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/veerananda/Stock-Deduction-Service/internal/clock"
	"github.com/veerananda/Stock-Deduction-Service/internal/order/domain"
)

type Service struct {
	log   *slog.Logger
	repo  OrderRepository
	sched DeductionScheduler
	clk   clock.Clock
}

func NewService(log *slog.Logger, repo OrderRepository, sched DeductionScheduler, clk clock.Clock) *Service {
	return &Service{log: log, repo: repo, sched: sched, clk: clk}
}

// PlaceOrder persists a pending order and schedules its deferred stock
// deduction. A scheduling failure is surfaced here: an order whose deduction
// cannot be scheduled is not accepted.
func (s *Service) PlaceOrder(ctx context.Context, customer string, items []domain.LineItem) (domain.Order, error) {
	o, err := domain.NewOrder(uuid.NewString(), customer, items, s.clk.Now())
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.repo.Save(ctx, o); err != nil {
		return domain.Order{}, fmt.Errorf("save order: %w", err)
	}
	taskID, err := s.sched.Schedule(ctx, domain.NewSnapshot(o))
	if err != nil {
		return domain.Order{}, fmt.Errorf("schedule deduction: %w", err)
	}
	s.log.Info("order placed", "order_id", o.ID, "items", len(o.Items), "task_id", taskID)
	return o, nil
}

// Cancel moves a pending order to cancelled. To be honored by the deduction
// worker the transition must commit before the grace window elapses.
func (s *Service) Cancel(ctx context.Context, id string) error {
	return s.transition(ctx, id, domain.StatusCancelled)
}

// Complete moves a pending order to completed.
func (s *Service) Complete(ctx context.Context, id string) error {
	return s.transition(ctx, id, domain.StatusCompleted)
}

func (s *Service) Get(ctx context.Context, id string) (domain.Order, error) {
	o, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if !found {
		return domain.Order{}, domain.ErrNotFound
	}
	return o, nil
}

func (s *Service) transition(ctx context.Context, id string, to domain.OrderStatus) error {
	ok, err := s.repo.Transition(ctx, id, domain.StatusPending, to)
	if err != nil {
		return err
	}
	if ok {
		s.log.Info("order transitioned", "order_id", id, "status", to)
		return nil
	}
	_, found, err := s.repo.GetStatus(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrNotFound
	}
	return domain.ErrNotPending
}
