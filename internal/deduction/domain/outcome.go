package domain

// Outcome is the per-line-item result of one reconciliation run. Outcomes are
// computed once per fire event and logged; they are not persisted.
type Outcome string

const (
	Deducted                 Outcome = "deducted"
	SkippedInsufficientStock Outcome = "skipped_insufficient_stock"
	SkippedOrderGone         Outcome = "skipped_order_gone"
	SkippedOrderNotPending   Outcome = "skipped_order_not_pending"
)

// Result maps each SKU in the snapshot to its outcome.
type Result map[string]Outcome

// AllDeducted reports whether every item in the run was deducted.
func (r Result) AllDeducted() bool {
	for _, o := range r {
		if o != Deducted {
			return false
		}
	}
	return len(r) > 0
}
