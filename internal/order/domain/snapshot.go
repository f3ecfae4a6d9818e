package domain

import "encoding/json"

// Snapshot is the copy of an order carried through the delay queue. It is
// captured at scheduling time and therefore stale by construction: the worker
// must re-fetch live status by OrderID and never trust anything beyond the
// identifier and the line items.
type Snapshot struct {
	OrderID string     `json:"order_id"`
	Items   []LineItem `json:"items"`
}

func NewSnapshot(o Order) Snapshot {
	items := make([]LineItem, len(o.Items))
	copy(items, o.Items)
	return Snapshot{OrderID: o.ID, Items: items}
}

func (s Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalSnapshot decodes a task payload. Unknown fields are ignored so the
// payload format can grow without breaking in-flight tasks.
func UnmarshalSnapshot(payload []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(payload, &s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}
