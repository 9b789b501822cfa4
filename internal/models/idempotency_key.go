package models

import "time"

// IdempotencyKey is the persistence model for the idempotency_keys table.
// (scope, key) carries a composite uniqueness constraint.
type IdempotencyKey struct {
	RecordID         string    `json:"recordID"`
	Scope            string    `json:"scope"`
	Key              string    `json:"key"`
	RequestHash      string    `json:"requestHash"`
	Status           string    `json:"status"`
	ResponseSnapshot []byte    `json:"responseSnapshot"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
