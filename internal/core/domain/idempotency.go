package domain

import (
	"encoding/json"
	"time"
)

// IdempotencyStatus tracks the lifecycle of a guarded operation.
type IdempotencyStatus string

const (
	IdempotencyInProgress IdempotencyStatus = "IN_PROGRESS"
	IdempotencySucceeded  IdempotencyStatus = "SUCCEEDED"
	IdempotencyFailed     IdempotencyStatus = "FAILED"
)

// IdempotencyRecord is the durable memory of a guarded operation, keyed by
// (Scope, Key). RequestHash fingerprints the request payload so a retry with
// a different payload under the same key is detected as a conflict.
type IdempotencyRecord struct {
	RecordID         string            `json:"recordID"`
	Scope            string            `json:"scope"`
	Key              string            `json:"key"`
	RequestHash      string            `json:"requestHash"`
	Status           IdempotencyStatus `json:"status"`
	ResponseSnapshot json.RawMessage   `json:"responseSnapshot"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// IsReplayable reports whether the record holds a committed success whose
// snapshot can be returned without re-executing the operation.
func (r IdempotencyRecord) IsReplayable() bool {
	return r.Status == IdempotencySucceeded
}
