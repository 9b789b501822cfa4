package mapping

import (
	"github.com/addisledger/gl_backend/internal/core/domain"
	"github.com/addisledger/gl_backend/internal/models"
)

// ToModelIdempotencyKey converts a domain IdempotencyRecord to its persistence model
func ToModelIdempotencyKey(d domain.IdempotencyRecord) models.IdempotencyKey {
	return models.IdempotencyKey{
		RecordID:         d.RecordID,
		Scope:            d.Scope,
		Key:              d.Key,
		RequestHash:      d.RequestHash,
		Status:           string(d.Status),
		ResponseSnapshot: d.ResponseSnapshot,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// ToDomainIdempotencyRecord converts a model IdempotencyKey to the domain
func ToDomainIdempotencyRecord(m models.IdempotencyKey) domain.IdempotencyRecord {
	return domain.IdempotencyRecord{
		RecordID:         m.RecordID,
		Scope:            m.Scope,
		Key:              m.Key,
		RequestHash:      m.RequestHash,
		Status:           domain.IdempotencyStatus(m.Status),
		ResponseSnapshot: m.ResponseSnapshot,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
