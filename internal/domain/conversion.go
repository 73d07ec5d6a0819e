package domain

import (
	"time"

	"github.com/google/uuid"
)

// Conversion records an offline-conversion upload to an ad platform.
// Uploads are idempotent by deal: one row per deal, ever.
type Conversion struct {
	ID           uuid.UUID `json:"id"`
	DealID       uuid.UUID `json:"deal_id"`
	Platform     string    `json:"platform"`
	ConversionID string    `json:"conversion_id"`
	Value        float64   `json:"value"`
	UploadedAt   time.Time `json:"uploaded_at"`
	CreatedAt    time.Time `json:"created_at"`
}
