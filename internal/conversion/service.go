package conversion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/diegomanaglia/simply-crm/internal/domain"
	"github.com/diegomanaglia/simply-crm/internal/repository"
)

// Uploader sends a won deal to an external ad platform and returns the
// platform's conversion identifier.
type Uploader interface {
	Upload(ctx context.Context, deal *domain.Deal) (platform, conversionID string, err error)
}

// Service records offline conversions, at most once per deal. A repeat
// request returns the stored conversion without touching the platform.
type Service struct {
	conversions repository.ConversionRepositoryInterface
	deals       repository.DealRepositoryInterface
	uploader    Uploader
	logger      *slog.Logger
}

func NewService(
	conversions repository.ConversionRepositoryInterface,
	deals repository.DealRepositoryInterface,
	uploader Uploader,
	logger *slog.Logger,
) *Service {
	return &Service{
		conversions: conversions,
		deals:       deals,
		uploader:    uploader,
		logger:      logger,
	}
}

func (s *Service) Record(ctx context.Context, dealID uuid.UUID) (*domain.Conversion, error) {
	existing, err := s.conversions.GetByDealID(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("lookup conversion: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	deal, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	platform, conversionID, err := s.uploader.Upload(ctx, deal)
	if err != nil {
		return nil, fmt.Errorf("upload conversion: %w", err)
	}

	c := &domain.Conversion{
		DealID:       dealID,
		Platform:     platform,
		ConversionID: conversionID,
		Value:        deal.Value,
		UploadedAt:   time.Now().UTC(),
	}

	if err := s.conversions.Create(ctx, c); err != nil {
		// Lost a race with a concurrent upload for the same deal.
		if stored, lookupErr := s.conversions.GetByDealID(ctx, dealID); lookupErr == nil && stored != nil {
			return stored, nil
		}
		return nil, err
	}

	s.logger.Info("offline conversion recorded",
		"deal_id", dealID,
		"platform", platform,
		"conversion_id", conversionID,
	)

	return c, nil
}
