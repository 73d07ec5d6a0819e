package conversion

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/diegomanaglia/simply-crm/internal/domain"
)

type MockConversionRepository struct {
	mock.Mock
}

func (m *MockConversionRepository) GetByDealID(ctx context.Context, dealID uuid.UUID) (*domain.Conversion, error) {
	args := m.Called(ctx, dealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversion), args.Error(1)
}

func (m *MockConversionRepository) Create(ctx context.Context, c *domain.Conversion) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type MockDealRepository struct {
	mock.Mock
}

func (m *MockDealRepository) Create(ctx context.Context, deal *domain.Deal) error {
	args := m.Called(ctx, deal)
	return args.Error(0)
}

func (m *MockDealRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deal), args.Error(1)
}

func (m *MockDealRepository) FindRecentLead(ctx context.Context, inboundWebhookID uuid.UUID, email, phone string, since time.Time) (*domain.Deal, error) {
	args := m.Called(ctx, inboundWebhookID, email, phone, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deal), args.Error(1)
}

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, deal *domain.Deal) (string, string, error) {
	args := m.Called(ctx, deal)
	return args.String(0), args.String(1), args.Error(2)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestService_Record_UploadsOnce(t *testing.T) {
	dealID := uuid.New()
	deal := &domain.Deal{ID: dealID, ContactName: "Ana", Value: 1500}

	conversions := new(MockConversionRepository)
	deals := new(MockDealRepository)
	uploader := new(MockUploader)

	conversions.On("GetByDealID", mock.Anything, dealID).Return(nil, nil)
	deals.On("GetByID", mock.Anything, dealID).Return(deal, nil)
	uploader.On("Upload", mock.Anything, deal).Return("facebook", "conv_123", nil)
	conversions.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Conversion) bool {
		return c.DealID == dealID && c.Platform == "facebook" && c.Value == 1500
	})).Return(nil)

	svc := NewService(conversions, deals, uploader, testLogger())
	c, err := svc.Record(context.Background(), dealID)

	require.NoError(t, err)
	assert.Equal(t, "conv_123", c.ConversionID)
	uploader.AssertNumberOfCalls(t, "Upload", 1)
}

func TestService_Record_IdempotentByDeal(t *testing.T) {
	dealID := uuid.New()
	stored := &domain.Conversion{
		ID:           uuid.New(),
		DealID:       dealID,
		Platform:     "facebook",
		ConversionID: "conv_123",
	}

	conversions := new(MockConversionRepository)
	deals := new(MockDealRepository)
	uploader := new(MockUploader)

	conversions.On("GetByDealID", mock.Anything, dealID).Return(stored, nil)

	svc := NewService(conversions, deals, uploader, testLogger())
	c, err := svc.Record(context.Background(), dealID)

	require.NoError(t, err)
	assert.Equal(t, stored, c)
	uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestService_Record_DealNotFound(t *testing.T) {
	dealID := uuid.New()

	conversions := new(MockConversionRepository)
	deals := new(MockDealRepository)
	uploader := new(MockUploader)

	conversions.On("GetByDealID", mock.Anything, dealID).Return(nil, nil)
	deals.On("GetByID", mock.Anything, dealID).Return(nil, domain.ErrDealNotFound)

	svc := NewService(conversions, deals, uploader, testLogger())
	_, err := svc.Record(context.Background(), dealID)

	assert.ErrorIs(t, err, domain.ErrDealNotFound)
	uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestService_Record_LosesCreateRace(t *testing.T) {
	dealID := uuid.New()
	deal := &domain.Deal{ID: dealID, Value: 200}
	stored := &domain.Conversion{ID: uuid.New(), DealID: dealID, ConversionID: "conv_other"}

	conversions := new(MockConversionRepository)
	deals := new(MockDealRepository)
	uploader := new(MockUploader)

	conversions.On("GetByDealID", mock.Anything, dealID).Return(nil, nil).Once()
	deals.On("GetByID", mock.Anything, dealID).Return(deal, nil)
	uploader.On("Upload", mock.Anything, deal).Return("google", "conv_mine", nil)
	conversions.On("Create", mock.Anything, mock.Anything).
		Return(&domain.AppError{Code: "CONVERSION_EXISTS", StatusCode: 409})
	conversions.On("GetByDealID", mock.Anything, dealID).Return(stored, nil).Once()

	svc := NewService(conversions, deals, uploader, testLogger())
	c, err := svc.Record(context.Background(), dealID)

	require.NoError(t, err)
	assert.Equal(t, "conv_other", c.ConversionID)
}
