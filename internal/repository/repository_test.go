package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diegomanaglia/simply-crm/internal/domain"
)

// WebhookRepository Tests

func TestWebhookRepository_RecordFailure(t *testing.T) {
	webhookID := uuid.New()

	tests := []struct {
		name         string
		mockSetup    func(mock pgxmock.PgxPoolIface)
		wantFailures int
		wantActive   bool
		wantErr      error
	}{
		{
			name: "failure below ceiling keeps webhook active",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"consecutive_failures", "is_active"}).
					AddRow(3, true)
				mock.ExpectQuery(`UPDATE webhooks SET consecutive_failures = consecutive_failures \+ 1`).
					WithArgs(webhookID, "HTTP 500", 10).
					WillReturnRows(rows)
			},
			wantFailures: 3,
			wantActive:   true,
		},
		{
			name: "failure at ceiling deactivates webhook",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"consecutive_failures", "is_active"}).
					AddRow(10, false)
				mock.ExpectQuery(`UPDATE webhooks SET consecutive_failures = consecutive_failures \+ 1`).
					WithArgs(webhookID, "HTTP 500", 10).
					WillReturnRows(rows)
			},
			wantFailures: 10,
			wantActive:   false,
		},
		{
			name: "webhook not found",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`UPDATE webhooks SET consecutive_failures = consecutive_failures \+ 1`).
					WithArgs(webhookID, "HTTP 500", 10).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrWebhookNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewWebhookRepository(mock)
			failures, active, err := repo.RecordFailure(context.Background(), webhookID, "HTTP 500", 10)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantFailures, failures)
			assert.Equal(t, tt.wantActive, active)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWebhookRepository_RecordAttemptError(t *testing.T) {
	webhookID := uuid.New()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// stamps the error without touching consecutive_failures
	mock.ExpectExec(`UPDATE webhooks SET last_error = \$2`).
		WithArgs(webhookID, "HTTP 500").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewWebhookRepository(mock)
	require.NoError(t, repo.RecordAttemptError(context.Background(), webhookID, "HTTP 500"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookRepository_RecordSuccess(t *testing.T) {
	webhookID := uuid.New()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`UPDATE webhooks SET consecutive_failures = 0`).
		WithArgs(webhookID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewWebhookRepository(mock)
	require.NoError(t, repo.RecordSuccess(context.Background(), webhookID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookRepository_ListActiveByEvent(t *testing.T) {
	now := time.Now()
	webhookID := uuid.New()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{
		"id", "name", "url", "method", "headers", "events", "secret_key",
		"is_active", "allowed_ips", "retry_enabled", "max_retries",
		"consecutive_failures", "last_triggered_at", "last_success_at",
		"last_error", "created_at", "updated_at",
	}).AddRow(
		webhookID, "CRM Sync", "https://example.com/hook", domain.MethodPost,
		[]byte(`{"X-Custom":"1"}`), []byte(`["deal_won"]`), "s3cret",
		true, []byte(`[]`), true, 3, 0, nil, nil, "", now, now,
	)

	mock.ExpectQuery(`FROM webhooks WHERE is_active = true AND events @> \$1::jsonb`).
		WithArgs([]byte(`["deal_won"]`)).
		WillReturnRows(rows)

	repo := NewWebhookRepository(mock)
	webhooks, err := repo.ListActiveByEvent(context.Background(), domain.EventDealWon)

	require.NoError(t, err)
	require.Len(t, webhooks, 1)
	assert.Equal(t, "CRM Sync", webhooks[0].Name)
	assert.Equal(t, map[string]string{"X-Custom": "1"}, webhooks[0].Headers)
	assert.Equal(t, []domain.EventType{domain.EventDealWon}, webhooks[0].Events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookRepository_SetActive_NotFound(t *testing.T) {
	webhookID := uuid.New()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`UPDATE webhooks SET is_active = \$2`).
		WithArgs(webhookID, true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewWebhookRepository(mock)
	err = repo.SetActive(context.Background(), webhookID, true)
	assert.ErrorIs(t, err, domain.ErrWebhookNotFound)
}

// WebhookLogRepository Tests

func TestWebhookLogRepository_Create_Defaults(t *testing.T) {
	webhookID := uuid.New()
	eventID := uuid.New()
	now := time.Now()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO webhook_logs`).
		WithArgs(pgxmock.AnyArg(), webhookID, eventID, domain.EventDealWon,
			json.RawMessage(`{"event":"deal_won"}`), 1, domain.DeliveryPending).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	repo := NewWebhookLogRepository(mock)
	log := &domain.WebhookLog{
		WebhookID: webhookID,
		EventID:   eventID,
		EventType: domain.EventDealWon,
		Payload:   []byte(`{"event":"deal_won"}`),
	}

	require.NoError(t, repo.Create(context.Background(), log))
	assert.NotEqual(t, uuid.Nil, log.ID)
	assert.Equal(t, 1, log.Attempt)
	assert.Equal(t, domain.DeliveryPending, log.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookLogRepository_Create_InFlightConflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO webhook_logs`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{
			Code:           "23505",
			ConstraintName: "idx_webhook_logs_inflight",
		})

	repo := NewWebhookLogRepository(mock)
	log := &domain.WebhookLog{
		WebhookID: uuid.New(),
		EventID:   uuid.New(),
		EventType: domain.EventDealWon,
		Payload:   []byte(`{}`),
	}

	err = repo.Create(context.Background(), log)
	assert.ErrorIs(t, err, domain.ErrDeliveryInFlight)
}

func TestWebhookLogRepository_MarkFailed_TerminalGuard(t *testing.T) {
	logID := uuid.New()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// row already terminal, guarded update touches nothing
	mock.ExpectExec(`UPDATE webhook_logs SET status = 'failed'`).
		WithArgs(logID, nil, "", "timeout", int64(1000)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewWebhookLogRepository(mock)
	err = repo.MarkFailed(context.Background(), logID, nil, "", "timeout", 1000)
	assert.Error(t, err)
}

func TestWebhookLogRepository_HasInFlight(t *testing.T) {
	webhookID := uuid.New()
	eventID := uuid.New()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(webhookID, eventID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	repo := NewWebhookLogRepository(mock)
	inFlight, err := repo.HasInFlight(context.Background(), webhookID, eventID)

	require.NoError(t, err)
	assert.True(t, inFlight)
}

// InboundWebhookRepository Tests

func TestInboundWebhookRepository_GetByToken_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM inbound_webhooks WHERE secret_token = \$1`).
		WithArgs("tok_missing").
		WillReturnError(pgx.ErrNoRows)

	repo := NewInboundWebhookRepository(mock)
	_, err = repo.GetByToken(context.Background(), "tok_missing")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestInboundWebhookRepository_GetByToken(t *testing.T) {
	now := time.Now()
	id := uuid.New()
	pipelineID := uuid.New()
	phaseID := uuid.New()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{
		"id", "name", "pipeline_id", "phase_id", "secret_token", "hmac_secret",
		"field_mappings", "default_tags", "default_temperature", "is_active",
		"allowed_ips", "requests_today", "last_request_at", "created_at", "updated_at",
	}).AddRow(
		id, "FB Leads", pipelineID, phaseID, "tok_abc", "",
		[]byte(`[{"source":"email","target":"email"}]`), []byte(`["facebook"]`),
		domain.TemperatureHot, true, []byte(`[]`), 5, &now, now, now,
	)

	mock.ExpectQuery(`FROM inbound_webhooks WHERE secret_token = \$1`).
		WithArgs("tok_abc").
		WillReturnRows(rows)

	repo := NewInboundWebhookRepository(mock)
	iw, err := repo.GetByToken(context.Background(), "tok_abc")

	require.NoError(t, err)
	assert.Equal(t, "FB Leads", iw.Name)
	require.Len(t, iw.FieldMappings, 1)
	assert.Equal(t, domain.TargetEmail, iw.FieldMappings[0].Target)
	assert.Equal(t, []string{"facebook"}, iw.DefaultTags)
	assert.Equal(t, 5, iw.RequestsToday)
}

func TestInboundWebhookRepository_RecordRequest(t *testing.T) {
	id := uuid.New()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`UPDATE inbound_webhooks SET requests_today = CASE`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewInboundWebhookRepository(mock)
	require.NoError(t, repo.RecordRequest(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// DealRepository Tests

func TestDealRepository_FindRecentLead_NoMatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	since := time.Now().Add(-24 * time.Hour)
	inboundID := uuid.New()

	mock.ExpectQuery(`FROM deals`).
		WithArgs(inboundID, since, "a@b.com", "").
		WillReturnError(pgx.ErrNoRows)

	repo := NewDealRepository(mock)
	deal, err := repo.FindRecentLead(context.Background(), inboundID, "a@b.com", "", since)

	require.NoError(t, err)
	assert.Nil(t, deal)
}

func TestDealRepository_Create(t *testing.T) {
	now := time.Now()
	pipelineID := uuid.New()
	phaseID := uuid.New()
	sourceID := uuid.New()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO deals`).
		WithArgs(pgxmock.AnyArg(), pipelineID, phaseID, "Ana", "a@b.com",
			"+5511999999999", "", float64(0), "", []byte(`["facebook"]`),
			domain.TemperatureWarm, &sourceID).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	repo := NewDealRepository(mock)
	deal := &domain.Deal{
		PipelineID:      pipelineID,
		PhaseID:         phaseID,
		ContactName:     "Ana",
		Email:           "a@b.com",
		Phone:           "+5511999999999",
		Tags:            []string{"facebook"},
		SourceWebhookID: &sourceID,
	}

	require.NoError(t, repo.Create(context.Background(), deal))
	assert.NotEqual(t, uuid.Nil, deal.ID)
	assert.Equal(t, domain.TemperatureWarm, deal.Temperature)
}

// ConversionRepository Tests

func TestConversionRepository_GetByDealID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	dealID := uuid.New()
	mock.ExpectQuery(`FROM conversions WHERE deal_id = \$1`).
		WithArgs(dealID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "deal_id", "platform", "conversion_id", "value", "uploaded_at", "created_at"}))

	repo := NewConversionRepository(mock)
	c, err := repo.GetByDealID(context.Background(), dealID)

	require.NoError(t, err)
	assert.Nil(t, c)
}
