package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// EmptyResponse represents no content response (204)
type EmptyResponse struct{}

// IngestResponse represents the outcome of one inbound request
type IngestResponse struct {
	Success bool   `json:"success" example:"true"`
	DealID  string `json:"deal_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Error   string `json:"error,omitempty"`
}

// WebhookData represents an outbound webhook subscription
type WebhookData struct {
	ID                  string            `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name                string            `json:"name" example:"CRM sync"`
	URL                 string            `json:"url" example:"https://example.com/hooks/crm"`
	Method              string            `json:"method" example:"POST"`
	Headers             map[string]string `json:"headers,omitempty"`
	Events              []string          `json:"events" example:"deal_won,deal_lost"`
	IsActive            bool              `json:"is_active" example:"true"`
	RetryEnabled        bool              `json:"retry_enabled" example:"true"`
	MaxRetries          int               `json:"max_retries" example:"3"`
	ConsecutiveFailures int               `json:"consecutive_failures" example:"0"`
	CreatedAt           string            `json:"created_at" example:"2026-01-01T00:00:00Z"`
	UpdatedAt           string            `json:"updated_at" example:"2026-01-01T00:00:00Z"`
}

// CreateWebhookResponse wraps a created webhook and its one-time secret
type CreateWebhookResponse struct {
	Webhook WebhookData `json:"webhook"`
	Secret  string      `json:"secret" example:"a1b2c3..."`
}

// WebhookResponse wraps a single webhook
type WebhookResponse struct {
	Webhook WebhookData `json:"webhook"`
}

// ListWebhooksResponse wraps the webhook list
type ListWebhooksResponse struct {
	Webhooks []WebhookData `json:"webhooks"`
}

// SetActiveResponse confirms an activation toggle
type SetActiveResponse struct {
	ID       string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	IsActive bool   `json:"is_active" example:"true"`
}

// TestWebhookResponse confirms an accepted test delivery
type TestWebhookResponse struct {
	EventID string `json:"event_id" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// FieldMappingData maps one payload path to a deal field
type FieldMappingData struct {
	Source    string `json:"source" example:"lead.contact.email"`
	Target    string `json:"target" example:"email"`
	Transform string `json:"transform,omitempty" example:"lowercase"`
}

// InboundWebhookData represents an inbound ingestion endpoint
type InboundWebhookData struct {
	ID                 string             `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name               string             `json:"name" example:"Landing page"`
	PipelineID         string             `json:"pipeline_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	PhaseID            string             `json:"phase_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	FieldMappings      []FieldMappingData `json:"field_mappings"`
	DefaultTags        []string           `json:"default_tags,omitempty" example:"landing,ads"`
	DefaultTemperature string             `json:"default_temperature" example:"warm"`
	IsActive           bool               `json:"is_active" example:"true"`
	RequestsToday      int                `json:"requests_today" example:"42"`
	CreatedAt          string             `json:"created_at" example:"2026-01-01T00:00:00Z"`
	UpdatedAt          string             `json:"updated_at" example:"2026-01-01T00:00:00Z"`
}

// CreateInboundWebhookResponse wraps a created inbound webhook and its
// one-time endpoint token
type CreateInboundWebhookResponse struct {
	InboundWebhook InboundWebhookData `json:"inbound_webhook"`
	Token          string             `json:"token" example:"f4a1..."`
}

// InboundWebhookResponse wraps a single inbound webhook
type InboundWebhookResponse struct {
	InboundWebhook InboundWebhookData `json:"inbound_webhook"`
}

// ListInboundWebhooksResponse wraps the inbound webhook list
type ListInboundWebhooksResponse struct {
	InboundWebhooks []InboundWebhookData `json:"inbound_webhooks"`
}

// DeliveryLogData represents one outbound delivery attempt
type DeliveryLogData struct {
	ID             string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	WebhookID      string `json:"webhook_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	EventID        string `json:"event_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	EventType      string `json:"event_type" example:"deal_won"`
	Attempt        int    `json:"attempt" example:"1"`
	Status         string `json:"status" example:"success"`
	ResponseStatus int    `json:"response_status,omitempty" example:"200"`
	LatencyMs      int64  `json:"latency_ms,omitempty" example:"120"`
	ErrorMessage   string `json:"error_message,omitempty"`
	CreatedAt      string `json:"created_at" example:"2026-01-01T00:00:00Z"`
}

// ListDeliveryLogsResponse wraps the delivery log list
type ListDeliveryLogsResponse struct {
	Logs []DeliveryLogData `json:"logs"`
}

// InboundLogData represents one inbound request record
type InboundLogData struct {
	ID               string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	InboundWebhookID string `json:"inbound_webhook_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	SourceIP         string `json:"source_ip" example:"203.0.113.7"`
	DealID           string `json:"deal_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Status           string `json:"status" example:"success"`
	ErrorMessage     string `json:"error_message,omitempty"`
	CreatedAt        string `json:"created_at" example:"2026-01-01T00:00:00Z"`
}

// ListInboundLogsResponse wraps the inbound log list
type ListInboundLogsResponse struct {
	Logs []InboundLogData `json:"logs"`
}

// DeliveryStatsData summarizes delivery outcomes for one webhook
type DeliveryStatsData struct {
	WebhookID      string  `json:"webhook_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Total          int64   `json:"total" example:"150"`
	Succeeded      int64   `json:"succeeded" example:"140"`
	Failed         int64   `json:"failed" example:"8"`
	InFlight       int64   `json:"in_flight" example:"2"`
	AvgLatencyMs   float64 `json:"avg_latency_ms,omitempty" example:"95.5"`
	LastDeliveryAt string  `json:"last_delivery_at,omitempty" example:"2026-01-01T00:00:00Z"`
}

// DeliveryStatsResponse wraps delivery statistics
type DeliveryStatsResponse struct {
	Since string              `json:"since" example:"2026-01-01T00:00:00Z"`
	Stats []DeliveryStatsData `json:"stats"`
}

// InboundStatsData summarizes inbound outcomes for one endpoint
type InboundStatsData struct {
	InboundWebhookID string `json:"inbound_webhook_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Total            int64  `json:"total" example:"300"`
	Succeeded        int64  `json:"succeeded" example:"280"`
	Failed           int64  `json:"failed" example:"5"`
	Rejected         int64  `json:"rejected" example:"15"`
	LastRequestAt    string `json:"last_request_at,omitempty" example:"2026-01-01T00:00:00Z"`
}

// InboundStatsResponse wraps inbound statistics
type InboundStatsResponse struct {
	Since string             `json:"since" example:"2026-01-01T00:00:00Z"`
	Stats []InboundStatsData `json:"stats"`
}

// ConversionData represents an uploaded offline conversion
type ConversionData struct {
	ID           string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	DealID       string  `json:"deal_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Platform     string  `json:"platform" example:"google_ads"`
	ConversionID string  `json:"conversion_id" example:"conv-123"`
	Value        float64 `json:"value" example:"2500"`
	UploadedAt   string  `json:"uploaded_at" example:"2026-01-01T00:00:00Z"`
}

// ConversionResponse wraps a recorded conversion
type ConversionResponse struct {
	Conversion ConversionData `json:"conversion"`
}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "SimplyCRM Webhooks API",
		Version:     "v1.0.0",
		Description: "Webhook dispatch and ingestion engine: outbound HMAC-signed event deliveries with retries, inbound lead capture with field mapping, and delivery history",
		Host:        "localhost:3000",
		Path:        "/",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /hooks/{token} - Public inbound ingestion
		endpoint.New(
			endpoint.POST,
			"/hooks/{token}",
			endpoint.WithTags("Ingestion"),
			endpoint.WithSummary("Receive a third-party payload"),
			endpoint.WithDescription("Accepts a JSON payload on a per-webhook endpoint, maps it to a deal and creates it. Payload and mapping failures are answered 200 with success=false; they are recorded in the inbound log."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("token", parameter.Path, parameter.WithDescription("Endpoint secret token")),
				parameter.StrParam("X-Signature", parameter.Header, parameter.WithDescription("HMAC-SHA256 body signature, sha256=<hex> (required when the endpoint has an HMAC secret)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(IngestResponse{}, "200", "Request processed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_TOKEN", Message: "Unknown webhook token"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "INVALID_SIGNATURE", Message: "Payload signature verification failed"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "IP_NOT_ALLOWED", Message: "Source IP is not on the allow-list"}, "403", "Forbidden"),
				response.New(ErrorResponse{Code: "WEBHOOK_INACTIVE", Message: "Webhook is deactivated"}, "403", "Forbidden"),
				response.New(ErrorResponse{Code: "DUPLICATE_LEAD", Message: "A deal for this lead was already created recently"}, "429", "Too Many Requests"),
				response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded"}, "429", "Too Many Requests"),
			}),
		),

		// GET /v1/webhooks - List webhooks
		endpoint.New(
			endpoint.GET,
			"/v1/webhooks",
			endpoint.WithTags("Webhooks"),
			endpoint.WithSummary("List outbound webhooks"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ListWebhooksResponse{}, "200", "Webhooks retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// POST /v1/webhooks - Create webhook
		endpoint.New(
			endpoint.POST,
			"/v1/webhooks",
			endpoint.WithTags("Webhooks"),
			endpoint.WithSummary("Create an outbound webhook"),
			endpoint.WithDescription("Creates a webhook subscription. The signing secret is generated server-side and returned only in this response."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CreateWebhookResponse{}, "201", "Webhook created successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_PAYLOAD", Message: "Payload is not valid JSON"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /v1/webhooks/{id} - Get webhook
		endpoint.New(
			endpoint.GET,
			"/v1/webhooks/{id}",
			endpoint.WithTags("Webhooks"),
			endpoint.WithSummary("Get a webhook"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Webhook UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(WebhookResponse{}, "200", "Webhook retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "WEBHOOK_NOT_FOUND", Message: "Webhook not found"}, "404", "Not Found"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// PUT /v1/webhooks/{id} - Update webhook
		endpoint.New(
			endpoint.PUT,
			"/v1/webhooks/{id}",
			endpoint.WithTags("Webhooks"),
			endpoint.WithSummary("Update a webhook"),
			endpoint.WithDescription("Partially updates a webhook; omitted fields keep their current values. The secret cannot be changed."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Webhook UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(WebhookResponse{}, "200", "Webhook updated successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "WEBHOOK_NOT_FOUND", Message: "Webhook not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// DELETE /v1/webhooks/{id} - Delete webhook
		endpoint.New(
			endpoint.DELETE,
			"/v1/webhooks/{id}",
			endpoint.WithTags("Webhooks"),
			endpoint.WithSummary("Delete a webhook"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Webhook UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Webhook deleted successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "WEBHOOK_NOT_FOUND", Message: "Webhook not found"}, "404", "Not Found"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// POST /v1/webhooks/{id}/activate - Activate webhook
		endpoint.New(
			endpoint.POST,
			"/v1/webhooks/{id}/activate",
			endpoint.WithTags("Webhooks"),
			endpoint.WithSummary("Re-enable a webhook"),
			endpoint.WithDescription("Re-enables delivery and resets the consecutive failure count, including webhooks auto-disabled after repeated failures."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Webhook UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SetActiveResponse{}, "200", "Webhook activated"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "WEBHOOK_NOT_FOUND", Message: "Webhook not found"}, "404", "Not Found"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// POST /v1/webhooks/{id}/deactivate - Deactivate webhook
		endpoint.New(
			endpoint.POST,
			"/v1/webhooks/{id}/deactivate",
			endpoint.WithTags("Webhooks"),
			endpoint.WithSummary("Disable a webhook"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Webhook UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SetActiveResponse{IsActive: false}, "200", "Webhook deactivated"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "WEBHOOK_NOT_FOUND", Message: "Webhook not found"}, "404", "Not Found"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// POST /v1/webhooks/{id}/test - Test delivery
		endpoint.New(
			endpoint.POST,
			"/v1/webhooks/{id}/test",
			endpoint.WithTags("Webhooks"),
			endpoint.WithSummary("Fire a test delivery"),
			endpoint.WithDescription("Sends a synthetic event to the webhook so the endpoint and secret can be verified. The delivery runs asynchronously and is recorded in the delivery log."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Webhook UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(TestWebhookResponse{}, "202", "Test delivery accepted"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "WEBHOOK_NOT_FOUND", Message: "Webhook not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Unknown event type"}, "422", "Unprocessable Entity"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /v1/inbound-webhooks - List inbound webhooks
		endpoint.New(
			endpoint.GET,
			"/v1/inbound-webhooks",
			endpoint.WithTags("Inbound Webhooks"),
			endpoint.WithSummary("List inbound webhooks"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ListInboundWebhooksResponse{}, "200", "Inbound webhooks retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// POST /v1/inbound-webhooks - Create inbound webhook
		endpoint.New(
			endpoint.POST,
			"/v1/inbound-webhooks",
			endpoint.WithTags("Inbound Webhooks"),
			endpoint.WithSummary("Create an inbound webhook"),
			endpoint.WithDescription("Creates an ingestion endpoint. The endpoint token is generated server-side and returned only in this response."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CreateInboundWebhookResponse{}, "201", "Inbound webhook created successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_PAYLOAD", Message: "Payload is not valid JSON"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /v1/inbound-webhooks/{id} - Get inbound webhook
		endpoint.New(
			endpoint.GET,
			"/v1/inbound-webhooks/{id}",
			endpoint.WithTags("Inbound Webhooks"),
			endpoint.WithSummary("Get an inbound webhook"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Inbound webhook UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(InboundWebhookResponse{}, "200", "Inbound webhook retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "WEBHOOK_NOT_FOUND", Message: "Webhook not found"}, "404", "Not Found"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// PUT /v1/inbound-webhooks/{id} - Update inbound webhook
		endpoint.New(
			endpoint.PUT,
			"/v1/inbound-webhooks/{id}",
			endpoint.WithTags("Inbound Webhooks"),
			endpoint.WithSummary("Update an inbound webhook"),
			endpoint.WithDescription("Partially updates an inbound webhook; omitted fields keep their current values. The endpoint token cannot be changed."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Inbound webhook UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(InboundWebhookResponse{}, "200", "Inbound webhook updated successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "WEBHOOK_NOT_FOUND", Message: "Webhook not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// DELETE /v1/inbound-webhooks/{id} - Delete inbound webhook
		endpoint.New(
			endpoint.DELETE,
			"/v1/inbound-webhooks/{id}",
			endpoint.WithTags("Inbound Webhooks"),
			endpoint.WithSummary("Delete an inbound webhook"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Inbound webhook UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Inbound webhook deleted successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "WEBHOOK_NOT_FOUND", Message: "Webhook not found"}, "404", "Not Found"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /v1/logs/deliveries - Delivery history
		endpoint.New(
			endpoint.GET,
			"/v1/logs/deliveries",
			endpoint.WithTags("Logs"),
			endpoint.WithSummary("List delivery attempts"),
			endpoint.WithDescription("Returns outbound delivery attempts, newest first. One row per attempt."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("webhook_id", parameter.Query, parameter.WithDescription("Filter by webhook UUID")),
				parameter.StrParam("status", parameter.Query, parameter.WithDescription("Filter by status: pending, retrying, success, failed")),
				parameter.StrParam("from", parameter.Query, parameter.WithDescription("Oldest timestamp to include (RFC3339)")),
				parameter.StrParam("to", parameter.Query, parameter.WithDescription("Newest timestamp to include (RFC3339)")),
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Page size (default: 50, max: 200)")),
				parameter.IntParam("offset", parameter.Query, parameter.WithDescription("Page offset (default: 0)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ListDeliveryLogsResponse{}, "200", "Logs retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid filter"}, "422", "Unprocessable Entity"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /v1/logs/inbound - Inbound request history
		endpoint.New(
			endpoint.GET,
			"/v1/logs/inbound",
			endpoint.WithTags("Logs"),
			endpoint.WithSummary("List inbound requests"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("inbound_webhook_id", parameter.Query, parameter.WithDescription("Filter by inbound webhook UUID")),
				parameter.StrParam("status", parameter.Query, parameter.WithDescription("Filter by status: success, failed, rejected")),
				parameter.StrParam("from", parameter.Query, parameter.WithDescription("Oldest timestamp to include (RFC3339)")),
				parameter.StrParam("to", parameter.Query, parameter.WithDescription("Newest timestamp to include (RFC3339)")),
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Page size (default: 50, max: 200)")),
				parameter.IntParam("offset", parameter.Query, parameter.WithDescription("Page offset (default: 0)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ListInboundLogsResponse{}, "200", "Logs retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid filter"}, "422", "Unprocessable Entity"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /v1/stats/deliveries - Delivery statistics
		endpoint.New(
			endpoint.GET,
			"/v1/stats/deliveries",
			endpoint.WithTags("Stats"),
			endpoint.WithSummary("Get delivery statistics"),
			endpoint.WithDescription("Aggregates delivery outcomes per webhook over a rolling window (default 24h)."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("webhook_id", parameter.Query, parameter.WithDescription("Restrict to one webhook UUID")),
				parameter.StrParam("window", parameter.Query, parameter.WithDescription("Window size as a Go duration, e.g. 72h (default: 24h)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(DeliveryStatsResponse{}, "200", "Stats retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid window"}, "422", "Unprocessable Entity"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /v1/stats/inbound - Inbound statistics
		endpoint.New(
			endpoint.GET,
			"/v1/stats/inbound",
			endpoint.WithTags("Stats"),
			endpoint.WithSummary("Get inbound statistics"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("window", parameter.Query, parameter.WithDescription("Window size as a Go duration, e.g. 72h (default: 24h)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(InboundStatsResponse{}, "200", "Stats retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// POST /v1/conversions - Record offline conversion
		endpoint.New(
			endpoint.POST,
			"/v1/conversions",
			endpoint.WithTags("Conversions"),
			endpoint.WithSummary("Upload a won deal as an offline conversion"),
			endpoint.WithDescription("Uploads the deal to the configured ads platform, at most once per deal. Repeated calls return the stored conversion. Available only when an upload endpoint is configured."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ConversionResponse{}, "201", "Conversion recorded"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "DEAL_NOT_FOUND", Message: "Deal not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "deal_id is required"}, "422", "Unprocessable Entity"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
