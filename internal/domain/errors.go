package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches AppErrors by code, so sentinels compare equal to the
// copies WithError produces.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func (e *AppError) WithMessage(msg string) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    msg,
		StatusCode: e.StatusCode,
		Err:        e.Err,
	}
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Invalid or missing API key",
		StatusCode: 401,
	}

	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "Access denied",
		StatusCode: 403,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	// Auth errors (inbound ingestion)
	ErrInvalidToken = &AppError{
		Code:       "INVALID_TOKEN",
		Message:    "Unknown webhook token",
		StatusCode: 401,
	}

	ErrInvalidSignature = &AppError{
		Code:       "INVALID_SIGNATURE",
		Message:    "Payload signature verification failed",
		StatusCode: 401,
	}

	ErrIPNotAllowed = &AppError{
		Code:       "IP_NOT_ALLOWED",
		Message:    "Source IP is not on the allow-list",
		StatusCode: 403,
	}

	// Config errors
	ErrWebhookNotFound = &AppError{
		Code:       "WEBHOOK_NOT_FOUND",
		Message:    "Webhook not found",
		StatusCode: 404,
	}

	ErrWebhookInactive = &AppError{
		Code:       "WEBHOOK_INACTIVE",
		Message:    "Webhook is deactivated",
		StatusCode: 403,
	}

	// Validation / mapping errors
	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	ErrInvalidPayload = &AppError{
		Code:       "INVALID_PAYLOAD",
		Message:    "Payload is not valid JSON",
		StatusCode: 400,
	}

	ErrMappingFailed = &AppError{
		Code:       "MAPPING_FAILED",
		Message:    "Field mapping produced no usable lead fields",
		StatusCode: 422,
	}

	// A delivery lineage for this (webhook, event) pair is already in flight
	ErrDeliveryInFlight = &AppError{
		Code:       "DELIVERY_IN_FLIGHT",
		Message:    "A delivery for this event is already in progress",
		StatusCode: 409,
	}

	// Dedup hit: soft rejection so senders back off instead of retrying hard
	ErrDuplicateLead = &AppError{
		Code:       "DUPLICATE_LEAD",
		Message:    "A deal for this lead was already created recently",
		StatusCode: 429,
	}

	ErrDealNotFound = &AppError{
		Code:       "DEAL_NOT_FOUND",
		Message:    "Deal not found",
		StatusCode: 404,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Rate limit exceeded, please try again later",
		StatusCode: 429,
	}
)
