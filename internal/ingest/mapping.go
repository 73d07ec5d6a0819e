package ingest

import (
	"strings"

	"github.com/diegomanaglia/simply-crm/internal/domain"
)

// ApplyTransform normalizes a mapped string value
func ApplyTransform(value string, t domain.Transform) string {
	switch t {
	case domain.TransformUppercase:
		return strings.ToUpper(value)
	case domain.TransformLowercase:
		return strings.ToLower(value)
	case domain.TransformTrim:
		return strings.TrimSpace(value)
	case domain.TransformFormatPhone:
		return FormatPhone(value)
	default:
		return value
	}
}

// FormatPhone normalizes a Brazilian phone number to the canonical
// +55DDDNNNNNNNNN form. Bare local numbers (10 or 11 digits) gain the
// country code; numbers already carrying 55 or an explicit + keep it.
func FormatPhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if digits == "" {
		return ""
	}

	if strings.HasPrefix(strings.TrimSpace(raw), "+") {
		return "+" + digits
	}

	switch {
	case len(digits) == 10 || len(digits) == 11:
		return "+55" + digits
	case strings.HasPrefix(digits, "55") && (len(digits) == 12 || len(digits) == 13):
		return "+" + digits
	default:
		return "+" + digits
	}
}

// MapDeal builds a deal from an inbound payload using the webhook's field
// mappings and defaults. The second return value is the post-transform view
// of the payload, keyed by target field, kept for the request log.
func MapDeal(payload domain.Payload, iw *domain.InboundWebhook) (*domain.Deal, map[string]interface{}) {
	deal := &domain.Deal{
		PipelineID:      iw.PipelineID,
		PhaseID:         iw.PhaseID,
		Tags:            iw.DefaultTags,
		Temperature:     iw.DefaultTemperature,
		SourceWebhookID: &iw.ID,
	}

	mapped := make(map[string]interface{}, len(iw.FieldMappings))

	for _, fm := range iw.FieldMappings {
		if fm.Target == domain.TargetValue {
			v, ok := payload.LookupFloat(fm.Source)
			if !ok {
				continue
			}
			deal.Value = v
			mapped[string(fm.Target)] = v
			continue
		}

		v, ok := payload.LookupString(fm.Source)
		if !ok {
			continue
		}
		v = ApplyTransform(v, fm.Transform)

		switch fm.Target {
		case domain.TargetContactName:
			deal.ContactName = v
		case domain.TargetEmail:
			deal.Email = v
		case domain.TargetPhone:
			deal.Phone = v
		case domain.TargetNotes:
			deal.Notes = v
		case domain.TargetCompany:
			deal.Company = v
		default:
			continue
		}
		mapped[string(fm.Target)] = v
	}

	return deal, mapped
}
