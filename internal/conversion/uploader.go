package conversion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/diegomanaglia/simply-crm/internal/domain"
)

// HTTPUploader posts won deals to an ad-platform bridge endpoint. The
// bridge answers with the platform name and its conversion identifier.
type HTTPUploader struct {
	url    string
	client *http.Client
}

func NewHTTPUploader(url string, timeout time.Duration) *HTTPUploader {
	return &HTTPUploader{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type uploadRequest struct {
	DealID string  `json:"deal_id"`
	Email  string  `json:"email,omitempty"`
	Phone  string  `json:"phone,omitempty"`
	Value  float64 `json:"value"`
}

type uploadResponse struct {
	Platform     string `json:"platform"`
	ConversionID string `json:"conversion_id"`
}

func (u *HTTPUploader) Upload(ctx context.Context, deal *domain.Deal) (string, string, error) {
	body, err := json.Marshal(uploadRequest{
		DealID: deal.ID.String(),
		Email:  deal.Email,
		Phone:  deal.Phone,
		Value:  deal.Value,
	})
	if err != nil {
		return "", "", fmt.Errorf("marshal upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.url, bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("upload conversion: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return "", "", fmt.Errorf("upload conversion: HTTP %d", resp.StatusCode)
	}

	var out uploadResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&out); err != nil {
		return "", "", fmt.Errorf("decode upload response: %w", err)
	}

	return out.Platform, out.ConversionID, nil
}
