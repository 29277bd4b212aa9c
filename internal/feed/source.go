package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"compliance-portal/internal/domain"
	"compliance-portal/internal/utils"

	"github.com/go-playground/validator/v10"
)

// Source yields regulatory updates from outside the portal.
type Source interface {
	Fetch(ctx context.Context) ([]domain.RegulatoryUpdate, error)
}

type HTTPSource struct {
	url        string
	httpClient *http.Client
	validate   *validator.Validate
}

func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		validate: validator.New(),
	}
}

type sourceResponse struct {
	Updates []domain.RegulatoryUpdate `json:"updates"`
}

// Fetch reads {"updates": [...]} from the source URL. Entries that fail
// validation are logged and skipped.
func (s *HTTPSource) Fetch(ctx context.Context) ([]domain.RegulatoryUpdate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf(
			"feed source error: status=%d body=%s",
			resp.StatusCode,
			string(b),
		)
	}

	var payload sourceResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	logger := utils.Logger(ctx)
	valid := make([]domain.RegulatoryUpdate, 0, len(payload.Updates))
	for _, u := range payload.Updates {
		if err := s.validate.Struct(u); err != nil {
			logger.Warn("skipping invalid regulatory update", "id", u.ID, "error", err)
			continue
		}
		if _, err := time.Parse(domain.DateLayout, u.Date); err != nil {
			logger.Warn("skipping regulatory update with bad date", "id", u.ID, "date", u.Date)
			continue
		}
		valid = append(valid, u)
	}
	return valid, nil
}

// RunRefresher calls Refresh every interval until ctx is cancelled. Failures are
// logged and retried on the next tick.
func RunRefresher(ctx context.Context, service Service, interval time.Duration, logger *slog.Logger) {
	ctx = utils.ContextWithLogger(ctx, logger.With("component", "feed_refresher"))
	refresh := func() {
		if _, err := service.Refresh(ctx); err != nil && ctx.Err() == nil {
			utils.Logger(ctx).Error("regulatory feed refresh failed", "error", err)
		}
	}

	refresh()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}
