package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	analysis "github.com/zhouzirui/eunoia/backend/internal/analysis/sentiment"
	"github.com/zhouzirui/eunoia/backend/internal/config"
	"github.com/zhouzirui/eunoia/backend/internal/pkg/logger"
)

const logModule = "sentiment"

// maxBodyBytes caps how much of a provider response is read.
const maxBodyBytes = 1 << 20

// Scorer turns text into a bounded sentiment signal. Implementations never fail.
type Scorer interface {
	Score(ctx context.Context, text string) analysis.Result
}

// Service scores text through the remote provider, degrading to the offline heuristic.
type Service struct {
	cfg        config.SentimentConfig
	httpClient *http.Client
	log        logger.Logger
}

var _ Scorer = (*Service)(nil)

func NewService(cfg config.SentimentConfig, log logger.Logger) *Service {
	return &Service{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// Enabled reports whether a usable provider credential is configured.
func (s *Service) Enabled() bool {
	return s.cfg.Enabled() && s.cfg.URL != ""
}

// Score makes at most one provider call. Without a credential no request is attempted.
func (s *Service) Score(ctx context.Context, text string) analysis.Result {
	if !s.Enabled() {
		s.log.Debug(logModule, "no provider configured, using offline heuristic", nil)
		return analysis.Score(text)
	}

	result, err := s.scoreRemote(ctx, text)
	if err != nil {
		s.log.Warn(logModule, "provider call failed, using offline heuristic", map[string]interface{}{
			"error": err.Error(),
		})
		return analysis.Score(text)
	}
	return result
}

type providerPayload struct {
	Score *float64 `json:"score"`
	Type  string   `json:"type"`
}

func (s *Service) scoreRemote(ctx context.Context, text string) (analysis.Result, error) {
	form := url.Values{}
	form.Set("text", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return analysis.Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-RapidAPI-Key", s.cfg.APIKey)
	if s.cfg.Host != "" {
		req.Header.Set("X-RapidAPI-Host", s.cfg.Host)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return analysis.Result{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return analysis.Result{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return analysis.Result{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return parsePayload(body)
}

func parsePayload(body []byte) (analysis.Result, error) {
	var payload providerPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return analysis.Result{}, fmt.Errorf("decode response: %w", err)
	}
	if payload.Score == nil {
		return analysis.Result{}, errors.New("response missing score")
	}

	value := clamp(*payload.Score)
	label := strings.ToLower(strings.TrimSpace(payload.Type))
	if label == "" {
		label = labelFor(value)
	}
	return analysis.Result{Value: value, Label: label}, nil
}

func labelFor(value float64) string {
	switch {
	case value > 0:
		return analysis.LabelPositive
	case value < 0:
		return analysis.LabelNegative
	default:
		return analysis.LabelNeutral
	}
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
