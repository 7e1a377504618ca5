package mood

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/zhouzirui/eunoia/backend/internal/model/chat"
	"github.com/zhouzirui/eunoia/backend/internal/model/mood"
	"github.com/zhouzirui/eunoia/backend/internal/pkg/logger"
	"github.com/zhouzirui/eunoia/backend/internal/repository/contract"
	"github.com/zhouzirui/eunoia/backend/internal/service/sentiment"
)

const (
	logModule = "mood"

	// BatchSize is the number of recent turns summarized into one sample.
	BatchSize = 20
	// HistoryLimit is the number of samples returned by History.
	HistoryLimit = 10
	// Separator joins turn contents before scoring.
	Separator = ". "
)

// TurnReader is the slice of the chat log the aggregator depends on.
type TurnReader interface {
	Recent(ctx context.Context, userID string, limit int) ([]chat.Turn, error)
}

// Service aggregates recent chat turns into mood samples.
type Service struct {
	turns   TurnReader
	samples contract.MoodSampleRepository
	scorer  sentiment.Scorer
	history *cache.Cache
	log     logger.Logger
	now     func() time.Time
}

// NewService wires the aggregator. A non-positive historyTTL disables history caching.
func NewService(turns TurnReader, samples contract.MoodSampleRepository, scorer sentiment.Scorer, historyTTL time.Duration, log logger.Logger) *Service {
	svc := &Service{
		turns:   turns,
		samples: samples,
		scorer:  scorer,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
	if historyTTL > 0 {
		svc.history = cache.New(historyTTL, 2*historyTTL)
	}
	return svc
}

// AnalyzeRecent scores the user's last BatchSize turns and persists one sample.
// It returns (nil, nil) when the user has no turns.
//
// Turns are joined newest first, in retrieval order, without re-sorting.
func (s *Service) AnalyzeRecent(ctx context.Context, userID string) (*mood.Sample, error) {
	userID = chat.NormalizeUserID(userID)

	turns, err := s.turns.Recent(ctx, userID, BatchSize)
	if err != nil {
		return nil, fmt.Errorf("analyze recent messages: %w", err)
	}
	if len(turns) == 0 {
		s.log.Info(logModule, "no chat turns to analyze", map[string]interface{}{"userId": userID})
		return nil, nil
	}

	contents := make([]string, len(turns))
	for i, turn := range turns {
		contents[i] = turn.Content
	}

	result := s.scorer.Score(ctx, strings.Join(contents, Separator))

	sample := mood.NewSample(userID, len(turns), result.Value)
	sample.ID = uuid.NewString()
	sample.CreatedAt = s.now()

	if err := s.samples.Create(ctx, &sample); err != nil {
		return nil, fmt.Errorf("save mood sample: %w", err)
	}
	s.invalidate(userID)

	s.log.Info(logModule, "mood sample created", map[string]interface{}{
		"userId":   userID,
		"messages": len(turns),
		"score":    result.Value,
		"label":    result.Label,
	})
	return &sample, nil
}

// History returns up to HistoryLimit samples for the user, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]mood.Sample, error) {
	userID = chat.NormalizeUserID(userID)

	if s.history != nil {
		if cached, ok := s.history.Get(userID); ok {
			return cloneSamples(cached.([]mood.Sample)), nil
		}
	}

	samples, err := s.samples.FindRecentByUserID(ctx, userID, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("load mood history: %w", err)
	}
	if s.history != nil {
		s.history.Set(userID, cloneSamples(samples), cache.DefaultExpiration)
	}
	return cloneSamples(samples), nil
}

// cloneSamples keeps cached slices private and never returns nil.
func cloneSamples(samples []mood.Sample) []mood.Sample {
	out := make([]mood.Sample, len(samples))
	copy(out, samples)
	return out
}

func (s *Service) invalidate(userID string) {
	if s.history != nil {
		s.history.Delete(userID)
	}
}
