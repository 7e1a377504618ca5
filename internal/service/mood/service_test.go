package mood

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analysis "github.com/zhouzirui/eunoia/backend/internal/analysis/sentiment"
	"github.com/zhouzirui/eunoia/backend/internal/config"
	model "github.com/zhouzirui/eunoia/backend/internal/model/mood"
	"github.com/zhouzirui/eunoia/backend/internal/pkg/logger"
	"github.com/zhouzirui/eunoia/backend/internal/repository/memory"
	chatservice "github.com/zhouzirui/eunoia/backend/internal/service/chat"
	"github.com/zhouzirui/eunoia/backend/internal/service/sentiment"
)

// recordingScorer returns a fixed value and remembers the text it was given.
type recordingScorer struct {
	mu     sync.Mutex
	value  float64
	inputs []string
}

func (r *recordingScorer) Score(_ context.Context, text string) analysis.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs = append(r.inputs, text)
	return analysis.Result{Value: r.value, Label: "fixed"}
}

type failingSamples struct{}

func (failingSamples) Create(context.Context, *model.Sample) error { return errors.New("db down") }
func (failingSamples) FindRecentByUserID(context.Context, string, int) ([]model.Sample, error) {
	return nil, errors.New("db down")
}

type countingSamples struct {
	*memory.MoodSampleRepository
	finds int
}

func (c *countingSamples) FindRecentByUserID(ctx context.Context, userID string, limit int) ([]model.Sample, error) {
	c.finds++
	return c.MoodSampleRepository.FindRecentByUserID(ctx, userID, limit)
}

func offlineScorer() sentiment.Scorer {
	return sentiment.NewService(config.SentimentConfig{}, logger.NewNop())
}

func TestAnalyzeRecentNoTurnsPersistsNothing(t *testing.T) {
	samples := memory.NewMoodSampleRepository()
	chatSvc := chatservice.NewService(memory.NewChatTurnRepository())
	svc := NewService(chatSvc, samples, offlineScorer(), time.Minute, logger.NewNop())

	got, err := svc.AnalyzeRecent(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, samples.Count())
}

func TestAnalyzeRecentJoinsNewestFirst(t *testing.T) {
	ctx := context.Background()
	chatSvc := chatservice.NewService(memory.NewChatTurnRepository())
	for _, content := range []string{"first", "second", "third"} {
		_, err := chatSvc.Append(ctx, "u-1", content, true)
		require.NoError(t, err)
	}

	scorer := &recordingScorer{value: 0.3}
	svc := NewService(chatSvc, memory.NewMoodSampleRepository(), scorer, 0, logger.NewNop())

	sample, err := svc.AnalyzeRecent(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, sample)

	require.Len(t, scorer.inputs, 1)
	assert.Equal(t, "third. second. first", scorer.inputs[0])
	assert.Equal(t, "Analysis of 3 messages", sample.SourceDescription)
	assert.Equal(t, 0.3, sample.JoyScore)
	assert.Equal(t, 0.0, sample.SadnessScore)
	assert.Equal(t, 0.3, sample.OverallSentiment)
	assert.NotEmpty(t, sample.ID)
	assert.False(t, sample.CreatedAt.IsZero())
}

func TestAnalyzeRecentCapsBatchSize(t *testing.T) {
	ctx := context.Background()
	chatSvc := chatservice.NewService(memory.NewChatTurnRepository())
	for i := 0; i < BatchSize+5; i++ {
		_, _ = chatSvc.Append(ctx, "u-1", fmt.Sprintf("m%d", i), i%2 == 0)
	}

	scorer := &recordingScorer{value: -0.2}
	svc := NewService(chatSvc, memory.NewMoodSampleRepository(), scorer, 0, logger.NewNop())

	sample, err := svc.AnalyzeRecent(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Analysis of 20 messages", sample.SourceDescription)
	assert.Equal(t, 0.2, sample.SadnessScore)
	assert.Equal(t, 0.0, sample.JoyScore)
	assert.Equal(t, -0.2, sample.OverallSentiment)
}

func TestAnalyzeRecentOfflineHeuristic(t *testing.T) {
	ctx := context.Background()
	chatSvc := chatservice.NewService(memory.NewChatTurnRepository())
	_, _ = chatSvc.Append(ctx, "", "I feel anxious", true)

	samples := memory.NewMoodSampleRepository()
	svc := NewService(chatSvc, samples, offlineScorer(), time.Minute, logger.NewNop())

	sample, err := svc.AnalyzeRecent(ctx, "")
	require.NoError(t, err)
	require.NotNil(t, sample)
	assert.Equal(t, "anonymous", sample.UserID)
	assert.Equal(t, 0.5, sample.SadnessScore)
	assert.Equal(t, -0.5, sample.OverallSentiment)
	assert.Equal(t, 1, samples.Count())
}

func TestAnalyzeRecentSurfacesStorageError(t *testing.T) {
	ctx := context.Background()
	chatSvc := chatservice.NewService(memory.NewChatTurnRepository())
	_, _ = chatSvc.Append(ctx, "u-1", "hello", true)

	svc := NewService(chatSvc, failingSamples{}, offlineScorer(), 0, logger.NewNop())
	_, err := svc.AnalyzeRecent(ctx, "u-1")
	assert.Error(t, err)

	_, err = svc.History(ctx, "u-1")
	assert.Error(t, err)
}

func TestHistoryIsCachedAndInvalidated(t *testing.T) {
	ctx := context.Background()
	chatSvc := chatservice.NewService(memory.NewChatTurnRepository())
	_, _ = chatSvc.Append(ctx, "u-1", "good day", true)

	samples := &countingSamples{MoodSampleRepository: memory.NewMoodSampleRepository()}
	svc := NewService(chatSvc, samples, offlineScorer(), time.Minute, logger.NewNop())

	empty, err := svc.History(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)

	cached, err := svc.History(ctx, "u-1")
	require.NoError(t, err)
	assert.NotNil(t, cached)
	assert.Equal(t, 1, samples.finds, "second read should be served from cache")

	_, err = svc.AnalyzeRecent(ctx, "u-1")
	require.NoError(t, err)

	history, err := svc.History(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 0.8, history[0].JoyScore)
	assert.Equal(t, 2, samples.finds)
}

func TestHistoryLimitAndOrder(t *testing.T) {
	ctx := context.Background()
	chatSvc := chatservice.NewService(memory.NewChatTurnRepository())
	_, _ = chatSvc.Append(ctx, "u-1", "hello", true)

	samples := memory.NewMoodSampleRepository()
	svc := NewService(chatSvc, samples, &recordingScorer{value: 0.1}, 0, logger.NewNop())
	var last *model.Sample
	for i := 0; i < HistoryLimit+3; i++ {
		s, err := svc.AnalyzeRecent(ctx, "u-1")
		require.NoError(t, err)
		last = s
	}

	history, err := svc.History(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, history, HistoryLimit)
	assert.Equal(t, last.ID, history[0].ID)
}
