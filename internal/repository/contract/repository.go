package contract

import (
	"context"

	"github.com/zhouzirui/eunoia/backend/internal/model/chat"
	"github.com/zhouzirui/eunoia/backend/internal/model/mood"
)

// ChatTurnRepository is the append-only store of chat turns.
type ChatTurnRepository interface {
	Create(ctx context.Context, turn *chat.Turn) error
	// FindRecentByUserID returns up to limit turns, newest first.
	FindRecentByUserID(ctx context.Context, userID string, limit int) ([]chat.Turn, error)
}

// MoodSampleRepository stores mood samples produced by batch analysis.
type MoodSampleRepository interface {
	Create(ctx context.Context, sample *mood.Sample) error
	// FindRecentByUserID returns up to limit samples, newest first.
	FindRecentByUserID(ctx context.Context, userID string, limit int) ([]mood.Sample, error)
}
