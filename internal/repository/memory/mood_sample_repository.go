package memory

import (
	"context"
	"sync"

	"github.com/zhouzirui/eunoia/backend/internal/model/mood"
	"github.com/zhouzirui/eunoia/backend/internal/repository/contract"
)

// MoodSampleRepository keeps samples per user in append order.
type MoodSampleRepository struct {
	mu      sync.RWMutex
	samples map[string][]mood.Sample
}

var _ contract.MoodSampleRepository = (*MoodSampleRepository)(nil)

func NewMoodSampleRepository() *MoodSampleRepository {
	return &MoodSampleRepository{samples: make(map[string][]mood.Sample)}
}

func (r *MoodSampleRepository) Create(_ context.Context, sample *mood.Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples[sample.UserID] = append(r.samples[sample.UserID], *sample)
	return nil
}

func (r *MoodSampleRepository) FindRecentByUserID(_ context.Context, userID string, limit int) ([]mood.Sample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return newestFirst(r.samples[userID], limit), nil
}

// Count returns the number of stored samples across all users.
func (r *MoodSampleRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, items := range r.samples {
		total += len(items)
	}
	return total
}
