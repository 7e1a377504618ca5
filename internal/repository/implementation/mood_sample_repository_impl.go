package implementation

import (
	"context"

	"gorm.io/gorm"

	"github.com/zhouzirui/eunoia/backend/internal/model/mood"
	"github.com/zhouzirui/eunoia/backend/internal/repository/contract"
)

type MoodSampleRepositoryImpl struct {
	db *gorm.DB
}

func NewMoodSampleRepository(db *gorm.DB) contract.MoodSampleRepository {
	return &MoodSampleRepositoryImpl{db: db}
}

func (r *MoodSampleRepositoryImpl) Create(ctx context.Context, sample *mood.Sample) error {
	row := moodSampleToRow(sample)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	*sample = moodSampleFromRow(row)
	return nil
}

func (r *MoodSampleRepositoryImpl) FindRecentByUserID(ctx context.Context, userID string, limit int) ([]mood.Sample, error) {
	if limit <= 0 {
		return []mood.Sample{}, nil
	}

	var rows []*moodSampleRow
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("seq DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	samples := make([]mood.Sample, len(rows))
	for i, row := range rows {
		samples[i] = moodSampleFromRow(row)
	}
	return samples, nil
}
