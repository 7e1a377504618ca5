package implementation

import (
	"time"

	"gorm.io/gorm"

	"github.com/zhouzirui/eunoia/backend/internal/model/chat"
	"github.com/zhouzirui/eunoia/backend/internal/model/mood"
)

// chatTurnRow orders turns by created_at, then seq for turns written in the same instant.
type chatTurnRow struct {
	Seq        uint64    `gorm:"primaryKey;autoIncrement"`
	TurnID     string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	UserID     string    `gorm:"type:varchar(255);not null;index:idx_chat_turns_user_created,priority:1"`
	Content    string    `gorm:"type:text;not null"`
	IsFromUser bool      `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null;index:idx_chat_turns_user_created,priority:2"`
}

func (chatTurnRow) TableName() string {
	return "chat_turns"
}

type moodSampleRow struct {
	Seq               uint64    `gorm:"primaryKey;autoIncrement"`
	SampleID          string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	UserID            string    `gorm:"type:varchar(255);not null;index:idx_mood_samples_user_created,priority:1"`
	SourceDescription string    `gorm:"type:text"`
	JoyScore          float64   `gorm:"not null;default:0"`
	SadnessScore      float64   `gorm:"not null;default:0"`
	AngerScore        float64   `gorm:"not null;default:0"`
	OverallSentiment  float64   `gorm:"not null;default:0"`
	CreatedAt         time.Time `gorm:"not null;index:idx_mood_samples_user_created,priority:2"`
}

func (moodSampleRow) TableName() string {
	return "mood_samples"
}

// AutoMigrate creates or updates the chat_turns and mood_samples tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&chatTurnRow{}, &moodSampleRow{})
}

func chatTurnToRow(t *chat.Turn) *chatTurnRow {
	return &chatTurnRow{
		TurnID:     t.ID,
		UserID:     t.UserID,
		Content:    t.Content,
		IsFromUser: t.IsFromUser,
		CreatedAt:  t.CreatedAt,
	}
}

func chatTurnFromRow(r *chatTurnRow) chat.Turn {
	return chat.Turn{
		ID:         r.TurnID,
		UserID:     r.UserID,
		Content:    r.Content,
		IsFromUser: r.IsFromUser,
		CreatedAt:  r.CreatedAt.UTC(),
	}
}

func moodSampleToRow(s *mood.Sample) *moodSampleRow {
	return &moodSampleRow{
		SampleID:          s.ID,
		UserID:            s.UserID,
		SourceDescription: s.SourceDescription,
		JoyScore:          s.JoyScore,
		SadnessScore:      s.SadnessScore,
		AngerScore:        s.AngerScore,
		OverallSentiment:  s.OverallSentiment,
		CreatedAt:         s.CreatedAt,
	}
}

func moodSampleFromRow(r *moodSampleRow) mood.Sample {
	return mood.Sample{
		ID:                r.SampleID,
		UserID:            r.UserID,
		SourceDescription: r.SourceDescription,
		JoyScore:          r.JoyScore,
		SadnessScore:      r.SadnessScore,
		AngerScore:        r.AngerScore,
		OverallSentiment:  r.OverallSentiment,
		CreatedAt:         r.CreatedAt.UTC(),
	}
}
