package implementation

import (
	"context"

	"gorm.io/gorm"

	"github.com/zhouzirui/eunoia/backend/internal/model/chat"
	"github.com/zhouzirui/eunoia/backend/internal/repository/contract"
)

type ChatTurnRepositoryImpl struct {
	db *gorm.DB
}

func NewChatTurnRepository(db *gorm.DB) contract.ChatTurnRepository {
	return &ChatTurnRepositoryImpl{db: db}
}

func (r *ChatTurnRepositoryImpl) Create(ctx context.Context, turn *chat.Turn) error {
	row := chatTurnToRow(turn)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	*turn = chatTurnFromRow(row)
	return nil
}

func (r *ChatTurnRepositoryImpl) FindRecentByUserID(ctx context.Context, userID string, limit int) ([]chat.Turn, error) {
	if limit <= 0 {
		return []chat.Turn{}, nil
	}

	var rows []*chatTurnRow
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("seq DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	turns := make([]chat.Turn, len(rows))
	for i, row := range rows {
		turns[i] = chatTurnFromRow(row)
	}
	return turns, nil
}
