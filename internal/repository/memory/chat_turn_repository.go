package memory

import (
	"context"
	"sync"

	"github.com/zhouzirui/eunoia/backend/internal/model/chat"
	"github.com/zhouzirui/eunoia/backend/internal/repository/contract"
)

// ChatTurnRepository keeps turns per user in append order.
type ChatTurnRepository struct {
	mu    sync.RWMutex
	turns map[string][]chat.Turn
}

var _ contract.ChatTurnRepository = (*ChatTurnRepository)(nil)

func NewChatTurnRepository() *ChatTurnRepository {
	return &ChatTurnRepository{turns: make(map[string][]chat.Turn)}
}

func (r *ChatTurnRepository) Create(_ context.Context, turn *chat.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns[turn.UserID] = append(r.turns[turn.UserID], *turn)
	return nil
}

func (r *ChatTurnRepository) FindRecentByUserID(_ context.Context, userID string, limit int) ([]chat.Turn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return newestFirst(r.turns[userID], limit), nil
}
