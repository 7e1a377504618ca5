package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/eunoia/backend/internal/model/chat"
	"github.com/zhouzirui/eunoia/backend/internal/repository/contract"
)

// LatestSearchWindow bounds how far back LatestAssistantTurn looks.
const LatestSearchWindow = 20

// ErrContentRequired is returned when a turn has no text.
var ErrContentRequired = errors.New("chat: content is required")

// Service is the append-only chat log.
type Service struct {
	turns contract.ChatTurnRepository
	now   func() time.Time
}

func NewService(turns contract.ChatTurnRepository) *Service {
	return &Service{
		turns: turns,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Append stores a new turn with a server-assigned id and timestamp.
func (s *Service) Append(ctx context.Context, userID, content string, isFromUser bool) (chat.Turn, error) {
	if strings.TrimSpace(content) == "" {
		return chat.Turn{}, ErrContentRequired
	}

	turn := chat.Turn{
		ID:         uuid.NewString(),
		UserID:     chat.NormalizeUserID(userID),
		Content:    content,
		IsFromUser: isFromUser,
		CreatedAt:  s.now(),
	}

	if err := s.turns.Create(ctx, &turn); err != nil {
		return chat.Turn{}, fmt.Errorf("append chat turn: %w", err)
	}
	return turn, nil
}

// Recent returns up to limit turns for the user, newest first.
func (s *Service) Recent(ctx context.Context, userID string, limit int) ([]chat.Turn, error) {
	if limit <= 0 {
		return []chat.Turn{}, nil
	}

	turns, err := s.turns.FindRecentByUserID(ctx, chat.NormalizeUserID(userID), limit)
	if err != nil {
		return nil, fmt.Errorf("load recent chat turns: %w", err)
	}
	return turns, nil
}

// LatestAssistantTurn finds the newest companion turn among the last LatestSearchWindow turns.
func (s *Service) LatestAssistantTurn(ctx context.Context, userID string) (chat.Turn, bool, error) {
	turns, err := s.Recent(ctx, userID, LatestSearchWindow)
	if err != nil {
		return chat.Turn{}, false, err
	}

	for _, turn := range turns {
		if !turn.IsFromUser {
			return turn, true, nil
		}
	}
	return chat.Turn{}, false, nil
}
