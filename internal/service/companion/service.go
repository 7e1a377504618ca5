package companion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/zhouzirui/eunoia/backend/internal/analysis/intent"
	model "github.com/zhouzirui/eunoia/backend/internal/model/companion"
	"github.com/zhouzirui/eunoia/backend/internal/model/persona"
	"github.com/zhouzirui/eunoia/backend/internal/pkg/logger"
	"github.com/zhouzirui/eunoia/backend/internal/service/ai"
)

const logModule = "companion"

// ErrNoJSONObject is returned when the model output has no {...} span.
var ErrNoJSONObject = errors.New("companion: no json object in model output")

// DefaultResponse is returned whenever the remote model cannot produce a usable reply.
func DefaultResponse() model.Response {
	return model.Response{
		Reply:               "I'm feeling a bit quiet right now, but I'm here.",
		Emotion:             model.EmotionConcerned,
		Action:              model.ActionIdle,
		TargetObject:        model.TargetNone,
		RecommendedCategory: model.CategoryNone,
	}
}

// Service turns a user utterance into the pet's structured reaction.
type Service struct {
	completer ai.Completer
	personas  persona.Store
	log       logger.Logger
}

// NewService creates the responder. A nil completer selects the keyword rules.
func NewService(completer ai.Completer, personas persona.Store, log logger.Logger) *Service {
	return &Service{completer: completer, personas: personas, log: log}
}

// Enabled reports whether a remote model is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.completer != nil
}

// Respond always yields a valid response.
func (s *Service) Respond(ctx context.Context, utterance string) model.Response {
	if !s.Enabled() {
		decision := intent.Match(utterance)
		s.log.Debug(logModule, "offline rule matched", map[string]interface{}{"rule": decision.Rule})
		return decision.Response
	}

	resp, err := s.respondRemote(ctx, utterance)
	if err != nil {
		s.log.Error(logModule, "remote completion failed, using default reply", map[string]interface{}{"error": err})
		return DefaultResponse()
	}
	return resp
}

func (s *Service) respondRemote(ctx context.Context, utterance string) (model.Response, error) {
	raw, err := s.completer.Complete(ctx, BuildSystemPrompt(s.personas.Default()), utterance)
	if err != nil {
		return model.Response{}, err
	}

	object, err := ExtractJSONObject(raw)
	if err != nil {
		return model.Response{}, err
	}

	var resp model.Response
	if err := json.Unmarshal([]byte(object), &resp); err != nil {
		return model.Response{}, fmt.Errorf("decode companion response: %w", err)
	}

	resp.Normalize()
	if err := resp.Validate(); err != nil {
		return model.Response{}, err
	}
	return resp, nil
}

// ExtractJSONObject keeps the span from the first "{" to the last "}",
// dropping prose or code fences the model wraps around the object.
func ExtractJSONObject(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return "", ErrNoJSONObject
	}
	return raw[start : end+1], nil
}
