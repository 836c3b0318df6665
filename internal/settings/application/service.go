package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/notiflow/notiflow/internal/settings/domain"
	"github.com/notiflow/notiflow/pkg/notify"
)

const table = "settings"

type Service struct {
	log      *slog.Logger
	repo     SettingsRepository
	parser   ParseClient
	notifier notify.Publisher
}

func NewService(log *slog.Logger, repo SettingsRepository, parser ParseClient, notifier notify.Publisher) *Service {
	return &Service{log: log, repo: repo, parser: parser, notifier: notifier}
}

func (s *Service) Get(ctx context.Context) (domain.Settings, error) {
	values, err := s.repo.Values(ctx, domain.Keys)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return domain.Decode(values), nil
}

// Update upserts the given keys. The whole batch is rejected if any key is
// unknown so a typo cannot silently create an orphan row.
func (s *Service) Update(ctx context.Context, values map[string]json.RawMessage) (domain.Settings, error) {
	for key := range values {
		if !domain.KnownKey(key) {
			return domain.Settings{}, fmt.Errorf("%w: %s", domain.ErrUnknownKey, key)
		}
	}
	for key, value := range values {
		if err := s.repo.Upsert(ctx, key, value); err != nil {
			return domain.Settings{}, fmt.Errorf("upsert %s: %w", key, err)
		}
	}
	if err := s.notifier.Publish(ctx, table); err != nil {
		s.log.Error("change notification failed", "table", table, "err", err)
	}
	return s.Get(ctx)
}

// TestParse runs a sample message through the parse service using the
// currently stored model and prompt, without touching any stored message.
func (s *Service) TestParse(ctx context.Context, content string) (json.RawMessage, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	result, err := s.parser.TestParse(ctx, content, settings.AIModel, settings.AIParsePrompt)
	if err != nil {
		return nil, fmt.Errorf("test parse: %w", err)
	}
	return result, nil
}
