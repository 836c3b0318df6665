package application

import (
	"context"
	"encoding/json"
)

type SettingsRepository interface {
	Values(ctx context.Context, keys []string) (map[string]json.RawMessage, error)
	Upsert(ctx context.Context, key string, value json.RawMessage) error
}

// ParseClient calls the external parse service with a sample message.
type ParseClient interface {
	TestParse(ctx context.Context, content, model string, prompt *string) (json.RawMessage, error)
}
