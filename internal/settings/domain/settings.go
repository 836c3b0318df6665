package domain

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var ErrUnknownKey = errors.New("unknown setting key")

// Setting keys. Values are stored as jsonb so a key can hold a bool, number
// or string without a schema change.
const (
	KeyAIEnabled             = "ai_enabled"
	KeyAIModel               = "ai_model"
	KeyAIParsePrompt         = "ai_parse_prompt"
	KeyAIAutoProcess         = "ai_auto_process"
	KeyAIConfidenceThreshold = "ai_confidence_threshold"
)

var Keys = []string{
	KeyAIEnabled,
	KeyAIModel,
	KeyAIParsePrompt,
	KeyAIAutoProcess,
	KeyAIConfidenceThreshold,
}

func KnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

const (
	DefaultModel               = "claude-haiku-4-5-20251001"
	DefaultConfidenceThreshold = 0.7
)

// Settings is the typed view over the key-value rows the parse pipeline reads.
type Settings struct {
	AIEnabled             bool    `json:"ai_enabled"`
	AIModel               string  `json:"ai_model"`
	AIParsePrompt         *string `json:"ai_parse_prompt"`
	AIAutoProcess         bool    `json:"ai_auto_process"`
	AIConfidenceThreshold float64 `json:"ai_confidence_threshold"`
}

// Decode assembles Settings from raw stored values, tolerating values written
// either as native json types or as quoted strings. Missing keys fall back to
// defaults.
func Decode(values map[string]json.RawMessage) Settings {
	s := Settings{
		AIModel:               DefaultModel,
		AIConfidenceThreshold: DefaultConfidenceThreshold,
	}
	if v, ok := values[KeyAIEnabled]; ok {
		s.AIEnabled = asBool(v)
	}
	if v, ok := values[KeyAIModel]; ok {
		if m := asString(v); m != "" {
			s.AIModel = m
		}
	}
	if v, ok := values[KeyAIParsePrompt]; ok {
		if p := asString(v); p != "" {
			s.AIParsePrompt = &p
		}
	}
	if v, ok := values[KeyAIAutoProcess]; ok {
		s.AIAutoProcess = asBool(v)
	}
	if v, ok := values[KeyAIConfidenceThreshold]; ok {
		if f, err := strconv.ParseFloat(asString(v), 64); err == nil {
			s.AIConfidenceThreshold = f
		}
	}
	return s
}

func asString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.Trim(string(raw), `"`)
}

func asBool(raw json.RawMessage) bool {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	return asString(raw) == "true"
}
