package domain

import (
	"encoding/json"
	"testing"
)

func TestDecodeDefaults(t *testing.T) {
	s := Decode(nil)
	if s.AIEnabled || s.AIAutoProcess {
		t.Error("flags should default to false")
	}
	if s.AIModel != DefaultModel {
		t.Errorf("model = %q", s.AIModel)
	}
	if s.AIConfidenceThreshold != DefaultConfidenceThreshold {
		t.Errorf("threshold = %v", s.AIConfidenceThreshold)
	}
	if s.AIParsePrompt != nil {
		t.Errorf("prompt = %v", s.AIParsePrompt)
	}
}

func TestDecodeNativeTypes(t *testing.T) {
	s := Decode(map[string]json.RawMessage{
		KeyAIEnabled:             json.RawMessage(`true`),
		KeyAIModel:               json.RawMessage(`"gpt-x"`),
		KeyAIParsePrompt:         json.RawMessage(`"extract the order"`),
		KeyAIAutoProcess:         json.RawMessage(`false`),
		KeyAIConfidenceThreshold: json.RawMessage(`0.9`),
	})
	if !s.AIEnabled {
		t.Error("ai_enabled = false")
	}
	if s.AIModel != "gpt-x" {
		t.Errorf("model = %q", s.AIModel)
	}
	if s.AIParsePrompt == nil || *s.AIParsePrompt != "extract the order" {
		t.Errorf("prompt = %v", s.AIParsePrompt)
	}
	if s.AIConfidenceThreshold != 0.9 {
		t.Errorf("threshold = %v", s.AIConfidenceThreshold)
	}
}

// Older rows stored everything as quoted strings.
func TestDecodeQuotedStrings(t *testing.T) {
	s := Decode(map[string]json.RawMessage{
		KeyAIEnabled:             json.RawMessage(`"true"`),
		KeyAIConfidenceThreshold: json.RawMessage(`"0.5"`),
	})
	if !s.AIEnabled {
		t.Error("quoted true not coerced")
	}
	if s.AIConfidenceThreshold != 0.5 {
		t.Errorf("threshold = %v", s.AIConfidenceThreshold)
	}
}

func TestKnownKey(t *testing.T) {
	if !KnownKey(KeyAIModel) {
		t.Error("ai_model should be known")
	}
	if KnownKey("theme_color") {
		t.Error("theme_color should be unknown")
	}
}
