package types_test

import (
	"encoding/json"
	"testing"

	"github.com/localnerve/shoutbase/internal/types"
)

func TestFlexUint64NumberOrString(t *testing.T) {
	var payload struct {
		ID types.FlexUint64 `json:"id"`
	}

	if err := json.Unmarshal([]byte(`{"id": 42}`), &payload); err != nil {
		t.Fatalf("Failed to unmarshal number: %v", err)
	}
	if payload.ID.Uint64() != 42 {
		t.Errorf("Expected 42, got %d", payload.ID.Uint64())
	}

	if err := json.Unmarshal([]byte(`{"id": "43"}`), &payload); err != nil {
		t.Fatalf("Failed to unmarshal string: %v", err)
	}
	if payload.ID.Uint64() != 43 {
		t.Errorf("Expected 43, got %d", payload.ID.Uint64())
	}

	if err := json.Unmarshal([]byte(`{"id": "not-a-number"}`), &payload); err == nil {
		t.Error("Expected non-numeric string to fail")
	}
}

func TestFlexListObjectOrArray(t *testing.T) {
	type question struct {
		Text string `json:"text"`
	}
	var payload struct {
		Questions types.FlexList[question] `json:"questions"`
	}

	if err := json.Unmarshal([]byte(`{"questions": [{"text":"a"},{"text":"b"}]}`), &payload); err != nil {
		t.Fatalf("Failed to unmarshal array: %v", err)
	}
	if len(payload.Questions.Slice()) != 2 {
		t.Errorf("Expected 2 questions, got %d", len(payload.Questions.Slice()))
	}

	// A single bare object arrives as a one-element list
	if err := json.Unmarshal([]byte(`{"questions": {"text":"solo"}}`), &payload); err != nil {
		t.Fatalf("Failed to unmarshal object: %v", err)
	}
	if len(payload.Questions.Slice()) != 1 || payload.Questions.Slice()[0].Text != "solo" {
		t.Errorf("Expected one question 'solo', got %v", payload.Questions)
	}

	if err := json.Unmarshal([]byte(`{"questions": null}`), &payload); err != nil {
		t.Fatalf("Failed to unmarshal null: %v", err)
	}
}
