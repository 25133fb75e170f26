// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package validation

import (
	"math"
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	v1 := GetValidator()
	v2 := GetValidator()
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

type interactionInput struct {
	UserID   string   `json:"user_id" validate:"required,entity_id"`
	Decision string   `json:"decision" validate:"required,decision"`
	Signal   string   `json:"signal" validate:"omitempty,signal"`
	Subjects []string `json:"subject_ids" validate:"max=2,dive,entity_id"`
	Score    *float64 `json:"score" validate:"omitempty,unit_interval"`
}

type weightsPath struct {
	UserID string `json:"user_id" validate:"required,entity_id"`
	Signal string `json:"signal" validate:"required,learned_signal"`
}

type searchQuery struct {
	Query string `json:"q" validate:"required,max=10"`
	Limit int    `json:"limit" validate:"min=1,max=50"`
}

func floatPtr(f float64) *float64 { return &f }

func TestValidateStruct_CustomTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
	}{
		{
			name:  "valid interaction",
			input: &interactionInput{UserID: "u-1", Decision: "liked", Signal: "like", Subjects: []string{"r1"}, Score: floatPtr(0.4)},
		},
		{
			name:  "score omitted",
			input: &interactionInput{UserID: "u-1", Decision: "ignored"},
		},
		{
			name:      "user id with spaces",
			input:     &interactionInput{UserID: "bad id", Decision: "liked"},
			wantField: "user_id",
			wantTag:   "entity_id",
		},
		{
			name:      "unknown decision",
			input:     &interactionInput{UserID: "u1", Decision: "loved"},
			wantField: "decision",
			wantTag:   "decision",
		},
		{
			name:      "unknown signal",
			input:     &interactionInput{UserID: "u1", Decision: "liked", Signal: "rating"},
			wantField: "signal",
			wantTag:   "signal",
		},
		{
			name:      "score above one",
			input:     &interactionInput{UserID: "u1", Decision: "liked", Score: floatPtr(1.5)},
			wantField: "score",
			wantTag:   "unit_interval",
		},
		{
			name:      "score NaN",
			input:     &interactionInput{UserID: "u1", Decision: "liked", Score: floatPtr(math.NaN())},
			wantField: "score",
			wantTag:   "unit_interval",
		},
		{
			name:      "bad subject id",
			input:     &interactionInput{UserID: "u1", Decision: "liked", Subjects: []string{"ok", "not ok"}},
			wantField: "subject_ids[1]",
			wantTag:   "entity_id",
		},
		{
			name:      "view has no weights",
			input:     &weightsPath{UserID: "u1", Signal: "view"},
			wantField: "signal",
			wantTag:   "learned_signal",
		},
		{
			name:  "save has weights",
			input: &weightsPath{UserID: "u1", Signal: "save"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verr := ValidateStruct(tt.input)
			if tt.wantTag == "" {
				if verr != nil {
					t.Fatalf("unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("expected a validation error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField && !strings.HasSuffix(tt.wantField, errs[0].Field()) {
				t.Errorf("field = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("tag = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
		})
	}
}

func TestTranslateError_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input searchQuery
		want  string
	}{
		{"required", searchQuery{Limit: 5}, "q is required"},
		{"string max", searchQuery{Query: strings.Repeat("x", 11), Limit: 5}, "q must be at most 10 characters"},
		{"numeric min", searchQuery{Query: "soup", Limit: 0}, "limit must be at least 1"},
		{"numeric max", searchQuery{Query: "soup", Limit: 51}, "limit must be at most 50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := tt.input
			verr := ValidateStruct(&in)
			if verr == nil {
				t.Fatal("expected error")
			}
			if got := verr.Error(); got != tt.want {
				t.Errorf("message = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	t.Run("single", func(t *testing.T) {
		t.Parallel()
		verr := ValidateStruct(&weightsPath{UserID: "u1", Signal: "view"})
		if verr == nil {
			t.Fatal("expected error")
		}
		apiErr := verr.ToAPIError()
		if apiErr.Code != "VALIDATION_ERROR" {
			t.Errorf("code = %q", apiErr.Code)
		}
		if apiErr.Details["field"] != "signal" {
			t.Errorf("details = %v", apiErr.Details)
		}
	})

	t.Run("multiple", func(t *testing.T) {
		t.Parallel()
		verr := ValidateStruct(&weightsPath{})
		if verr == nil {
			t.Fatal("expected error")
		}
		apiErr := verr.ToAPIError()
		fields, ok := apiErr.Details["fields"].([]map[string]interface{})
		if !ok || len(fields) != 2 {
			t.Fatalf("details = %v", apiErr.Details)
		}
		if !strings.Contains(apiErr.Message, "user_id: user_id is required") {
			t.Errorf("message = %q", apiErr.Message)
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		apiErr := (&RequestValidationError{}).ToAPIError()
		if apiErr.Message != "Validation failed" {
			t.Errorf("message = %q", apiErr.Message)
		}
	})
}
