package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/seqkit/errors"
)

func TestValidatorPositive(t *testing.T) {
	if New().Positive("n", 1).HasErrors() {
		t.Error("expected no errors for positive n")
	}
	for _, n := range []int{0, -1} {
		if !New().Positive("n", n).HasErrors() {
			t.Errorf("expected error for n=%d", n)
		}
	}
}

func TestValidatorNonNegative(t *testing.T) {
	if New().NonNegative("depth", 0).HasErrors() {
		t.Error("zero is non-negative")
	}
	if !New().NonNegative("depth", -1).HasErrors() {
		t.Error("expected error for -1")
	}
}

func TestValidatorRange(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"low bound", 0, false},
		{"high bound", 2, false},
		{"below", -1, true},
		{"above", 3, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := New().Range("overlap", tc.value, 0, 2).HasErrors()
			if got != tc.wantErr {
				t.Errorf("Range(%d) error = %v, want %v", tc.value, got, tc.wantErr)
			}
		})
	}
}

func TestValidatorNotNilAndCheck(t *testing.T) {
	v := New().NotNil("by", true).Check(false, "n", "must be two")
	if len(v.Errors()) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(v.Errors()))
	}
}

func TestValidatorError(t *testing.T) {
	if err := New().Positive("n", 3).Error(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}

	err := New().Positive("window", 0).Range("overlap", 5, 0, 1).Error()
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.HasCode(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT, got %v", err)
	}
	if !strings.Contains(err.Error(), "window must be positive") || !strings.Contains(err.Error(), "overlap") {
		t.Errorf("expected both messages, got %q", err.Error())
	}
	appErr, _ := errors.AsAppError(err)
	if appErr.Details["argument"] != "window" {
		t.Errorf("expected first field as argument, got %v", appErr.Details["argument"])
	}
}

type sampleOptions struct {
	N            int  `mapstructure:"n" validate:"gte=1"`
	BudgetFactor *int `mapstructure:"budget_factor" validate:"omitnil,gt=0"`
	BufferSize   int  `validate:"gte=1"`
}

func TestValidateStruct(t *testing.T) {
	neg := -1
	one := 1
	tests := []struct {
		name    string
		opts    sampleOptions
		wantErr string
	}{
		{"valid", sampleOptions{N: 1, BudgetFactor: &one, BufferSize: 1}, ""},
		{"nil pointer skipped", sampleOptions{N: 2, BufferSize: 4}, ""},
		{"n too small", sampleOptions{N: 0, BufferSize: 1}, "n must be at least 1"},
		{"negative budget", sampleOptions{N: 1, BudgetFactor: &neg, BufferSize: 1}, "budget_factor must be greater than 0"},
		{"snake case fallback", sampleOptions{N: 1, BufferSize: 0}, "buffer_size"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateStruct(tc.opts)
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.HasCode(err, errors.ErrCodeInvalidArgument) {
				t.Errorf("expected INVALID_ARGUMENT, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected %q in %q", tc.wantErr, err.Error())
			}
		})
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("BudgetFactor"); got != "budget_factor" {
		t.Errorf("got %q", got)
	}
}
