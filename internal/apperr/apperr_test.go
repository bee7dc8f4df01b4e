package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"plain apperr", New(CodeTestEnded, "test window closed"), CodeTestEnded},
		{"wrapped apperr", fmt.Errorf("starting session: %w", New(CodeDuplicateAttempt, "already attempted")), CodeDuplicateAttempt},
		{"wrap with cause", Wrap(CodeInternal, "storage failure", errors.New("conn reset")), CodeInternal},
		{"foreign error", errors.New("boom"), CodeInternal},
		{"nil-ish wrapped foreign", fmt.Errorf("ctx: %w", errors.New("boom")), CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("extend: %w", New(CodeMaxExtensions, "cap reached"))
	if !errors.Is(err, New(CodeMaxExtensions, "")) {
		t.Error("errors.Is should match apperr values by code")
	}
	if errors.Is(err, New(CodeAlreadySubmitted, "")) {
		t.Error("errors.Is must not match a different code")
	}
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")
	err := Wrap(CodeDuplicateAttempt, "user already attempted this test", cause)
	if !errors.Is(err, cause) {
		t.Error("wrapped cause should remain reachable via errors.Is")
	}
}

func TestIsConflict(t *testing.T) {
	conflicts := []Code{CodeTestNotStarted, CodeTestEnded, CodeDuplicateAttempt, CodeAlreadySubmitted, CodeMaxExtensions}
	for _, c := range conflicts {
		if !IsConflict(c) {
			t.Errorf("%s should be a conflict code", c)
		}
	}
	for _, c := range []Code{CodeNotFound, CodeAnswerKeyMissing, CodeInternal} {
		if IsConflict(c) {
			t.Errorf("%s should not be a conflict code", c)
		}
	}
}
