package service

import (
	"errors"
	"testing"
	"time"

	"github.com/davrbek/examgate/internal/apperr"
	"github.com/davrbek/examgate/internal/model"
)

func TestEvaluateWindow(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	start := base
	end := base.Add(2 * time.Hour)

	tests := []struct {
		name     string
		test     model.Test
		now      time.Time
		wantCode apperr.Code
	}{
		{
			name: "inside the window",
			test: model.Test{StartTime: &start, EndTime: &end},
			now:  base.Add(time.Hour),
		},
		{
			name:     "before the start",
			test:     model.Test{StartTime: &start, EndTime: &end},
			now:      base.Add(-time.Minute),
			wantCode: apperr.CodeTestNotStarted,
		},
		{
			name:     "exactly at the end",
			test:     model.Test{StartTime: &start, EndTime: &end},
			now:      end,
			wantCode: apperr.CodeTestEnded,
		},
		{
			name:     "after the end",
			test:     model.Test{StartTime: &start, EndTime: &end},
			now:      end.Add(time.Minute),
			wantCode: apperr.CodeTestEnded,
		},
		{
			name: "global extension reopens the window",
			test: model.Test{StartTime: &start, EndTime: &end, ExtraMinutes: 10},
			now:  end.Add(5 * time.Minute),
		},
		{
			name: "open-ended test always admits",
			test: model.Test{},
			now:  base,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := evaluateWindow(&tt.test, tt.now)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("evaluateWindow: %v", err)
				}
				return
			}
			if apperr.CodeOf(err) != tt.wantCode {
				t.Errorf("code = %v, want %v", apperr.CodeOf(err), tt.wantCode)
			}
		})
	}
}

func TestComputeExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	defaultDur := 90 * time.Minute

	t.Run("open-ended test runs the default duration", func(t *testing.T) {
		got := computeExpiry(&model.Test{}, now, defaultDur)
		if want := now.Add(defaultDur); !got.Equal(want) {
			t.Errorf("expiry = %v, want %v", got, want)
		}
	})

	t.Run("scheduled test pins expiry to the window end", func(t *testing.T) {
		// Starting 10 minutes before the end leaves only those 10 minutes.
		end := now.Add(10 * time.Minute)
		got := computeExpiry(&model.Test{EndTime: &end}, now, defaultDur)
		if !got.Equal(end) {
			t.Errorf("expiry = %v, want %v", got, end)
		}
	})

	t.Run("global extension moves the pinned expiry", func(t *testing.T) {
		end := now.Add(10 * time.Minute)
		got := computeExpiry(&model.Test{EndTime: &end, ExtraMinutes: 5}, now, defaultDur)
		if want := end.Add(5 * time.Minute); !got.Equal(want) {
			t.Errorf("expiry = %v, want %v", got, want)
		}
	})
}

func TestApplyExtension(t *testing.T) {
	expires := time.Date(2025, 3, 1, 11, 30, 0, 0, time.UTC)

	t.Run("three grants then the cap", func(t *testing.T) {
		s := model.TestSession{ExpiresAt: expires}
		for i := 1; i <= 3; i++ {
			if err := applyExtension(&s, model.ExtendStepMinutes); err != nil {
				t.Fatalf("grant %d: %v", i, err)
			}
			if s.ExtraMinutes != i*model.ExtendStepMinutes {
				t.Fatalf("grant %d: ExtraMinutes = %d", i, s.ExtraMinutes)
			}
		}
		if want := expires.Add(15 * time.Minute); !s.ExpiresAt.Equal(want) {
			t.Errorf("ExpiresAt = %v, want %v", s.ExpiresAt, want)
		}
		if s.ExtensionsLeft() != 0 {
			t.Errorf("ExtensionsLeft = %d, want 0", s.ExtensionsLeft())
		}

		err := applyExtension(&s, model.ExtendStepMinutes)
		if apperr.CodeOf(err) != apperr.CodeMaxExtensions {
			t.Errorf("fourth grant: code = %v, want %v", apperr.CodeOf(err), apperr.CodeMaxExtensions)
		}
		if s.ExtraMinutes != model.MaxExtraMinutes {
			t.Errorf("ExtraMinutes moved past the cap: %d", s.ExtraMinutes)
		}
	})

	t.Run("submitted session cannot be extended", func(t *testing.T) {
		s := model.TestSession{ExpiresAt: expires, IsSubmitted: true}
		err := applyExtension(&s, model.ExtendStepMinutes)
		if apperr.CodeOf(err) != apperr.CodeAlreadySubmitted {
			t.Errorf("code = %v, want %v", apperr.CodeOf(err), apperr.CodeAlreadySubmitted)
		}
	})
}

func TestGenerateSessionToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := generateSessionToken()
		if err != nil {
			t.Fatalf("generateSessionToken: %v", err)
		}
		if len(token) < 40 {
			t.Fatalf("token too short: %q", token)
		}
		if seen[token] {
			t.Fatalf("duplicate token after %d draws", i)
		}
		seen[token] = true
	}
}

func TestSessionValidity(t *testing.T) {
	started := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	expires := started.Add(90 * time.Minute)
	s := model.TestSession{StartedAt: started, ExpiresAt: expires}

	if !s.IsValid(started.Add(time.Hour)) {
		t.Error("session invalid inside its window")
	}
	if s.IsValid(expires) {
		t.Error("session valid exactly at expiry")
	}
	if got := s.TimeRemaining(started); got != 90*60 {
		t.Errorf("TimeRemaining at start = %d, want %d", got, 90*60)
	}
	if got := s.TimeRemaining(expires.Add(time.Hour)); got != 0 {
		t.Errorf("TimeRemaining past expiry = %d, want 0", got)
	}

	s.IsSubmitted = true
	if s.IsValid(started) {
		t.Error("submitted session still valid")
	}
	if s.TimeRemaining(started) != 0 {
		t.Error("submitted session reports time remaining")
	}
}

func TestWindowErrorsAreTagged(t *testing.T) {
	end := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	err := evaluateWindow(&model.Test{EndTime: &end}, end.Add(time.Minute))
	if err == nil {
		t.Fatal("expected an error past the window end")
	}
	if !errors.Is(err, apperr.New(apperr.CodeTestEnded, "")) {
		t.Error("window error does not match by code")
	}
	if !apperr.IsConflict(apperr.CodeOf(err)) {
		t.Error("window error not classified as a conflict")
	}
}
