package model

import (
	"testing"
	"time"

	"gorm.io/datatypes"
)

func TestEffectiveEnd(t *testing.T) {
	end := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no scheduled end", func(t *testing.T) {
		var test Test
		if _, ok := test.EffectiveEnd(); ok {
			t.Error("open-ended test reported an effective end")
		}
	})

	t.Run("without extension", func(t *testing.T) {
		test := Test{EndTime: &end}
		got, ok := test.EffectiveEnd()
		if !ok || !got.Equal(end) {
			t.Errorf("EffectiveEnd = %v, %v", got, ok)
		}
	})

	t.Run("with global extension", func(t *testing.T) {
		test := Test{EndTime: &end, ExtraMinutes: 10}
		got, _ := test.EffectiveEnd()
		if want := end.Add(10 * time.Minute); !got.Equal(want) {
			t.Errorf("EffectiveEnd = %v, want %v", got, want)
		}
	})
}

func TestAnswerKeyLookups(t *testing.T) {
	key := AnswerKey{
		MCQAnswers: datatypes.JSONMap{"1": "A", "35": "F"},
		WrittenQuestions: datatypes.JSONMap{
			"36": map[string]interface{}{"a": "12", "b": "7"},
		},
	}

	if got, ok := key.CorrectChoice(1); !ok || got != "A" {
		t.Errorf("CorrectChoice(1) = %q, %v", got, ok)
	}
	if got, ok := key.CorrectChoice(35); !ok || got != "F" {
		t.Errorf("CorrectChoice(35) = %q, %v", got, ok)
	}
	if _, ok := key.CorrectChoice(2); ok {
		t.Error("CorrectChoice(2) found a missing question")
	}

	sub := key.WrittenKey(36)
	if len(sub) != 2 || sub["a"] != "12" || sub["b"] != "7" {
		t.Errorf("WrittenKey(36) = %v", sub)
	}
	if got := key.WrittenKey(37); len(got) != 0 {
		t.Errorf("WrittenKey(37) = %v, want empty", got)
	}
}

func TestExtensionsLeft(t *testing.T) {
	tests := []struct {
		extra int
		want  int
	}{
		{0, 3},
		{5, 2},
		{10, 1},
		{15, 0},
		{20, 0},
	}
	for _, tt := range tests {
		s := TestSession{ExtraMinutes: tt.extra}
		if got := s.ExtensionsLeft(); got != tt.want {
			t.Errorf("ExtensionsLeft with %d extra = %d, want %d", tt.extra, got, tt.want)
		}
	}
}
