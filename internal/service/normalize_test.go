package service

import "testing"

func TestNormalizeAnswer(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims and lowercases", "  X + 1  ", "x + 1"},
		{"collapses whitespace runs", "a \t\n b", "a b"},
		{"folds latex parens", `\left(x\right)`, "(x)"},
		{"folds latex brackets", `\left[0\right]`, "[0]"},
		{"folds cdot", `2\cdot3`, "2*3"},
		{"folds times", `2\times3`, "2*3"},
		{"empty stays empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeAnswer(tt.in); got != tt.want {
				t.Errorf("normalizeAnswer(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSubPartCorrect(t *testing.T) {
	tests := []struct {
		name    string
		student string
		correct string
		want    bool
	}{
		{"exact match", "12", "12", true},
		{"case and spacing ignored", "  X+1 ", "x+1", true},
		{"substring counts", "the answer is 12", "12", true},
		{"wrong answer", "13", "12", false},
		{"blank student never correct", "", "12", false},
		{"blank key never correct", "12", "", false},
		{"notation variants match", `2\times3`, `2\cdot3`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := subPartCorrect(tt.student, tt.correct); got != tt.want {
				t.Errorf("subPartCorrect(%q, %q) = %v, want %v", tt.student, tt.correct, got, tt.want)
			}
		})
	}
}

func TestScoreSubParts(t *testing.T) {
	key := map[string]string{"a": "12", "b": "7"}

	tests := []struct {
		name    string
		student map[string]string
		want    int
	}{
		{"all correct", map[string]string{"a": "12", "b": "7"}, 2},
		{"one correct with verbiage", map[string]string{"a": "the answer is 12", "b": "9"}, 1},
		{"none correct", map[string]string{"a": "1", "b": "2"}, 0},
		{"missing sub-part earns nothing", map[string]string{"a": "12"}, 1},
		{"extra sub-parts ignored", map[string]string{"a": "12", "b": "7", "c": "99"}, 2},
		{"nil student map", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreSubParts(tt.student, key); got != tt.want {
				t.Errorf("scoreSubParts(%v) = %d, want %d", tt.student, got, tt.want)
			}
		})
	}
}
