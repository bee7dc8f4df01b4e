package service

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// notationFolds maps equivalent math notations onto one canonical form so
// "\left(x\right)" and "(x)" compare equal, as do "\cdot" and "\times".
var notationFolds = strings.NewReplacer(
	`\left(`, "(",
	`\right)`, ")",
	`\left[`, "[",
	`\right]`, "]",
	`\cdot`, "*",
	`\times`, "*",
)

// normalizeAnswer canonicalizes a written sub-answer for comparison: trim,
// lowercase, collapse whitespace runs, fold notation variants.
func normalizeAnswer(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = notationFolds.Replace(s)
	return s
}

// subPartCorrect compares one named sub-part. The substring allowance
// tolerates extra student verbiage around a correct core answer
// ("the answer is 12" matches key "12").
func subPartCorrect(student, correct string) bool {
	ns := normalizeAnswer(student)
	nc := normalizeAnswer(correct)
	if ns == "" || nc == "" {
		return false
	}
	return ns == nc || strings.Contains(ns, nc)
}

// scoreSubParts counts correct sub-parts against the key. Only sub-parts the
// key defines can earn credit; extra student entries are ignored.
func scoreSubParts(student, correct map[string]string) int {
	score := 0
	for name, correctAnswer := range correct {
		if subPartCorrect(student[name], correctAnswer) {
			score++
		}
	}
	return score
}
