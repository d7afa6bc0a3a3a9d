// skillz/filter.go
package skillz

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

const (
	minSkillLength = 2
	maxSkillLength = 50
)

// noiseSubstrings are lower-case fragments of response metadata that the
// model sometimes leaks into skill arrays.
var noiseSubstrings = []string{
	"timestamp",
	"model_used",
	"device_used",
	"07t",
	"v0.2",
	"mistral",
	"llama",
	"gpt-",
	"claude",
	"gemini",
}

var isoDateTimeRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T`)

// FilterSkills trims every candidate, drops empty, too short, too long and
// metadata-noise entries, then removes exact duplicates keeping first-seen order.
// FilterSkills(FilterSkills(x)) == FilterSkills(x).
func FilterSkills(candidates []string) []string {
	// A Caser is stateful, so each call gets its own.
	folder := cases.Fold()

	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))

	for _, candidate := range candidates {
		skill := strings.TrimSpace(candidate)
		if !validSkill(skill, folder) {
			continue
		}
		if _, dup := seen[skill]; dup {
			continue
		}
		seen[skill] = struct{}{}
		out = append(out, skill)
	}

	return out
}

func validSkill(skill string, folder cases.Caser) bool {
	n := utf8.RuneCountInString(skill)
	if n < minSkillLength || n > maxSkillLength {
		return false
	}
	return !isNoise(skill, folder)
}

func isNoise(skill string, folder cases.Caser) bool {
	if isoDateTimeRe.MatchString(skill) {
		return true
	}
	folded := folder.String(skill)
	for _, noise := range noiseSubstrings {
		if strings.Contains(folded, noise) {
			return true
		}
	}
	return false
}
