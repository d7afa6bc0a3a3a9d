// skillz/strategy_escaped.go
package skillz

import (
	"regexp"
	"strings"
)

// EscapedCategoryStrategy handles payloads whose JSON was serialized twice,
// e.g. `\"critical\": [\"Docker\", \"Kubernetes\"]`. The backslash before the
// closing quote of the key is required, so plain JSON never matches here.
//
// This quirk was observed with one hosted model; keep it self-contained so it
// can be dropped from the cascade for other backends.
type EscapedCategoryStrategy struct{}

var escapedCategoryRes = []struct {
	category string
	re       *regexp.Regexp
}{
	{categoryCritical, regexp.MustCompile(`critical\\+"\s*:\s*\[([^\]]*)\]`)},
	{categoryImportant, regexp.MustCompile(`important\\+"\s*:\s*\[([^\]]*)\]`)},
	{categoryNiceToHave, regexp.MustCompile(`nice\\*_to\\*_have\\+"\s*:\s*\[([^\]]*)\]`)},
}

// escapedItemSep matches the `\", \"` delimiter between items.
var escapedItemSep = regexp.MustCompile(`\\+"\s*,\s*\\+"`)

func (EscapedCategoryStrategy) Name() string { return "escaped" }

func (EscapedCategoryStrategy) Extract(payload string) (Findings, error) {
	var found Findings
	if !looksDoubleEscaped(payload) {
		return found, nil
	}
	for _, cat := range escapedCategoryRes {
		for _, m := range cat.re.FindAllStringSubmatch(payload, -1) {
			var items []string
			for _, part := range escapedItemSep.Split(m[1], -1) {
				if item := stripQuoting(part); item != "" {
					items = append(items, item)
				}
			}
			found.Missing = append(found.Missing, dropPlaceholders(cat.category, items)...)
		}
	}
	return found, nil
}

// looksDoubleEscaped reports whether payload carries escaped quotes at all.
func looksDoubleEscaped(payload string) bool {
	return strings.Contains(payload, `\"`)
}
