// skillz/strategy.go
package skillz

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Findings is what a single strategy recovered from a payload.
type Findings struct {
	Missing  []string
	Existing []string
}

func (f *Findings) add(other Findings) {
	f.Missing = append(f.Missing, other.Missing...)
	f.Existing = append(f.Existing, other.Existing...)
}

// Strategy recovers skill lists from model output text.
// A Strategy must not keep state between calls.
type Strategy interface {
	Name() string
	Extract(payload string) (Findings, error)
}

// DefaultStrategies returns the cascade in priority order, strictest first.
func DefaultStrategies() []Strategy {
	return []Strategy{
		EscapedCategoryStrategy{},
		LenientJSONStrategy{},
		PartialJSONStrategy{},
		HeadingStrategy{},
	}
}

// runCascade runs every strategy and unions their findings in order.
// A strategy that errors or panics contributes nothing and does not stop the others.
func runCascade(ctx context.Context, log *slog.Logger, strategies []Strategy, payload string) Findings {
	var all Findings
	for _, s := range strategies {
		found, err := runStrategy(s, payload)
		if err != nil {
			log.DebugContext(ctx, "strategy failed", "strategy", s.Name(), "error", err)
			continue
		}
		log.DebugContext(ctx, "strategy finished",
			"strategy", s.Name(),
			"missing", len(found.Missing),
			"existing", len(found.Existing))
		all.add(found)
	}
	return all
}

func runStrategy(s Strategy, payload string) (found Findings, err error) {
	defer func() {
		if r := recover(); r != nil {
			found = Findings{}
			err = fmt.Errorf("strategy %s panicked: %v", s.Name(), r)
		}
	}()
	return s.Extract(payload)
}

////////////////////////////////////////////////////////////////////////
// Shared helpers
////////////////////////////////////////////////////////////////////////

// Category labels used by the model to rank missing skills.
const (
	categoryCritical   = "critical"
	categoryImportant  = "important"
	categoryNiceToHave = "nice_to_have"
)

// placeholderSkills are sentinel strings the model emits instead of real
// critical skills when its analysis was cut short.
var placeholderSkills = map[string]struct{}{
	"Analysis incomplete": {},
}

func dropPlaceholders(category string, skills []string) []string {
	if category != categoryCritical {
		return skills
	}
	out := skills[:0]
	for _, s := range skills {
		if _, ok := placeholderSkills[strings.TrimSpace(s)]; ok {
			continue
		}
		out = append(out, s)
	}
	return out
}

var listSplitRe = regexp.MustCompile(`\s*[,;]\s*`)

// splitLooseList splits bracket contents such as `"Go", 'Rust', \"SQL\"` into bare items.
func splitLooseList(contents string) []string {
	var out []string
	for _, item := range listSplitRe.Split(contents, -1) {
		item = stripQuoting(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// stripQuoting removes escape backslashes and surrounding quotes left over from JSON text.
func stripQuoting(s string) string {
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\\`, ``)
	s = strings.ReplaceAll(s, `\`, ``)
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}
