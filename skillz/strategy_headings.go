// skillz/strategy_headings.go
package skillz

import (
	"strings"

	"golang.org/x/text/cases"
)

// HeadingStrategy reads prose output organised under headings such as
// "Missing Skills:" and "Existing Skills:", collecting the bullet lines below them.
type HeadingStrategy struct{}

type headingWindow int

const (
	windowNone headingWindow = iota
	windowMissing
	windowExisting
)

func (HeadingStrategy) Name() string { return "headings" }

func (HeadingStrategy) Extract(payload string) (Findings, error) {
	folder := cases.Fold()
	var found Findings
	window := windowNone

	for _, line := range strings.Split(payload, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		item, bullet := bulletText(trimmed)
		if !bullet {
			if looksLikeHeading(trimmed) {
				window = nextWindow(window, folder.String(trimmed))
			}
			continue
		}

		switch window {
		case windowMissing:
			found.Missing = append(found.Missing, splitBullet(item)...)
		case windowExisting:
			found.Existing = append(found.Existing, splitBullet(item)...)
		}
	}

	return found, nil
}

// maxHeadingWords bounds plain-text headings like "Existing Skills:".
// Longer lines are prose even when they end with a colon.
const maxHeadingWords = 5

// looksLikeHeading accepts markdown headings ("## ..."), bold lines ("**...**")
// and short lines without sentence punctuation, optionally ending in ':'.
func looksLikeHeading(line string) bool {
	if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "**") {
		return true
	}
	text := strings.TrimSuffix(line, ":")
	if strings.ContainsAny(text, ".,;!?") {
		return false
	}
	return len(strings.Fields(text)) <= maxHeadingWords
}

// nextWindow decides which list the bullets after a header belong to.
// Lines matching no header rule leave the window unchanged.
func nextWindow(current headingWindow, header string) headingWindow {
	switch {
	case strings.Contains(header, "missing") &&
		(strings.Contains(header, "skill") || strings.Contains(header, "requirement")):
		return windowMissing
	case strings.Contains(header, "existing"):
		return windowExisting
	case strings.Contains(header, "recommendation") || strings.Contains(header, "summary"):
		return windowNone
	}
	return current
}

// bulletText reports whether line starts with '-', '•' or a single '*', and returns the rest.
// "**Bold header**" is not a bullet.
func bulletText(line string) (string, bool) {
	if strings.Trim(line, "-*_ ") == "" {
		// markdown rule
		return "", false
	}
	switch {
	case strings.HasPrefix(line, "-"):
		return strings.TrimSpace(line[1:]), true
	case strings.HasPrefix(line, "•"):
		return strings.TrimSpace(strings.TrimPrefix(line, "•")), true
	case strings.HasPrefix(line, "*") && !strings.HasPrefix(line, "**"):
		return strings.TrimSpace(line[1:]), true
	}
	return "", false
}

// splitBullet turns "**GraphQL**: schema design" or "Rust, WebAssembly" into candidates.
func splitBullet(item string) []string {
	item = strings.ReplaceAll(item, "**", "")
	if head, _, ok := strings.Cut(item, ":"); ok && strings.TrimSpace(head) != "" {
		item = head
	}
	return splitLooseList(item)
}
