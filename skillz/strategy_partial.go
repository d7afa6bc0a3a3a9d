// skillz/strategy_partial.go
package skillz

import (
	"regexp"
	"strings"
)

// PartialJSONStrategy scans malformed or truncated JSON for the fields the
// analysis prompt asks for, without requiring the document to parse.
type PartialJSONStrategy struct{}

var (
	skillFocusRe = regexp.MustCompile(`"skill_focus"\s*:\s*"([^"]*)"`)
	projectRe    = regexp.MustCompile(`"project"\s*:\s*"([^"]*)"`)

	// Category keyword and its bracket may be separated by a little text,
	// e.g. `critical skills missing: [...]`.
	looseCategoryRes = []struct {
		category string
		re       *regexp.Regexp
	}{
		{categoryCritical, regexp.MustCompile(`(?i)critical[^\[\]]{0,40}\[([^\]]*)\]`)},
		{categoryImportant, regexp.MustCompile(`(?i)important[^\[\]]{0,40}\[([^\]]*)\]`)},
		{categoryNiceToHave, regexp.MustCompile(`(?i)nice[^\[\]]{0,10}have[^\[\]]{0,40}\[([^\]]*)\]`)},
	}

	usingWithRe  = regexp.MustCompile(`\b(?:using|with)\s+([A-Z][\w.+#-]*(?:\s+[A-Z][\w.+#-]*)*)`)
	capitalRunRe = regexp.MustCompile(`\b[A-Z][\w.+#-]*(?:\s+[A-Z][\w.+#-]*)*`)
)

// knownTechnologies is matched case-sensitively on word boundaries in project text.
var knownTechnologies = []string{
	"Python", "JavaScript", "TypeScript", "Java", "Go", "Rust", "C++", "C#", "Ruby", "PHP", "Kotlin", "Swift",
	"React", "Angular", "Vue", "Node.js", "Express", "Django", "Flask", "FastAPI", "Spring Boot",
	"Docker", "Kubernetes", "Terraform", "Ansible", "Jenkins", "Git", "Linux",
	"AWS", "Azure", "GCP",
	"SQL", "PostgreSQL", "MySQL", "MongoDB", "Redis", "Kafka", "GraphQL", "REST",
	"TensorFlow", "PyTorch", "Pandas", "NumPy",
}

var knownTechnologyRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(knownTechnologies))
	for i, tech := range knownTechnologies {
		res[i] = regexp.MustCompile(`(?:^|[^\w.+#])` + regexp.QuoteMeta(tech) + `(?:$|[^\w+#])`)
	}
	return res
}()

// leadingStopwords are capitalised words that start sentences in project
// descriptions but are never skills themselves.
var leadingStopwords = map[string]struct{}{
	"A": {}, "An": {}, "The": {}, "This": {}, "That": {}, "Your": {}, "Our": {}, "It": {}, "I": {},
	"Build": {}, "Create": {}, "Develop": {}, "Design": {}, "Implement": {}, "Deploy": {}, "Write": {},
	"Set": {}, "Add": {}, "Use": {}, "Using": {}, "With": {}, "Make": {}, "Learn": {}, "Project": {},
}

func (PartialJSONStrategy) Name() string { return "partial" }

func (PartialJSONStrategy) Extract(payload string) (Findings, error) {
	text := normalizeEscapes(payload)
	var found Findings

	for _, m := range skillFocusRe.FindAllStringSubmatch(text, -1) {
		found.Missing = append(found.Missing, m[1])
	}

	for _, m := range projectRe.FindAllStringSubmatch(text, -1) {
		found.Missing = append(found.Missing, skillsFromProject(m[1])...)
	}

	for _, cat := range looseCategoryRes {
		for _, m := range cat.re.FindAllStringSubmatch(text, -1) {
			found.Missing = append(found.Missing, dropPlaceholders(cat.category, splitLooseList(m[1]))...)
		}
	}

	return found, nil
}

// skillsFromProject infers skill names from a free-text project description.
func skillsFromProject(desc string) []string {
	var out []string

	for _, m := range usingWithRe.FindAllStringSubmatch(desc, -1) {
		out = append(out, cleanRun(m[1]))
	}

	for _, run := range capitalRunRe.FindAllString(desc, -1) {
		out = append(out, cleanRun(run))
	}

	for i, re := range knownTechnologyRes {
		if re.MatchString(desc) {
			out = append(out, knownTechnologies[i])
		}
	}

	return out
}

// cleanRun drops leading stopwords and trailing punctuation from a capitalised run.
func cleanRun(run string) string {
	words := strings.Fields(run)
	for len(words) > 0 {
		if _, stop := leadingStopwords[words[0]]; !stop {
			break
		}
		words = words[1:]
	}
	return strings.TrimRight(strings.Join(words, " "), ".,:;-")
}
