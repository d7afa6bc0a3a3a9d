// skillz/strategy_json.go
package skillz

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

var errNotJSON = errors.New("payload is not a JSON object")

// LenientJSONStrategy parses the payload as a JSON document after undoing the
// escape artifacts models commonly add. A string-valued raw_response field is
// parsed as a nested document, one level deep.
type LenientJSONStrategy struct{}

func (LenientJSONStrategy) Name() string { return "json" }

func (LenientJSONStrategy) Extract(payload string) (Findings, error) {
	doc, ok := parseLenient(payload)
	if !ok {
		return Findings{}, errNotJSON
	}

	found := readSkillDocument(doc)

	if nested := gjson.Get(doc, "raw_response"); nested.Type == gjson.String {
		if inner, ok := parseLenient(nested.Str); ok {
			found.add(readSkillDocument(inner))
		}
	}

	return found, nil
}

// escapeReplacer undoes `\_`, `\"` and `\\` in a single left-to-right pass.
var escapeReplacer = strings.NewReplacer(`\_`, `_`, `\"`, `"`, `\\`, `\`)

func normalizeEscapes(s string) string {
	return escapeReplacer.Replace(s)
}

// stripFences removes a surrounding markdown code block.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "```") {
		return s
	}
	start := strings.Index(s, "```")
	body := s[start+3:]
	body = strings.TrimPrefix(body, "json")
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// objectSlice returns the text between the first '{' and the last '}'.
func objectSlice(s string) (string, bool) {
	i := strings.Index(s, "{")
	j := strings.LastIndex(s, "}")
	if i < 0 || j <= i {
		return "", false
	}
	return s[i : j+1], true
}

// parseLenient returns a JSON object document recovered from text, trying the
// text as is, then with escapes normalised, then the outermost {...} slice of each.
// A JSON string that itself holds an object is unwrapped.
func parseLenient(text string) (string, bool) {
	text = stripFences(text)
	normalized := normalizeEscapes(text)

	candidates := []string{text, normalized}
	if slice, ok := objectSlice(text); ok {
		candidates = append(candidates, slice)
	}
	if slice, ok := objectSlice(normalized); ok {
		candidates = append(candidates, slice)
	}

	for _, c := range candidates {
		if !gjson.Valid(c) {
			continue
		}
		r := gjson.Parse(c)
		if r.IsObject() {
			return c, true
		}
		if r.Type == gjson.String && gjson.Valid(r.Str) && gjson.Parse(r.Str).IsObject() {
			return r.Str, true
		}
	}
	return "", false
}

// readSkillDocument pulls skills out of a parsed analysis document. missing_skills
// may be a category object or a flat array; a document without it may carry the
// categories at the top level.
func readSkillDocument(doc string) Findings {
	var found Findings

	categories := gjson.Get(doc, "missing_skills")
	switch {
	case categories.IsObject():
		found.Missing = append(found.Missing, readCategories(categories)...)
	case categories.IsArray() || categories.Type == gjson.String:
		found.Missing = append(found.Missing, stringItems(categories)...)
	case !categories.Exists():
		found.Missing = append(found.Missing, readCategories(gjson.Parse(doc))...)
	}

	for _, key := range []string{"existing_skills", "matching_skills"} {
		found.Existing = append(found.Existing, stringItems(gjson.Get(doc, key))...)
	}

	return found
}

func readCategories(obj gjson.Result) []string {
	var out []string
	for _, category := range []string{categoryCritical, categoryImportant, categoryNiceToHave} {
		out = append(out, dropPlaceholders(category, stringItems(obj.Get(category)))...)
	}
	return out
}

// stringItems accepts ["a","b"], [{"skill":"a"}], [{"name":"a"}] or "a, b".
func stringItems(r gjson.Result) []string {
	var out []string
	switch {
	case r.IsArray():
		for _, el := range r.Array() {
			switch {
			case el.Type == gjson.String:
				out = append(out, el.Str)
			case el.IsObject():
				if v := el.Get("skill"); v.Type == gjson.String {
					out = append(out, v.Str)
				} else if v := el.Get("name"); v.Type == gjson.String {
					out = append(out, v.Str)
				}
			}
		}
	case r.Type == gjson.String:
		out = append(out, splitLooseList(r.Str)...)
	}
	return out
}
