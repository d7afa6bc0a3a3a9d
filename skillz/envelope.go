// skillz/envelope.go
package skillz

import (
	"strings"

	"github.com/tidwall/gjson"
)

// envelopePaths lists where known response shapes keep the model text, highest priority first.
var envelopePaths = []string{
	"choices.0.message.content",
	"content",
	"text",
	"response",
	"raw_response",
}

// unwrapEnvelope returns the payload text of a raw response body.
// The first path in envelopePaths holding a non-empty value wins. A body that
// is not JSON is returned as is; a JSON body with none of the paths is
// returned compacted, and one whose known paths are all blank yields "".
func unwrapEnvelope(body string) string {
	if !gjson.Valid(body) {
		return body
	}

	sawBlank := false
	for _, path := range envelopePaths {
		r := gjson.Get(body, path)
		if !r.Exists() || r.Type == gjson.Null {
			continue
		}
		if r.Type == gjson.String {
			if strings.TrimSpace(r.Str) == "" {
				sawBlank = true
				continue
			}
			return r.Str
		}
		return r.Raw
	}

	if sawBlank {
		return ""
	}
	return gjson.Get(body, "@ugly").Raw
}
