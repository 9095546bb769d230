package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content cannot be parsed as JSON,
// either directly or from a markdown code fence.
var ErrParseFailed = errors.New("failed to parse response")

// errExcerptLength bounds how much of a model response an error message carries.
const errExcerptLength = 200

var jsonBlockRegex = regexp.MustCompile("(?s)```(?i:json)?[ \\t]*\\n?(.*?)\\n?```")

// Parse unmarshals model output as JSON into T. Language models often wrap
// JSON in a ```json fence, so when direct parsing fails the first fenced
// block is tried. The returned error carries a truncated excerpt of content.
func Parse[T any](content string) (T, error) {
	var result T
	content = strings.TrimSpace(content)

	if err := json.Unmarshal([]byte(content), &result); err == nil {
		return result, nil
	}

	if matches := jsonBlockRegex.FindStringSubmatch(content); len(matches) >= 2 {
		cleaned := strings.TrimSpace(matches[1])
		if err := json.Unmarshal([]byte(cleaned), &result); err == nil {
			return result, nil
		}
	}

	return result, fmt.Errorf("%w: %s", ErrParseFailed, Truncate(content, errExcerptLength))
}
