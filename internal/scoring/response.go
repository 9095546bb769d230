package scoring

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/AndrewDilley/TenderEvaluation/pkg/formatting"
)

var blankRuns = regexp.MustCompile(`\n(?:[ \t]*\n){2,}`)

// ParseResponse splits a scoring response into its report fragment and
// the records in its JSON block.
//
// A response without the delimiter is returned whole as the report with no
// records. Once the delimiter is present, the remainder must contain a JSON
// array of objects that each name a Criterion; any other shape fails with
// a *ResponseError wrapping ErrMalformedResponse.
func ParseResponse(raw, document string) (string, []Record, error) {
	text := strings.ReplaceAll(raw, "\r\n", "\n")

	idx := strings.Index(text, Delimiter)
	if idx < 0 {
		return CleanReport(text), nil, nil
	}

	elements, err := extractArray(text[idx+len(Delimiter):])
	if err != nil {
		return "", nil, malformed(document, raw, "%v", err)
	}

	records := make([]Record, 0, len(elements))
	for i, el := range elements {
		rec, err := decodeRecord(el, document)
		if err != nil {
			return "", nil, malformed(document, raw, "element %d: %v", i, err)
		}
		records = append(records, rec)
	}

	return CleanReport(text[:idx]), records, nil
}

// CleanReport trims blank lines from both ends of a report fragment and
// collapses runs of blank lines to a single one.
func CleanReport(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")

	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}

	return blankRuns.ReplaceAllString(strings.Join(lines[start:end], "\n"), "\n\n")
}

// extractArray returns the elements of the first balanced, valid JSON
// array in s, skipping bracketed prose that does not parse.
func extractArray(s string) ([]json.RawMessage, error) {
	found := false

	for start := strings.IndexByte(s, '['); start >= 0; {
		end := matchBracket(s, start)
		if end < 0 {
			break
		}
		found = true

		if arr, err := formatting.Parse[[]json.RawMessage](s[start : end+1]); err == nil {
			return arr, nil
		}

		next := strings.IndexByte(s[start+1:], '[')
		if next < 0 {
			break
		}
		start += next + 1
	}

	if !found {
		return nil, errors.New("no JSON array found after delimiter")
	}
	return nil, errors.New("JSON array does not parse")
}

// matchBracket returns the index of the ']' closing the '[' at start, or
// -1 when the brackets never balance. Brackets inside JSON strings are
// ignored.
func matchBracket(s string, start int) int {
	depth := 0
	inString, escaped := false, false

	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '[':
			depth++
		case c == ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func decodeRecord(raw json.RawMessage, document string) (Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Record{}, errors.New("not a JSON object")
	}

	criterion, err := stringField(fields, "Criterion")
	if err != nil {
		return Record{}, err
	}
	if criterion == "" {
		return Record{}, errors.New("missing Criterion")
	}

	rec := Record{
		Criterion: criterion,
		Document:  document,
	}

	if v, ok := lookup(fields, ScoreKey(document), "score"); ok {
		if rec.Score, err = parseScore(v); err != nil {
			return Record{}, err
		}
	}

	if v, ok := lookup(fields, AnswerKey(document), "yes/no"); ok {
		if rec.Answer, err = parseAnswer(v); err != nil {
			return Record{}, err
		}
	}

	if rec.Justification, err = stringField(fields, "Justification"); err != nil {
		return Record{}, err
	}

	if v, ok := fields["Sub-Criteria"]; ok {
		if rec.SubCriteria, err = parseSubCriteria(v); err != nil {
			return Record{}, err
		}
	}

	return rec, nil
}

// lookup finds exact, falling back to the first key (in sorted order)
// whose lowercase form ends with suffix. Aggregate columns such as
// "Overall Score" or "Weighted Score" never stand in for a document key.
func lookup(fields map[string]json.RawMessage, exact, suffix string) (json.RawMessage, bool) {
	if v, ok := fields[exact]; ok {
		return v, true
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		lower := strings.ToLower(strings.TrimSpace(k))
		if !strings.HasSuffix(lower, suffix) || aggregateKey(lower) {
			continue
		}
		return fields[k], true
	}
	return nil, false
}

var aggregatePrefixes = []string{"weighted", "overall", "total", "average", "max"}

func aggregateKey(key string) bool {
	for _, p := range aggregatePrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

func stringField(fields map[string]json.RawMessage, key string) (string, error) {
	v, ok := fields[key]
	if !ok || isNull(v) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", errors.New(key + " is not a string")
	}
	return strings.TrimSpace(s), nil
}

func parseScore(v json.RawMessage) (*float64, error) {
	if isNull(v) {
		return nil, nil
	}

	var score float64
	if err := json.Unmarshal(v, &score); err != nil {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, errors.New("score is neither a number nor a string")
		}

		s = strings.TrimSpace(s)
		if before, _, ok := strings.Cut(s, "/"); ok {
			s = strings.TrimSpace(before)
		}
		switch strings.ToLower(s) {
		case "", "n/a", "na", "-":
			return nil, nil
		}

		score, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.New("score " + strconv.Quote(s) + " is not numeric")
		}
	}

	if math.IsNaN(score) || score < 0 || score > 10 {
		return nil, errors.New("score " + strconv.FormatFloat(score, 'f', -1, 64) + " outside 0-10")
	}
	return &score, nil
}

func parseAnswer(v json.RawMessage) (string, error) {
	if isNull(v) {
		return "", nil
	}

	var b bool
	if err := json.Unmarshal(v, &b); err == nil {
		if b {
			return AnswerYes, nil
		}
		return AnswerNo, nil
	}

	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", errors.New("yes/no answer is not a string")
	}

	a := strings.ToLower(strings.TrimSpace(s))
	if _, ok := unanswered[strings.TrimRight(a, ".!")]; ok {
		return "", nil
	}

	switch firstWord(a) {
	case "yes", "y", "true":
		return AnswerYes, nil
	case "no", "n", "false":
		return AnswerNo, nil
	default:
		return "", errors.New("answer " + strconv.Quote(s) + " is not Yes or No")
	}
}

// unanswered holds the answers that mean the document does not address
// the criterion. They leave the cell blank.
var unanswered = map[string]struct{}{
	"":               {},
	"-":              {},
	"n/a":            {},
	"na":             {},
	"not applicable": {},
	"not stated":     {},
	"none":           {},
}

// firstWord returns the leading run of letters in s, so "no - see p.3"
// and "yes." both reduce to their answer word.
func firstWord(s string) string {
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
	if end < 0 {
		return s
	}
	return s[:end]
}

func parseSubCriteria(v json.RawMessage) ([]SubScore, error) {
	if isNull(v) {
		return nil, nil
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		return nil, errors.New("Sub-Criteria is not a list of objects")
	}

	out := make([]SubScore, 0, len(items))
	for _, item := range items {
		var sub SubScore
		var err error

		for _, key := range []string{"name", "Name", "Sub-Criterion"} {
			if sub.Name, err = stringField(item, key); err != nil {
				return nil, err
			}
			if sub.Name != "" {
				break
			}
		}

		if v, ok := lookup(item, "score", "score"); ok {
			if sub.Score, err = parseScore(v); err != nil {
				return nil, err
			}
		}

		if v, ok := lookup(item, "comments", "comments"); ok {
			if sub.Comments, err = parseComments(v); err != nil {
				return nil, err
			}
		}

		out = append(out, sub)
	}
	return out, nil
}

// parseComments accepts a single string or a list of strings.
func parseComments(v json.RawMessage) ([]string, error) {
	if isNull(v) {
		return nil, nil
	}

	var single string
	if err := json.Unmarshal(v, &single); err == nil {
		if single = strings.TrimSpace(single); single == "" {
			return nil, nil
		}
		return []string{single}, nil
	}

	var list []string
	if err := json.Unmarshal(v, &list); err != nil {
		return nil, errors.New("comments are neither a string nor a list of strings")
	}
	return list, nil
}

func isNull(v json.RawMessage) bool {
	return strings.TrimSpace(string(v)) == "null"
}
