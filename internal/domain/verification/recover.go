package verification

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var (
	// ErrEmptyReply is returned before any parsing when there is no text at all.
	ErrEmptyReply = errors.New("empty text")
	// ErrUnrecoverable is returned when neither the candidate nor its repair is valid JSON.
	ErrUnrecoverable = errors.New("reply is not valid JSON")
)

var (
	rxOpeningFence = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	rxClosingFence = regexp.MustCompile("\\s*```$")
	rxCommaObject  = regexp.MustCompile(`,\s*}`)
	rxCommaArray   = regexp.MustCompile(`,\s*]`)
)

// Recover extracts a JSON object from a model reply that may be wrapped in a
// code fence, surrounded by prose, or carry trailing commas. It is a
// best-effort normalizer, not a general JSON repair.
//
// Only a top-level object is accepted; valid JSON such as 123 or [1,2] is
// rejected with ErrUnrecoverable. Numbers are kept as json.Number so long
// digit strings (NIK, card numbers) survive re-encoding unchanged.
func Recover(text string) (Result, error) {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return nil, ErrEmptyReply
	}

	if strings.HasPrefix(cleaned, "```") {
		cleaned = rxOpeningFence.ReplaceAllString(cleaned, "")
		cleaned = strings.TrimSpace(rxClosingFence.ReplaceAllString(cleaned, ""))
	}

	candidate := cleaned
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start != -1 && end > start {
		candidate = cleaned[start : end+1]
	}

	out, err := decodeObject(candidate)
	if err == nil {
		return out, nil
	}

	repaired := rxCommaObject.ReplaceAllString(candidate, "}")
	repaired = rxCommaArray.ReplaceAllString(repaired, "]")
	out, err = decodeObject(repaired)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecoverable, err)
	}
	return out, nil
}

func decodeObject(s string) (Result, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var out Result
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid character after top-level value")
	}
	// "null" decodes into a nil map without error
	if out == nil {
		return nil, errors.New("JSON value is not an object")
	}
	return out, nil
}
