// Package scriptdata pulls structured payloads out of inline script bodies,
// for upstreams that ship their file index as a javascript variable
// assignment instead of an API response.
package scriptdata

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// ErrNoPayload reports that no script body carried the assignment signature,
// or that a parsed payload was missing the requested field.
var ErrNoPayload = fmt.Errorf("no matching script payload")

// ErrBadPayload reports a body that matched the signature but whose object
// literal could not be isolated or parsed.
var ErrBadPayload = fmt.Errorf("malformed script payload")

type Extractor struct {
	// Variable is the identifier assigned the object literal.
	Variable string
	// ScanPastBadCandidate keeps scanning later bodies when a matching
	// candidate fails to parse. Off by default: the first matching body
	// decides the outcome.
	ScanPastBadCandidate bool
}

func (e Extractor) signature() *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(e.Variable) + `\s*=\s*\{`)
}

// Extract scans the bodies in order and returns the object literal assigned
// to Variable in the first body carrying the assignment signature.
func (e Extractor) Extract(bodies []string) (json.RawMessage, error) {
	sig := e.signature()

	matched := false
	for _, body := range bodies {
		loc := sig.FindStringIndex(body)
		if loc == nil {
			continue
		}
		matched = true

		// loc[1] is just past the opening brace
		literal, ok := balancedObject(body[loc[1]-1:])
		if !ok {
			if e.ScanPastBadCandidate {
				continue
			}
			return nil, fmt.Errorf("%w: unterminated object literal for %q", ErrBadPayload, e.Variable)
		}
		if !json.Valid([]byte(literal)) {
			if e.ScanPastBadCandidate {
				continue
			}
			return nil, fmt.Errorf("%w: object literal for %q is not valid json", ErrBadPayload, e.Variable)
		}
		return json.RawMessage(literal), nil
	}

	if matched {
		return nil, fmt.Errorf("%w: every candidate for %q was malformed", ErrBadPayload, e.Variable)
	}
	return nil, fmt.Errorf("%w: no script assigns %q", ErrNoPayload, e.Variable)
}

// ExtractStrings extracts the payload and then pulls field (an array of
// objects) out of it, returning the named sub-key of every element. A parsed
// payload without the field reports ErrNoPayload so callers can tell "shape
// didn't match" from "matched but empty".
func (e Extractor) ExtractStrings(bodies []string, field, key string) ([]string, error) {
	raw, err := e.Extract(bodies)
	if err != nil {
		return nil, err
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadPayload, err)
	}
	rows, ok := payload[field]
	if !ok {
		return nil, fmt.Errorf("%w: payload has no %q field", ErrNoPayload, field)
	}

	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(rows, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadPayload, err)
	}

	out := []string{}
	for _, entry := range entries {
		rawVal, ok := entry[key]
		if !ok {
			continue
		}
		var val string
		if err := json.Unmarshal(rawVal, &val); err != nil {
			continue
		}
		out = append(out, val)
	}
	return out, nil
}

// balancedObject returns the object literal starting at s[0] == '{', scanning
// to its matching close brace. Braces inside string literals don't count.
func balancedObject(s string) (string, bool) {
	depth := 0
	inString := false
	escaped := false
	for i, c := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}
