package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Descriptor is one interaction the classifier reported:
// ["identifier", "element type", "element text or null", "action type"]
type Descriptor struct {
	Identifier  string
	ElementType string
	Text        *string
	Action      string
}

// MarshalJSON encodes the descriptor back into its tuple form
func (d Descriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{d.Identifier, d.ElementType, d.Text, d.Action})
}

// ParseDescriptors extracts the first JSON array of 4-tuples from a model answer.
// Surrounding prose is tolerated, including bracketed text before the array.
// Malformed rows are rejected.
func ParseDescriptors(response string) ([]Descriptor, error) {
	var descriptors []Descriptor
	err := firstArray(response, func(raw string) error {
		d, err := decodeDescriptors(raw)
		if err != nil {
			return err
		}
		descriptors = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return descriptors, nil
}

func decodeDescriptors(raw string) ([]Descriptor, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, fmt.Errorf("failed to parse extracted JSON: %w", err)
	}

	descriptors := make([]Descriptor, 0, len(rows))
	for i, row := range rows {
		var fields []*string
		if err := json.Unmarshal(row, &fields); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if len(fields) != 4 {
			return nil, fmt.Errorf("row %d: expected 4 fields, got %d", i, len(fields))
		}
		for _, idx := range []int{0, 1, 3} {
			if fields[idx] == nil || strings.TrimSpace(*fields[idx]) == "" {
				return nil, fmt.Errorf("row %d: field %d must be a non-empty string", i, idx)
			}
		}
		descriptors = append(descriptors, Descriptor{
			Identifier:  *fields[0],
			ElementType: strings.ToLower(*fields[1]),
			Text:        fields[2],
			Action:      strings.ToLower(*fields[3]),
		})
	}
	return descriptors, nil
}

// ElementObjects returns the raw JSON of every object in the first array of
// objects found in a model answer
func ElementObjects(response string) ([]string, error) {
	var objects []string
	err := firstArray(response, func(raw string) error {
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return fmt.Errorf("failed to parse extracted JSON: %w", err)
		}
		out := make([]string, 0, len(items))
		for i, item := range items {
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(item, &obj); err != nil || obj == nil {
				return fmt.Errorf("item %d: expected a JSON object", i)
			}
			out = append(out, string(item))
		}
		objects = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return objects, nil
}

// ParseResults parses every chunk answer and concatenates the descriptors in order
func ParseResults(results []string) ([]Descriptor, error) {
	var all []Descriptor
	for i, r := range results {
		d, err := ParseDescriptors(r)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		all = append(all, d...)
	}
	return all, nil
}

// firstArray hands every balanced bracket span of response to decode, starting
// from each '[' in turn, until one decodes. The first decode error is reported
// when none does.
func firstArray(response string, decode func(raw string) error) error {
	var firstErr error
	for start := strings.IndexByte(response, '['); start != -1; {
		raw, err := balancedArray(response, start)
		if err == nil {
			err = decode(raw)
			if err == nil {
				return nil
			}
		}
		if firstErr == nil {
			firstErr = err
		}

		next := strings.IndexByte(response[start+1:], '[')
		if next == -1 {
			break
		}
		start += next + 1
	}
	if firstErr == nil {
		return fmt.Errorf("no JSON array found in response")
	}
	return firstErr
}

// balancedArray returns the bracket span opening at start, skipping brackets inside strings
func balancedArray(response string, start int) (string, error) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(response); i++ {
		ch := response[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return response[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("no matching closing bracket found")
}
