package ai

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseDescriptors(t *testing.T) {
	text := `[["login-btn", "button", "Log In", "click"], ["email", "INPUT", null, "Fill"]]`

	got, err := ParseDescriptors(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(got))
	}
	if got[0].Identifier != "login-btn" || got[0].ElementType != "button" || got[0].Text == nil || *got[0].Text != "Log In" || got[0].Action != "click" {
		t.Fatalf("unexpected first descriptor %+v", got[0])
	}
	if got[1].Text != nil {
		t.Fatalf("expected null text, got %q", *got[1].Text)
	}
	if got[1].ElementType != "input" || got[1].Action != "fill" {
		t.Fatalf("expected lowercased vocabulary, got %+v", got[1])
	}
}

func TestParseDescriptorsSkipsSurroundingProse(t *testing.T) {
	text := "Here you go:\n```json\n[[\"a]1\", \"link\", \"Docs [beta]\", \"navigate\"]]\n```\nLet me know!"

	got, err := ParseDescriptors(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 1 || got[0].Identifier != "a]1" || *got[0].Text != "Docs [beta]" {
		t.Fatalf("unexpected descriptors %+v", got)
	}
}

func TestParseDescriptorsRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"no array":      "I found a login button.",
		"unterminated":  `[["a", "button", "x", "click"]`,
		"short row":     `[["a", "button", "click"]]`,
		"not a tuple":   `[{"id": "a"}]`,
		"null action":   `[["a", "button", "x", null]]`,
		"numeric field": `[[1, "button", "x", "click"]]`,
	}
	for name, text := range cases {
		if _, err := ParseDescriptors(text); err == nil {
			t.Fatalf("%s: expected error for %q", name, text)
		}
	}
}

func TestParseResultsKeepsChunkOrder(t *testing.T) {
	results := []string{
		`[["b1", "button", "Go", "click"]]`,
		`[["l1", "link", "Home", "navigate"], ["s1", "select", null, "select"]]`,
	}
	got, err := ParseResults(results)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var ids []string
	for _, d := range got {
		ids = append(ids, d.Identifier)
	}
	if strings.Join(ids, ",") != "b1,l1,s1" {
		t.Fatalf("unexpected order %v", ids)
	}

	if _, err := ParseResults([]string{results[0], "nope"}); err == nil || !strings.Contains(err.Error(), "result 1") {
		t.Fatalf("expected error naming result 1, got %v", err)
	}
}

func TestDescriptorMarshalsAsTuple(t *testing.T) {
	data, err := json.Marshal([]Descriptor{{Identifier: "email", ElementType: "input", Action: "fill"}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `[["email","input",null,"fill"]]` {
		t.Fatalf("unexpected encoding %s", data)
	}
}

func TestParseDescriptorsRetriesAfterBracketedProse(t *testing.T) {
	text := `Found [2] items: [["login-btn", "button", "Log In", "click"], ["q", "input", null, "fill"]]`

	got, err := ParseDescriptors(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 2 || got[0].Identifier != "login-btn" || got[1].Identifier != "q" {
		t.Fatalf("unexpected descriptors %+v", got)
	}
}

func TestParseDescriptorsReportsFirstFailure(t *testing.T) {
	_, err := ParseDescriptors(`See [note] and [["a", "button", "click"]]`)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "failed to parse extracted JSON") {
		t.Fatalf("expected the first candidate's error, got %v", err)
	}
}

func TestElementObjects(t *testing.T) {
	text := "Missing [1]:\n[{\"type\": \"button\", \"cssSelector\": \"#show-text\", \"text\": \"Click [me]\"}]"

	got, err := ElementObjects(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 1 || !strings.Contains(got[0], `"#show-text"`) {
		t.Fatalf("unexpected objects %q", got)
	}

	empty, err := ElementObjects("[]")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty list, got %q, %v", empty, err)
	}

	for _, bad := range []string{"nothing missing", `["#show-text"]`, `[null]`} {
		if _, err := ElementObjects(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
