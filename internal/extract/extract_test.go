package extract

import (
	"reflect"
	"strings"
	"testing"
)

func TestElementsExample(t *testing.T) {
	got, err := Elements(`<button id="b1">Go</button><input id="i1">`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := []string{`<button id="b1">Go</button>`, `<input id="i1"/>`}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestElementsGroupsByTagClass(t *testing.T) {
	doc := `<html><body>
		<a href="/x">Link</a>
		<select name="s"><option>1</option></select>
		<button>First</button>
		<input name="q">
		<button>Second</button>
	</body></html>`

	got, err := Elements(doc)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := []string{
		`<button>First</button>`,
		`<button>Second</button>`,
		`<input name="q"/>`,
		`<a href="/x">Link</a>`,
		`<select name="s"><option>1</option></select>`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestElementsLinkAfterButton(t *testing.T) {
	got, err := Elements(`<a href="/home">Home</a><button>Buy</button>`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(got))
	}
	if !strings.HasPrefix(got[0], "<button") || !strings.HasPrefix(got[1], "<a") {
		t.Fatalf("expected button before link, got %q", got)
	}
}

func TestElementsUnsupportedOnly(t *testing.T) {
	got, err := Elements(`<div><p>text</p><span>more</span><textarea></textarea></div>`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no elements, got %q", got)
	}
}

func TestElementsToleratesMalformedMarkup(t *testing.T) {
	got, err := Elements(`<div><button id="x">Open<p>unclosed <input disabled type="checkbox"`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(got) == 0 || !strings.HasPrefix(got[0], `<button id="x">`) {
		t.Fatalf("expected recovered button, got %q", got)
	}
}

func TestElementsKeepsHiddenAndDisabled(t *testing.T) {
	got, err := Elements(`<input type="hidden" name="csrf"><button disabled style="display:none">X</button>`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected hidden and disabled elements to be kept, got %q", got)
	}
}
