package content

import (
	"reflect"
	"testing"
)

func TestParseTechListTrimsAndDropsBlanks(t *testing.T) {
	got := ParseTechList(" Go ,  Postgres,, Redis ,")
	want := []string{"Go", "Postgres", "Redis"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestParseTechListEmptyInput(t *testing.T) {
	if got := ParseTechList(""); len(got) != 0 {
		t.Fatalf("expected empty list got %v", got)
	}
	if got := ParseTechList(" , , "); len(got) != 0 {
		t.Fatalf("expected empty list got %v", got)
	}
}

func TestTechListRoundTrip(t *testing.T) {
	original := "Go, Postgres, Redis"
	list := ParseTechList(original)
	if joined := JoinTechList(list); joined != original {
		t.Fatalf("round trip changed value: %q -> %q", original, joined)
	}
}

func TestTechListJSONNeverNull(t *testing.T) {
	if got := string(TechListJSON(nil)); got != "[]" {
		t.Fatalf("nil list must encode as empty array, got %s", got)
	}
	if got := string(TechListJSON([]string{})); got != "[]" {
		t.Fatalf("empty list must encode as empty array, got %s", got)
	}
}

func TestTechListFromJSON(t *testing.T) {
	list := TechListFromJSON(TechListJSON([]string{"Go", "Redis"}))
	if !reflect.DeepEqual(list, []string{"Go", "Redis"}) {
		t.Fatalf("unexpected list %v", list)
	}
	if got := TechListFromJSON(nil); len(got) != 0 {
		t.Fatalf("nil column must decode to empty list, got %v", got)
	}
	if got := TechListFromJSON([]byte("not json")); len(got) != 0 {
		t.Fatalf("malformed column must decode to empty list, got %v", got)
	}
}

func TestOptionalStringBlankIsAbsence(t *testing.T) {
	if got := OptionalString(""); got != nil {
		t.Fatalf("empty string must map to nil, got %q", *got)
	}
	if got := OptionalString("   "); got != nil {
		t.Fatalf("blank string must map to nil, got %q", *got)
	}
	got := OptionalString("  https://example.com  ")
	if got == nil || *got != "https://example.com" {
		t.Fatalf("expected trimmed value, got %v", got)
	}
}
