package diffview

import (
	"strings"
	"testing"
)

func TestUnifiedProducesPatch(t *testing.T) {
	a := []byte("line1\nline2\nline3\n")
	b := []byte("line1\nline2 changed\nline3\n")

	body, oversize := Unified("f@v1", "f", a, b, Options{Context: 2})
	if oversize {
		t.Fatalf("unexpected oversize")
	}
	for _, want := range []string{"--- f@v1", "+++ f", "-line2\n", "+line2 changed\n"} {
		if !strings.Contains(body, want) {
			t.Fatalf("patch missing %q:\n%s", want, body)
		}
	}
}

func TestUnifiedIdenticalInputs(t *testing.T) {
	a := []byte("same\ncontent\n")
	body, oversize := Unified("a", "b", a, a, Options{})
	if oversize {
		t.Fatalf("unexpected oversize")
	}
	if body != "" {
		t.Fatalf("expected empty patch for identical inputs, got:\n%s", body)
	}
}

func TestUnifiedOversize(t *testing.T) {
	a := []byte(strings.Repeat("x", 100))
	body, oversize := Unified("a", "b", a, nil, Options{MaxBytes: 50})
	if !oversize {
		t.Fatalf("expected oversize for inputs beyond MaxBytes")
	}
	if !strings.Contains(body, "omitted") {
		t.Fatalf("placeholder body missing omission marker:\n%s", body)
	}
}
