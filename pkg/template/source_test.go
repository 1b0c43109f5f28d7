package template

import "testing"

func TestParseSource(t *testing.T) {
	cases := []struct {
		raw  string
		kind SourceKind
	}{
		{"templates/page.xml", SourceKindFile},
		{"https://example.com/page.xml", SourceKindURL},
		{"-", SourceKindStream},
	}
	for _, tc := range cases {
		src, err := ParseSource(tc.raw)
		if err != nil {
			t.Fatalf("%s: %v", tc.raw, err)
		}
		if src.Kind() != tc.kind {
			t.Fatalf("%s: expected kind %s, got %s", tc.raw, tc.kind, src.Kind())
		}
	}
	if _, err := ParseSource("  "); err == nil {
		t.Fatalf("expected error for empty source")
	}
}

func TestSourceFromURLPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for invalid URL")
		}
	}()
	SourceFromURL("not a url")
}
