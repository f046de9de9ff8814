package refdata

import "testing"

func TestParseType(t *testing.T) {
	for _, typ := range Types() {
		parsed, err := ParseType(string(typ))
		if err != nil {
			t.Fatalf("%s: %v", typ, err)
		}
		if parsed != typ {
			t.Fatalf("parsed %q want %q", parsed, typ)
		}
	}
	if _, err := ParseType("appointments"); err == nil {
		t.Fatal("expected error for type outside the closed set")
	}
}

func TestItemLabelLocaleMatching(t *testing.T) {
	item := Item{
		Type: TypeHealthCenter,
		Code: "hc-001",
		Labels: map[string]string{
			"en": "Central Clinic",
			"es": "Clínica Central",
		},
	}

	cases := []struct {
		locale string
		want   string
	}{
		{"en", "Central Clinic"},
		{"en-US", "Central Clinic"},
		{"es", "Clínica Central"},
		{"es-MX", "Clínica Central"},
		// No match falls back through the matcher, deterministically.
		{"fr", "Central Clinic"},
	}
	for _, tc := range cases {
		if got := item.Label(tc.locale); got != tc.want {
			t.Fatalf("locale %s: got %q want %q", tc.locale, got, tc.want)
		}
	}
}

func TestItemLabelFallsBackToCode(t *testing.T) {
	item := Item{Type: TypeRole, Code: "admin"}
	if got := item.Label("en"); got != "admin" {
		t.Fatalf("got %q, want the code when no labels exist", got)
	}
}
