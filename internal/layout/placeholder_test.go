package layout

import (
	"testing"
	"time"
)

func testContext() Context {
	return Context{
		"patient": map[string]interface{}{
			"full_name": "Jane Doe",
			"age":       float64(42),
			"insured":   true,
			"allergies": []interface{}{"penicillin", "latex"},
		},
		"organization": map[string]interface{}{"name": "Sunrise Clinic"},
		"now":          "2026-09-01 10:30",
	}
}

func TestResolve_ScalarRoundTrip(t *testing.T) {
	got := Resolve("{{patient.full_name}}", testContext())
	if got != "Jane Doe" {
		t.Errorf("expected %q, got %q", "Jane Doe", got)
	}
}

func TestResolve_MissingPathIsBlank(t *testing.T) {
	ctx := testContext()
	for _, path := range []string{
		"{{missing}}",
		"{{patient.missing}}",
		"{{patient.full_name.deeper}}", // scalar reached early
		"{{patient.allergies.9}}",      // index out of range
	} {
		if got := Resolve(path, ctx); got != "" {
			t.Errorf("Resolve(%q) = %q, want empty", path, got)
		}
	}
}

func TestResolve_MultipleTokens(t *testing.T) {
	got := Resolve("{{patient.full_name}} at {{organization.name}}", testContext())
	want := "Jane Doe at Sunrise Clinic"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestResolve_SequenceIndex(t *testing.T) {
	got := Resolve("Allergy: {{patient.allergies.1}}", testContext())
	if got != "Allergy: latex" {
		t.Errorf("unexpected result %q", got)
	}
}

func TestResolve_NumberAndBoolForms(t *testing.T) {
	ctx := testContext()
	if got := Resolve("{{patient.age}}", ctx); got != "42" {
		t.Errorf("expected literal 42, got %q", got)
	}
	if got := Resolve("{{patient.insured}}", ctx); got != "true" {
		t.Errorf("expected true, got %q", got)
	}
}

func TestResolve_NoTokensPassesThrough(t *testing.T) {
	text := "no placeholders here"
	if got := Resolve(text, testContext()); got != text {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestResolve_MappingValueIsBlank(t *testing.T) {
	// A path landing on a mapping has no printable form.
	if got := Resolve("{{patient}}", testContext()); got != "" {
		t.Errorf("expected empty for mapping value, got %q", got)
	}
}

func TestStringify_Time(t *testing.T) {
	ts := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	if got := Stringify(ts); got != "2026-09-01T10:30:00Z" {
		t.Errorf("unexpected time form %q", got)
	}
}

func TestStringify_FloatLiteral(t *testing.T) {
	if got := Stringify(float64(3)); got != "3" {
		t.Errorf("expected 3, got %q", got)
	}
	if got := Stringify(float64(36.6)); got != "36.6" {
		t.Errorf("expected 36.6, got %q", got)
	}
}

func TestTruthy(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"true", true},
		{"yes", true},
		{"1", true},
		{"", false},
		{"false", false},
		{"FALSE", false},
	}
	for _, c := range cases {
		if got := Truthy(c.in); got != c.want {
			t.Errorf("Truthy(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
