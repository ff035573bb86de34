package text

import (
	"strings"
	"testing"
)

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	doc := Normalize("Use  HTTPS\nfor all\n\nendpoints.")

	if doc.Norm != "use https for all endpoints." {
		t.Errorf("Norm = %q, want %q", doc.Norm, "use https for all endpoints.")
	}
	if doc.WordCount != 5 {
		t.Errorf("WordCount = %d, want 5", doc.WordCount)
	}
}

func TestNormalizeCaseFolds(t *testing.T) {
	doc := Normalize("Hash passwords using SHA-256")

	if !strings.Contains(doc.Norm, "sha-256") {
		t.Errorf("Norm should contain lowercased sha-256, got %q", doc.Norm)
	}
}

func TestNormalizeStripsMarkdown(t *testing.T) {
	input := "# Auth Service\n\nBuild a **login** flow with `bcrypt` hashing.\n\n- support logout\n- support password reset\n"
	doc := Normalize(input)

	for _, unwanted := range []string{"#", "**", "`", "- "} {
		if strings.Contains(doc.Norm, unwanted) {
			t.Errorf("Norm still contains markdown syntax %q: %q", unwanted, doc.Norm)
		}
	}
	for _, want := range []string{"auth service", "login", "bcrypt", "logout", "password reset"} {
		if !strings.Contains(doc.Norm, want) {
			t.Errorf("Norm missing %q: %q", want, doc.Norm)
		}
	}
}

func TestNormalizeKeepsCodeBlockContent(t *testing.T) {
	input := "Store the key:\n\n```\napi_key = \"sk-live-1234\"\n```\n"
	doc := Normalize(input)

	if !strings.Contains(doc.Norm, "api_key") {
		t.Errorf("code block content lost: %q", doc.Norm)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t\n"} {
		doc := Normalize(input)
		if doc.Norm != "" {
			t.Errorf("Normalize(%q).Norm = %q, want empty", input, doc.Norm)
		}
		if doc.WordCount != 0 {
			t.Errorf("Normalize(%q).WordCount = %d, want 0", input, doc.WordCount)
		}
	}
}

func TestNormalizeKeepsPathsIntact(t *testing.T) {
	doc := Normalize("/debug/config dumps full config")

	if !strings.Contains(doc.Norm, "/debug/config") {
		t.Errorf("path mangled: %q", doc.Norm)
	}
}
