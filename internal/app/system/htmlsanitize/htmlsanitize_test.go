package htmlsanitize_test

import (
	"testing"

	"github.com/dalemusser/groupwork/internal/app/system/htmlsanitize"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "Hello, World!", "Hello, World!"},
		{"keeps ampersand", "Tom & Jerry", "Tom & Jerry"},
		{"strips tags", "<p><strong>Bold</strong> move</p>", "Bold move"},
		{"removes script", "Hi<script>alert('xss')</script>", "Hi"},
		{"removes iframe", `Content<iframe src="https://evil.com"></iframe>`, "Content"},
		{"trims", "  spaced  ", "spaced"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlsanitize.Text(tt.input); got != tt.want {
				t.Errorf("Text(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsPlainText(t *testing.T) {
	if !htmlsanitize.IsPlainText("") {
		t.Error("expected empty string to be plain text")
	}
	if !htmlsanitize.IsPlainText("a < b") {
		t.Error("expected lone angle bracket to be plain text")
	}
	if htmlsanitize.IsPlainText("<p>Hello</p>") {
		t.Error("expected string with tags to NOT be plain text")
	}
}
