package prompts

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		key      string
		wantErr  bool
	}{
		{"existing system prompt", "book.json", "system", false},
		{"existing user prompt", "book.json", "user", false},
		{"missing key", "book.json", "nonexistent", true},
		{"missing file", "missing.json", "system", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, err := Get(tt.filename, tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("Get() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && prompt == "" {
				t.Error("Get() returned an empty prompt")
			}
		})
	}
}

func TestMustGetPanicsOnMissing(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustGet should panic on a missing prompt")
		}
	}()
	MustGet("book.json", "nonexistent")
}

func TestFormat(t *testing.T) {
	template := "Write about {{.Topic}} for {{.Audience}} in a {{.Style}} tone."
	data := map[string]string{
		"Topic":    "chess",
		"Audience": "kids",
		"Style":    "playful",
	}

	got := Format(template, data)
	want := "Write about chess for kids in a playful tone."
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestFormatLeavesUnknownPlaceholders(t *testing.T) {
	got := Format("Hello {{.Name}}", map[string]string{"Other": "x"})
	if got != "Hello {{.Name}}" {
		t.Errorf("Format() = %q, want placeholder untouched", got)
	}
}

func TestBookPromptsHavePlaceholders(t *testing.T) {
	user := MustGet("book.json", "user")
	for _, placeholder := range []string{"{{.Topic}}", "{{.Audience}}", "{{.Style}}", "{{.LengthBand}}"} {
		if !strings.Contains(user, placeholder) {
			t.Errorf("user prompt missing placeholder %s", placeholder)
		}
	}

	system := MustGet("book.json", "system")
	if !strings.Contains(system, "{{.StyleInstruction}}") {
		t.Error("system prompt missing {{.StyleInstruction}}")
	}
}
