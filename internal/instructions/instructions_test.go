package instructions

import (
	"strings"
	"testing"
)

func TestText_MentionsAllTools(t *testing.T) {
	text := Text()
	if text == "" {
		t.Fatal("instructions are empty")
	}

	for _, tool := range []string{"ensure_website", "get_website", "read_file", "write_file", "update_file"} {
		if !strings.Contains(text, tool) {
			t.Errorf("instructions missing tool %s", tool)
		}
	}
	for _, file := range []string{"index.html", "styles.css", "script.js"} {
		if !strings.Contains(text, file) {
			t.Errorf("instructions missing file %s", file)
		}
	}
}
