package preview

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		contains []string
		absent   []string
	}{
		{
			name:     "response lines become a list",
			body:     "- Hello\n- Hi there",
			contains: []string{"<ul>", "<li>Hello</li>", "<li>Hi there</li>"},
		},
		{
			name:     "inline markdown",
			body:     "- Hello **friend**",
			contains: []string{"<strong>friend</strong>"},
		},
		{
			name:     "structured body is a code block",
			body:     "[HeroCard\n  title = Hi\n]",
			contains: []string{"<pre", "HeroCard"},
			absent:   []string{"<ul>"},
		},
		{
			name:   "raw html escaped",
			body:   "- <script>alert(1)</script>",
			absent: []string{"<script>"},
		},
		{
			name: "empty body",
			body: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.body)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("Render(%q) = %q, want it to contain %q", tt.body, got, s)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(got, s) {
					t.Errorf("Render(%q) = %q, must not contain %q", tt.body, got, s)
				}
			}
		})
	}
}
