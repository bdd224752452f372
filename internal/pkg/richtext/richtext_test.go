package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		contains    []string
		notContains []string
	}{
		{
			name:     "empty",
			source:   "",
			contains: nil,
		},
		{
			name:     "emphasis",
			source:   "please **bring it back**",
			contains: []string{"<strong>bring it back</strong>"},
		},
		{
			name:        "script stripped",
			source:      "nice <script>alert(1)</script>",
			contains:    []string{"nice"},
			notContains: []string{"<script", "alert(1)</script>"},
		},
		{
			name:        "javascript link dropped",
			source:      "[click](javascript:alert(1))",
			notContains: []string{"javascript:"},
		},
		{
			name:     "external link gets rel",
			source:   "[gog](https://www.gog.com)",
			contains: []string{`href="https://www.gog.com"`, "nofollow"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.source)

			if tt.source == "" {
				assert.Empty(t, got)
			}
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, got, s)
			}
		})
	}
}
