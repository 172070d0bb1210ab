package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePRRef_Forms(t *testing.T) {
	tests := []struct {
		name   string
		ref    string
		repo   string
		number int
	}{
		{"bare number", "42", "", 42},
		{"bare number with spaces", "  42  ", "", 42},
		{"slug form", "octocat/hello-world#7", "octocat/hello-world", 7},
		{"slug with dot", "octocat/hello.world#7", "octocat/hello.world", 7},
		{"https url", "https://github.com/octocat/hello-world/pull/123", "octocat/hello-world", 123},
		{"http url", "http://github.com/octocat/hello-world/pull/123", "octocat/hello-world", 123},
		{"url with trailing path", "https://github.com/octocat/hello-world/pull/123/files", "octocat/hello-world", 123},
		{"url with query", "https://github.com/octocat/hello-world/pull/123?w=1", "octocat/hello-world", 123},
		{"url with fragment", "https://github.com/octocat/hello-world/pull/123#discussion_r1", "octocat/hello-world", 123},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, number, err := ParsePRRef(tt.ref)

			require.NoError(t, err)
			assert.Equal(t, tt.repo, repo)
			assert.Equal(t, tt.number, number)
		})
	}
}

func TestParsePRRef_Rejects(t *testing.T) {
	tests := []struct {
		name string
		ref  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"zero", "0"},
		{"negative", "-3"},
		{"word", "soon"},
		{"slug without number", "octocat/hello-world"},
		{"slug with bad number", "octocat/hello-world#abc"},
		{"extra path segment", "a/b/c#1"},
		{"wrong host", "https://gitlab.com/octocat/hello-world/pull/3"},
		{"issue url", "https://github.com/octocat/hello-world/issues/3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParsePRRef(tt.ref)

			require.Error(t, err)
		})
	}
}
