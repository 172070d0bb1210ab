package github_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghAdapter "github.com/ericfisherdev/prdeck/internal/adapter/driven/github"
)

func TestResolveToken_PrefersGithubToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_primary")
	t.Setenv("GH_TOKEN", "ghp_secondary")

	token, err := ghAdapter.ResolveToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ghp_primary", token)
}

func TestResolveToken_FallsBackToGHToken(t *testing.T) {
	// Whitespace-only values count as unset.
	t.Setenv("GITHUB_TOKEN", "   ")
	t.Setenv("GH_TOKEN", "ghp_secondary")

	token, err := ghAdapter.ResolveToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ghp_secondary", token)
}
