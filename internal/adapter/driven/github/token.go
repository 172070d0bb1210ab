package github

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/ericfisherdev/prdeck/internal/domain/port/driven"
)

// ResolveToken finds a GitHub token. The GITHUB_TOKEN and GH_TOKEN
// environment variables are tried first, then the gh CLI's stored
// credential. The subprocess call is bounded so a hung gh never stalls
// startup.
func ResolveToken(ctx context.Context) (string, error) {
	for _, name := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		if token := strings.TrimSpace(os.Getenv(name)); token != "" {
			slog.Debug("github token resolved", "source", name)
			return token, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, "gh", "auth", "token").Output()
	if err == nil {
		if token := strings.TrimSpace(string(out)); token != "" {
			slog.Debug("github token resolved", "source", "gh auth token")
			return token, nil
		}
	}

	return "", fmt.Errorf("%w: set GITHUB_TOKEN or run `gh auth login`", driven.ErrAuthRequired)
}
