package github

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

// Remote URL shapes that point at github.com: scp-style ssh, https, and
// explicit ssh scheme.
var remotePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^git@github\.com:([^/]+)/(.+?)(?:\.git)?$`),
	regexp.MustCompile(`^https?://github\.com/([^/]+)/(.+?)(?:\.git)?/?$`),
	regexp.MustCompile(`^ssh://git@github\.com/([^/]+)/(.+?)(?:\.git)?$`),
}

// DetectRepo reads the origin remote of the repository containing dir and
// extracts its "owner/repo" slug. It fails when dir is not inside a git
// work tree or origin does not point at github.com.
func DetectRepo(ctx context.Context, dir string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "remote", "get-url", "origin")
	cmd.Dir = dir

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("reading origin remote: %w", err)
	}

	return ParseRemoteURL(strings.TrimSpace(string(out)))
}

// ParseRemoteURL extracts the "owner/repo" slug from a github.com remote
// URL in any of its common forms.
func ParseRemoteURL(remote string) (string, error) {
	for _, re := range remotePatterns {
		if m := re.FindStringSubmatch(remote); m != nil {
			return m[1] + "/" + m[2], nil
		}
	}
	return "", fmt.Errorf("remote %q is not a github.com repository", remote)
}
