package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Accepted pull request reference shapes: owner/repo#number and the
// canonical pull request URL. A bare number is handled separately.
var (
	slugRefPattern = regexp.MustCompile(`^([^/#\s]+)/([^/#\s]+)#(\d+)$`)
	urlRefPattern  = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/]+)/pull/(\d+)(?:[/?#].*)?$`)
)

// ParsePRRef extracts the repository slug and pull request number from a
// command-line reference. A bare number yields an empty slug; the caller
// resolves the repository from --repo or the origin remote.
func ParsePRRef(ref string) (string, int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", 0, fmt.Errorf("empty pull request reference")
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if n <= 0 {
			return "", 0, fmt.Errorf("pull request number must be positive, got %d", n)
		}
		return "", n, nil
	}

	if m := slugRefPattern.FindStringSubmatch(ref); m != nil {
		return parsedRef(m[1], m[2], m[3])
	}
	if m := urlRefPattern.FindStringSubmatch(ref); m != nil {
		return parsedRef(m[1], m[2], m[3])
	}

	return "", 0, fmt.Errorf("cannot parse pull request reference %q (want a number, owner/repo#123, or a pull request URL)", ref)
}

func parsedRef(owner, repo, number string) (string, int, error) {
	n, err := strconv.Atoi(number)
	if err != nil || n <= 0 {
		return "", 0, fmt.Errorf("invalid pull request number %q", number)
	}
	return owner + "/" + repo, n, nil
}
