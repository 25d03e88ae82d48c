package github

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	vcsurl "github.com/gitsight/go-vcsurl"

	"github.com/reviewlens/reviewlens/internal/config"
)

var prPathRegexp = regexp.MustCompile(`^(.+?)/pull/(\d+)(?:[/?#].*)?$`)

// PRRef identifies one pull request on a GitHub-compatible host.
type PRRef struct {
	Host   string
	Owner  string
	Repo   string
	Number int
	// APIBaseURL is empty for github.com and points at the /api/v3/
	// endpoint for enterprise hosts.
	APIBaseURL string
}

// Slug returns the short owner/repo#number form used in prompts and logs.
func (r PRRef) Slug() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

// ParsePRURL splits a pull request web URL into its repository part and
// number. The repository part goes through go-vcsurl so the same host
// forms it accepts (https, ssh, bare host/owner/repo) work here too.
func ParsePRURL(raw string) (PRRef, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(raw), "/")
	m := prPathRegexp.FindStringSubmatch(trimmed)
	if m == nil {
		return PRRef{}, config.Errorf("not a pull request URL: %q", raw)
	}

	number, err := strconv.Atoi(m[2])
	if err != nil || number <= 0 {
		return PRRef{}, config.Errorf("invalid pull request number in %q", raw)
	}

	info, err := vcsurl.Parse(m[1])
	if err != nil {
		return PRRef{}, config.Errorf("parse repository URL %q: %v", m[1], err)
	}
	if info.Username == "" || info.Name == "" {
		return PRRef{}, config.Errorf("repository URL %q is missing owner or name", m[1])
	}

	ref := PRRef{
		Host:   string(info.Host),
		Owner:  info.Username,
		Repo:   info.Name,
		Number: number,
	}
	if ref.Host != "" && ref.Host != "github.com" {
		ref.APIBaseURL = fmt.Sprintf("https://%s/api/v3/", ref.Host)
	}
	return ref, nil
}
