// Package version describes the running build and looks up newer globe
// releases on GitHub.
package version

import (
	"cmp"
	"context"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/dbmrq/globe/internal/api"
	"github.com/dbmrq/globe/internal/logging"
)

const (
	// GitHubRepo is where globe releases are published.
	GitHubRepo = "dbmrq/globe"

	// DefaultAPIBase is the GitHub REST API root.
	DefaultAPIBase = "https://api.github.com"

	lookupTimeout = 10 * time.Second
)

// Build describes the running binary.
type Build struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Current returns the Build for the values stamped in at link time.
func Current(version, commit, date string) Build {
	return Build{
		Version:   version,
		Commit:    commit,
		Date:      date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (b Build) String() string {
	return fmt.Sprintf("globe %s (%s, %s)", b.Version, b.Commit, b.Date)
}

// Long lists every field, one per line.
func (b Build) Long() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "globe %s\n", b.Version)
	for _, row := range [][2]string{
		{"commit", b.Commit},
		{"built", b.Date},
		{"go", b.GoVersion},
		{"platform", b.Platform},
	} {
		fmt.Fprintf(&sb, "  %-9s %s\n", row[0]+":", row[1])
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Release is the part of a GitHub release globe reports.
type Release struct {
	Tag       string `json:"tag_name"`
	Name      string `json:"name"`
	URL       string `json:"html_url"`
	Published string `json:"published_at"`
}

// ReleaseSource reads the latest release of a repository through the
// same request path the backend client uses.
type ReleaseSource struct {
	repo   string
	base   string
	hc     *http.Client
	client *api.Client
}

// SourceOption configures a ReleaseSource.
type SourceOption func(*ReleaseSource)

// WithRepo looks up releases of owner/name instead of GitHubRepo.
func WithRepo(repo string) SourceOption {
	return func(s *ReleaseSource) { s.repo = repo }
}

// WithAPIBase points the source at another API root, e.g. a test server.
func WithAPIBase(base string) SourceOption {
	return func(s *ReleaseSource) { s.base = strings.TrimRight(base, "/") }
}

// WithHTTPClient sends requests through hc. The default client gives up
// after ten seconds.
func WithHTTPClient(hc *http.Client) SourceOption {
	return func(s *ReleaseSource) { s.hc = hc }
}

// NewReleaseSource creates a ReleaseSource for GitHubRepo.
func NewReleaseSource(opts ...SourceOption) *ReleaseSource {
	s := &ReleaseSource{repo: GitHubRepo, base: DefaultAPIBase}
	for _, opt := range opts {
		opt(s)
	}
	if s.base == "" {
		s.base = DefaultAPIBase
	}

	apiOpts := []api.Option{api.WithLogger(logging.With("component", "version"))}
	if s.hc != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(s.hc))
	} else {
		apiOpts = append(apiOpts, api.WithTimeout(lookupTimeout))
	}
	s.client = api.New(s.base, apiOpts...)
	return s
}

// Latest returns the newest published release.
func (s *ReleaseSource) Latest(ctx context.Context) (*Release, error) {
	var rel Release
	err := s.client.Do(ctx, api.Request{
		URL: fmt.Sprintf("%s/repos/%s/releases/latest", s.base, s.repo),
		Headers: map[string]string{
			"Accept":     "application/vnd.github+json",
			"User-Agent": "globe/" + s.repo,
		},
	}, &rel)
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// Newer returns the latest release when it is ahead of current, and nil
// when current is up to date.
func (s *ReleaseSource) Newer(ctx context.Context, current string) (*Release, error) {
	rel, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if Compare(rel.Tag, current) > 0 {
		return rel, nil
	}
	return nil, nil
}

// semver holds major, minor and patch. Missing or non-numeric parts are 0.
type semver [3]int

func parseSemver(v string) semver {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	core, _, _ := strings.Cut(v, "-")
	core, _, _ = strings.Cut(core, "+")

	var sv semver
	for i, part := range strings.SplitN(core, ".", 3) {
		n, err := strconv.Atoi(part)
		if err != nil {
			break
		}
		sv[i] = n
	}
	return sv
}

// Compare orders two version strings by major, minor and patch. Pre-release
// and build suffixes are ignored.
func Compare(a, b string) int {
	va, vb := parseSemver(a), parseSemver(b)
	for i := range va {
		if c := cmp.Compare(va[i], vb[i]); c != 0 {
			return c
		}
	}
	return 0
}
