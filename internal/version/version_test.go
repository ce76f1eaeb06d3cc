package version

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gerrors "github.com/dbmrq/globe/internal/errors"
)

func TestCurrent(t *testing.T) {
	b := Current("1.0.0", "abc123", "2024-01-01")

	if b.Version != "1.0.0" || b.Commit != "abc123" || b.Date != "2024-01-01" {
		t.Errorf("Current() = %+v", b)
	}
	if b.GoVersion == "" || !strings.Contains(b.Platform, "/") {
		t.Errorf("runtime fields not set: %+v", b)
	}
	if s := b.String(); s != "globe 1.0.0 (abc123, 2024-01-01)" {
		t.Errorf("String() = %q", s)
	}

	long := b.Long()
	for _, want := range []string{"globe 1.0.0", "commit:", "abc123", "platform:"} {
		if !strings.Contains(long, want) {
			t.Errorf("Long() missing %q:\n%s", want, long)
		}
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.1", "1.0.0", 1},
		{"1.0.0", "1.0.1", -1},
		{"10.0.0", "2.0.0", 1},
		{"1.10.0", "1.2.0", 1},
		{"v1.0.0", "1.0.0", 0},
		{"1.0.0-rc1", "1.0.0", 0},
		{"1.2.3+build5", "1.2.3", 0},
		{"1.1", "1.0.9", 1},
		{"dev", "0.0.1", -1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestParseSemver(t *testing.T) {
	tests := []struct {
		in   string
		want semver
	}{
		{"1.2.3", semver{1, 2, 3}},
		{"1.0", semver{1, 0, 0}},
		{"v2.3.4-beta.1", semver{2, 3, 4}},
		{"1.x.3", semver{1, 0, 0}},
		{"", semver{}},
	}
	for _, tt := range tests {
		if got := parseSemver(tt.in); got != tt.want {
			t.Errorf("parseSemver(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func newReleaseServer(t *testing.T, tag string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/test/repo/releases/latest" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		if !strings.HasPrefix(r.Header.Get("Accept"), "application/vnd.github") {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		json.NewEncoder(w).Encode(Release{
			Tag: tag,
			URL: "https://github.com/test/repo/releases/" + tag,
		})
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newSource(ts *httptest.Server, repo string) *ReleaseSource {
	return NewReleaseSource(WithRepo(repo), WithAPIBase(ts.URL+"/"), WithHTTPClient(ts.Client()))
}

func TestReleaseSource_Latest(t *testing.T) {
	ts := newReleaseServer(t, "v1.2.3")

	rel, err := newSource(ts, "test/repo").Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if rel.Tag != "v1.2.3" || !strings.HasSuffix(rel.URL, "/v1.2.3") {
		t.Errorf("Latest() = %+v", rel)
	}
}

func TestReleaseSource_LatestNotFound(t *testing.T) {
	ts := newReleaseServer(t, "v1.2.3")

	_, err := newSource(ts, "other/repo").Latest(context.Background())
	if gerrors.Status(err) != http.StatusNotFound {
		t.Errorf("expected a 404 status error, got %v", err)
	}
}

func TestReleaseSource_Newer(t *testing.T) {
	ts := newReleaseServer(t, "v2.0.0")
	src := newSource(ts, "test/repo")

	rel, err := src.Newer(context.Background(), "1.0.0")
	if err != nil {
		t.Fatalf("Newer() error = %v", err)
	}
	if rel == nil || rel.Tag != "v2.0.0" {
		t.Errorf("expected v2.0.0 to be offered, got %+v", rel)
	}

	rel, err = src.Newer(context.Background(), "v2.0.0")
	if err != nil {
		t.Fatalf("Newer() error = %v", err)
	}
	if rel != nil {
		t.Errorf("current version should not be offered an update, got %+v", rel)
	}
}

func TestNewReleaseSource_Defaults(t *testing.T) {
	s := NewReleaseSource()
	if s.repo != GitHubRepo || s.base != DefaultAPIBase {
		t.Errorf("defaults = %q %q", s.repo, s.base)
	}
	if s.client == nil {
		t.Error("client should be set")
	}
}
