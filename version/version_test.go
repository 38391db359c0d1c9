package version

import (
	"runtime/debug"
	"testing"
)

func withBuildInfo(t *testing.T, bi *debug.BuildInfo, ok bool) {
	t.Helper()
	origRead, origVersion := readBuildInfo, Version
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, ok }
	t.Cleanup(func() {
		readBuildInfo = origRead
		Version = origVersion
	})
}

func TestGetVersionInfo(t *testing.T) {
	tests := []struct {
		name        string
		ldflags     string
		bi          *debug.BuildInfo
		ok          bool
		wantVersion string
		wantSource  string
		wantRelease bool
	}{
		{
			name:        "no build info",
			wantVersion: "dev",
			wantSource:  SourceDefault,
		},
		{
			name:        "ldflags wins",
			ldflags:     "1.2.0",
			bi:          &debug.BuildInfo{Deps: []*debug.Module{{Path: ModulePath, Version: "v0.9.0"}}},
			ok:          true,
			wantVersion: "1.2.0",
			wantSource:  SourceLDFlags,
			wantRelease: true,
		},
		{
			name:        "dependency version",
			bi:          &debug.BuildInfo{GoVersion: "go1.26.0", Deps: []*debug.Module{{Path: "other", Version: "v1"}, {Path: ModulePath, Version: "v0.3.1"}}},
			ok:          true,
			wantVersion: "v0.3.1",
			wantSource:  SourceBuildInfo,
			wantRelease: true,
		},
		{
			name:        "replaced dependency",
			bi:          &debug.BuildInfo{Deps: []*debug.Module{{Path: ModulePath, Version: "v0.3.1", Replace: &debug.Module{Path: "../seqkit", Version: "v0.4.0"}}}},
			ok:          true,
			wantVersion: "v0.4.0",
			wantSource:  SourceBuildInfo,
			wantRelease: true,
		},
		{
			name:        "main module in development",
			bi:          &debug.BuildInfo{Main: debug.Module{Path: ModulePath, Version: "(devel)"}},
			ok:          true,
			wantVersion: "(devel)",
			wantSource:  SourceBuildInfo,
		},
		{
			name:        "dirty ldflags",
			ldflags:     "1.0.0-dirty",
			wantVersion: "1.0.0-dirty",
			wantSource:  SourceLDFlags,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			withBuildInfo(t, tc.bi, tc.ok)
			Version = tc.ldflags

			info := GetVersionInfo()
			if info.Version != tc.wantVersion {
				t.Errorf("version: got %q, want %q", info.Version, tc.wantVersion)
			}
			if info.Source != tc.wantSource {
				t.Errorf("source: got %q, want %q", info.Source, tc.wantSource)
			}
			if info.IsRelease != tc.wantRelease {
				t.Errorf("release: got %v, want %v", info.IsRelease, tc.wantRelease)
			}
		})
	}
}

func TestGoVersionFromBuildInfo(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{GoVersion: "go1.26.0"}, true)
	Version = ""
	if got := GetVersionInfo().GoVersion; got != "go1.26.0" {
		t.Errorf("got %q, want go1.26.0", got)
	}
}

func TestStringIsStable(t *testing.T) {
	if String() != String() {
		t.Error("expected String to be stable")
	}
	if String() == "" {
		t.Error("expected non-empty version")
	}
}
