package version

import (
	"runtime/debug"
	"strings"
	"sync"
)

// ModulePath is the import path of this module.
const ModulePath = "github.com/kbukum/seqkit"

// Version is set at build time using -ldflags.
var Version = ""

// Info describes where the reported version came from.
type Info struct {
	Version   string `json:"version"`
	Source    string `json:"source"`
	GoVersion string `json:"go_version"`
	IsRelease bool   `json:"is_release"`
}

// Version sources.
const (
	SourceLDFlags   = "ldflags"
	SourceBuildInfo = "buildinfo"
	SourceDefault   = "default"
)

const devVersion = "dev"

var readBuildInfo = debug.ReadBuildInfo

// GetVersionInfo resolves the library version.
func GetVersionInfo() *Info {
	info := &Info{Version: devVersion, Source: SourceDefault}

	buildInfo, ok := readBuildInfo()
	if ok {
		info.GoVersion = buildInfo.GoVersion
	}

	switch {
	case Version != "":
		info.Version, info.Source = Version, SourceLDFlags
	case ok:
		if v := moduleVersion(buildInfo); v != "" {
			info.Version, info.Source = v, SourceBuildInfo
		}
	}

	info.IsRelease = info.Version != devVersion &&
		info.Version != "(devel)" &&
		!strings.Contains(info.Version, "dirty")
	return info
}

// moduleVersion finds this module either as the main module or as a dependency.
func moduleVersion(bi *debug.BuildInfo) string {
	if bi.Main.Path == ModulePath && bi.Main.Version != "" {
		return bi.Main.Version
	}
	for _, dep := range bi.Deps {
		if dep.Path != ModulePath {
			continue
		}
		if dep.Replace != nil && dep.Replace.Version != "" {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return ""
}

var (
	cachedOnce sync.Once
	cached     string
)

// String returns the resolved version, computed once per process.
func String() string {
	cachedOnce.Do(func() {
		cached = GetVersionInfo().Version
	})
	return cached
}
