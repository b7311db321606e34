package buildinfo

import (
	"runtime"
	"runtime/debug"
	"sync"
)

// Set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info contains build information.
type Info struct {
	Version       string `json:"version" yaml:"version"`
	Commit        string `json:"commit" yaml:"commit"`
	BuildTime     string `json:"build_time" yaml:"build_time"`
	GoVersion     string `json:"go_version" yaml:"go_version"`
	FormatVersion int32  `json:"format_version" yaml:"format_version"`
}

var (
	vcsOnce sync.Once
	vcsRev  string
	vcsTime string
)

func readVCS() {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			vcsRev = s.Value
		case "vcs.time":
			vcsTime = s.Value
		}
	}
}

// Get returns the build information. formatVersion is the settings file
// format version written by this build.
func Get(formatVersion int32) Info {
	vcsOnce.Do(readVCS)

	info := Info{
		Version:       Version,
		Commit:        Commit,
		BuildTime:     BuildTime,
		GoVersion:     runtime.Version(),
		FormatVersion: formatVersion,
	}
	if info.Commit == "unknown" && vcsRev != "" {
		info.Commit = vcsRev
	}
	if info.BuildTime == "unknown" && vcsTime != "" {
		info.BuildTime = vcsTime
	}
	return info
}

// String returns a one-line version string.
func String() string {
	info := Get(0)
	return info.Version + " (" + info.Commit + ") built at " + info.BuildTime
}
