// Package version reports the build of the EASSC server binaries.
package version

import "runtime/debug"

// release is overridden with -ldflags "-X .../pkg/version.release=v1.2.3".
var release = "dev"

// Info describes the running build.
type Info struct {
	Version  string `json:"version"`
	Revision string `json:"revision,omitempty"`
	Modified bool   `json:"modified,omitempty"`
}

// Version returns the module version recorded by the toolchain for tagged
// builds and the ldflags release string otherwise.
func Version() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" && info.Main.Version != "" {
		return info.Main.Version
	}
	return release
}

// Build returns the version together with the VCS revision, when the binary
// was built from a checkout.
func Build() Info {
	out := Info{Version: Version()}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Revision = s.Value
			if len(out.Revision) > 12 {
				out.Revision = out.Revision[:12]
			}
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}
	return out
}

// Set replaces the release string for builds without ldflags.
func Set(v string) {
	if v != "" {
		release = v
	}
}
