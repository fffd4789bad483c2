// Package version describes the running docshell binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Binary is the name docshell reports itself as.
const Binary = "docshell"

const (
	defaultModule  = "pkt.systems/docshell"
	unknownVersion = "v0.0.0-unknown"
)

// buildVersion is set via -ldflags "-X pkt.systems/docshell/internal/version.buildVersion=...".
var buildVersion = ""

// Info is the build identity of a docshell binary.
type Info struct {
	Version  string
	Module   string
	Revision string
	Time     time.Time
	Modified bool
	Go       string
	Platform string
}

// Read returns the identity of the running binary.
func Read() Info {
	info, _ := debug.ReadBuildInfo()
	return fromBuildInfo(info, buildVersion)
}

func fromBuildInfo(info *debug.BuildInfo, stamped string) Info {
	out := Info{
		Module:   defaultModule,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
	if info != nil {
		if path := strings.TrimSpace(info.Main.Path); path != "" {
			out.Module = path
		}
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				out.Revision = setting.Value
			case "vcs.time":
				if ts, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					out.Time = ts.UTC()
				}
			case "vcs.modified":
				out.Modified = setting.Value == "true"
			}
		}
	}
	switch {
	case strings.TrimSpace(stamped) != "":
		out.Version = strings.TrimSuffix(strings.TrimSpace(stamped), "+dirty")
		out.Modified = out.Modified || strings.HasSuffix(strings.TrimSpace(stamped), "+dirty")
	case info != nil && info.Main.Version != "" && info.Main.Version != "(devel)":
		out.Version = strings.TrimSuffix(info.Main.Version, "+dirty")
	case out.Revision != "" && !out.Time.IsZero():
		rev := out.Revision
		if len(rev) > 12 {
			rev = rev[:12]
		}
		out.Version = "v0.0.0-" + out.Time.Format("20060102150405") + "-" + rev
	default:
		out.Version = unknownVersion
	}
	return out
}

// String renders "docshell <version>", marking modified trees.
func (i Info) String() string {
	v := i.Version
	if i.Modified {
		v += "+dirty"
	}
	return Binary + " " + v
}

// Fields returns the verbose key/value rendering in a stable order.
func (i Info) Fields() [][2]string {
	fields := [][2]string{
		{"version", i.Version},
		{"module", i.Module},
	}
	if i.Revision != "" {
		fields = append(fields, [2]string{"revision", i.Revision})
	}
	if !i.Time.IsZero() {
		fields = append(fields, [2]string{"built", i.Time.Format(time.RFC3339)})
	}
	fields = append(fields,
		[2]string{"modified", fmt.Sprint(i.Modified)},
		[2]string{"go", i.Go},
		[2]string{"platform", i.Platform},
	)
	return fields
}
