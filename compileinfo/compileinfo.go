// Package compileinfo reports the version control state a binary was built
// from, so that numbers in a report can be traced back to the code that
// produced them.
package compileinfo

import (
	"fmt"
	"os"
	"runtime/debug"
)

type CompileInfo struct {
	Package    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	if c.Commit == "" {
		return fmt.Sprintf("This %s binary was built with %s without version control information.", c.pkg(), c.goVersion())
	}

	mod := ""
	if c.Modified {
		mod = " Files in the repo were modified after that commit."
	}

	return fmt.Sprintf("This %s binary was built with %s at commit %v at time %v.%s", c.pkg(), c.goVersion(), c.Commit, c.CommitTime, mod)
}

func (c CompileInfo) pkg() string {
	if c.Package == "" {
		return "hfedash"
	}
	return c.Package
}

func (c CompileInfo) goVersion() string {
	if c.GoVersion == "" {
		return "an unknown Go version"
	}
	return c.GoVersion
}

func Get() CompileInfo {
	out := CompileInfo{}

	z, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.GoVersion = z.GoVersion
	out.Package = z.Path
	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}

func PrintToStdErr() {
	fmt.Fprintf(os.Stderr, "%s\n", Get())
}
