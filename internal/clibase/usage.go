// internal/clibase/usage.go
package clibase

import (
	"flag"
	"fmt"
	"io"

	"deepfold/internal/version"
)

// UsageCommon installs a shared Usage() handler on fs.
// extra prints tool-specific sections between the synopsis and the shared blocks.
func UsageCommon(fs *flag.FlagSet, name, synopsis string, extra func(out io.Writer, def func(string) string)) {
	fs.Usage = func() {
		out := fs.Output()
		def := func(flagName string) string {
			if f := fs.Lookup(flagName); f != nil {
				return f.DefValue
			}
			return ""
		}

		// Header
		fmt.Fprintf(out, "%s – RNA secondary structure prediction\n\n", name)
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)
		fmt.Fprintf(out, "Usage:\n  %s %s\n", name, synopsis)

		if extra != nil {
			extra(out, def)
		}

		// Shared blocks
		fmt.Fprintln(out, "\nConfiguration:")
		fmt.Fprintln(out, "      --config file           YAML configuration (flags override it)")
		fmt.Fprintf(out, "      --winsize int           Window length, odd and ≥ 5 [%s]\n", def("winsize"))
		fmt.Fprintf(out, "  -t, --threads int           Worker threads (0=all CPUs) [%s]\n", def("threads"))

		fmt.Fprintln(out, "\nMiscellaneous:")
		fmt.Fprintf(out, "      --log-level string      debug | info | warn | error [%s]\n", def("log-level"))
		fmt.Fprintln(out, "  -q, --quiet                 Only log warnings and errors")
		fmt.Fprintln(out, "      --verbose               Log debug detail")
		fmt.Fprintln(out, "      --examples              Print usage examples and exit")
		fmt.Fprintln(out, "  -v, --version               Print version and exit")
		fmt.Fprintln(out, "  -h, --help                  Show this help and exit")
	}
}
