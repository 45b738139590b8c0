//
// rfc2texi: fetch RFC and Internet-Draft XML and build Info manuals
// Available at http://github.com/russross/xml2texi
//
// Distributed under the Simplified BSD License.
// See README.md for details.
//

// Command-line front end

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/russross/xml2texi/errors"
)

const longHelp = `Convert RFC/Internet-Draft XML files to Texinfo Info format.

The XML is rendered to Texinfo, compiled with makeinfo and listed in an
Info dir file next to the generated manuals.

Usage:
  rfc2texi                 Fetch and convert all specs listed in specs.conf
  rfc2texi --sync          Same as above (explicit)
  rfc2texi <file.xml>...   Convert specific XML file(s)

The specs.conf file lists specs to fetch, one per line:
  rfc 9126                                      # Fetch RFC by number
  draft draft-ietf-oauth-browser-based-apps-26  # Fetch IETF draft
  url https://example.com/spec.xml name         # Fetch from arbitrary URL

Downloaded XML files are cached in the xml/ subdirectory. Generated .texi
and .info files are written to the base directory, together with a dir
file for Emacs Info directory integration.

Settings can be overridden in rfc2texi.toml in the base directory.`

// errFatal is returned after the reason has already been printed.
var errFatal = errors.New("fatal")

type cliFlags struct {
	sync     bool
	dir      string
	config   string
	makeinfo string
	dumpXML  bool
	verbose  bool
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var f cliFlags
	cmd := &cobra.Command{
		Use:           "rfc2texi [--sync] [file.xml...]",
		Short:         "Convert RFC/Internet-Draft XML files to Texinfo Info format",
		Long:          longHelp,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(f, stdout)
			if err != nil {
				return err
			}
			return a.run(cmd.Context(), args, f.sync)
		},
	}
	cmd.SetOut(stdout)

	flags := cmd.Flags()
	flags.BoolVar(&f.sync, "sync", false, "fetch and convert everything in specs.conf")
	flags.StringVar(&f.dir, "dir", "", "base directory (default: current directory)")
	flags.StringVar(&f.config, "config", "", "settings file (default: <dir>/rfc2texi.toml if present)")
	flags.StringVar(&f.makeinfo, "makeinfo", "", "Texinfo compiler command")
	flags.BoolVar(&f.dumpXML, "dump-xml", false, "also write the prepared XML as <base>.prepped.xml")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "log diagnostics and stack traces")
	return cmd
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout)
	cmd.SetArgs(args)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFatal) {
			fmt.Fprintf(stderr, "rfc2texi: %v\n", err)
		}
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
