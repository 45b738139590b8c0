// Package makeinfo runs the external Texinfo compiler.
package makeinfo

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/russross/xml2texi/errors"
)

// DefaultCommand is used when no command is configured.
const DefaultCommand = "makeinfo"

var ErrNoCommand = errors.New("empty compiler command")

// Compiler invokes a makeinfo compatible program.
type Compiler struct {
	argv []string
}

// New splits command shell-style, so "texi2any --info" or a quoted path
// with spaces both work.
func New(command string) (*Compiler, error) {
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}
	argv, err := shellquote.Split(command)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing compiler command %q", command)
	}
	if len(argv) == 0 {
		return nil, ErrNoCommand
	}
	return &Compiler{argv: argv}, nil
}

// Args returns the full argument vector used to compile texi into info.
func (c *Compiler) Args(texi, info string) []string {
	args := make([]string, 0, len(c.argv)+5)
	args = append(args, c.argv...)
	return append(args, "--no-split", "--force", "-o", info, texi)
}

// Compile runs the compiler and waits for it. The returned lines are the
// non-empty lines the compiler wrote to stderr. A non-zero exit status is
// not an error: with --force makeinfo still writes its output, and the
// caller decides success by looking for the info file. Only a failure to
// run the program at all is reported.
func (c *Compiler) Compile(ctx context.Context, texi, info string) ([]string, error) {
	args := c.Args(texi, info)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	lines := splitLines(stderr.String())
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return lines, nil
		}
		return lines, errors.Wrapf(err, "running %s", args[0])
	}
	return lines, nil
}

func splitLines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// Summarize returns at most max lines and how many were left out.
func Summarize(lines []string, max int) ([]string, int) {
	if len(lines) <= max {
		return lines, 0
	}
	return lines[:max], len(lines) - max
}
