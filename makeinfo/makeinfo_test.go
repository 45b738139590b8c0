package makeinfo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompiler writes a shell script that behaves like makeinfo: it parses
// -o, copies its input there and prints the given stderr.
func fakeCompiler(t *testing.T, stderr string, exit int) string {
	t.Helper()
	script := "#!/bin/sh\n" +
		"out=''\n" +
		"while [ $# -gt 1 ]; do\n" +
		"  case \"$1\" in\n" +
		"    -o) out=\"$2\"; shift 2 ;;\n" +
		"    *) shift ;;\n" +
		"  esac\n" +
		"done\n" +
		"cp \"$1\" \"$out\"\n" +
		"printf '" + stderr + "' >&2\n" +
		"exit " + string(rune('0'+exit)) + "\n"
	path := filepath.Join(t.TempDir(), "fake-makeinfo")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestArgs(t *testing.T) {
	c, err := New("texi2any --info")
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"texi2any", "--info", "--no-split", "--force", "-o", "a.info", "a.texi"},
		c.Args("a.texi", "a.info"))
}

func TestNewDefaultsAndQuoting(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCommand, c.Args("t", "i")[0])

	c, err = New(`"/opt/tex info/makeinfo" --quiet`)
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/tex info/makeinfo", "--quiet"}, c.Args("t", "i")[:2])

	_, err = New(`"unterminated`)
	assert.Error(t, err)
}

func TestCompile(t *testing.T) {
	dir := t.TempDir()
	texi := filepath.Join(dir, "doc.texi")
	info := filepath.Join(dir, "doc.info")
	require.NoError(t, os.WriteFile(texi, []byte("\\input texinfo\n"), 0o644))

	c, err := New(fakeCompiler(t, `doc.texi:3: warning: one\ndoc.texi:9: warning: two\n`, 0))
	require.NoError(t, err)
	lines, err := c.Compile(context.Background(), texi, info)
	require.NoError(t, err)

	assert.Equal(t, []string{"doc.texi:3: warning: one", "doc.texi:9: warning: two"}, lines)
	assert.FileExists(t, info)
}

func TestCompileNonZeroExitIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	texi := filepath.Join(dir, "doc.texi")
	require.NoError(t, os.WriteFile(texi, []byte("x"), 0o644))

	c, err := New(fakeCompiler(t, `doc.texi:1: error\n`, 1))
	require.NoError(t, err)
	lines, err := c.Compile(context.Background(), texi, filepath.Join(dir, "doc.info"))
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestCompileMissingProgram(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "no-such-makeinfo"))
	require.NoError(t, err)
	_, err = c.Compile(context.Background(), "a.texi", "a.info")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	lines := []string{"1", "2", "3", "4", "5", "6", "7"}

	shown, more := Summarize(lines, 5)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, shown)
	assert.Equal(t, 2, more)

	shown, more = Summarize(lines[:5], 5)
	assert.Len(t, shown, 5)
	assert.Zero(t, more)

	shown, more = Summarize(nil, 5)
	assert.Empty(t, shown)
	assert.Zero(t, more)
}
