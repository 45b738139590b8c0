package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPrintsBareMessages(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)

	log.Infof("  [cached] %s", "rfc9126.xml")
	log.Debugf("not shown")
	_ = log.Sync()

	assert.Equal(t, "  [cached] rfc9126.xml\n", buf.String())
}

func TestVerboseShowsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true)

	log.Debugw("skipping include", "href", "x.xml")
	_ = log.Sync()

	assert.Contains(t, buf.String(), "skipping include")
	assert.Contains(t, buf.String(), "x.xml")
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Infof("nothing %d", 1) })
}
