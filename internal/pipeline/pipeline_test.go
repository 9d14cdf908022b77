package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyPipelineIsIdentity(t *testing.T) {
	out, err := New().Apply("<p>a</p>")
	require.NoError(t, err)
	assert.Equal(t, "<p>a</p>", out)
}

func TestStagesRunLeftToRight(t *testing.T) {
	p := New()
	p.Add("upper", Pure(strings.ToUpper))
	p.Add("suffix", Pure(func(s string) string { return s + "-x" }))

	out, err := p.Apply("ab")
	require.NoError(t, err)
	assert.Equal(t, "AB-x", out)
	assert.Equal(t, []string{"upper", "suffix"}, p.Names())
	assert.Equal(t, 2, p.Len())
}

func TestStageErrorStopsPipeline(t *testing.T) {
	boom := errors.New("boom")
	ran := false

	p := New()
	p.Add("ok", Pure(strings.TrimSpace))
	p.Add("fail", func(string) (string, error) { return "", boom })
	p.Add("never", Pure(func(s string) string { ran = true; return s }))

	_, err := p.Apply(" a ")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, ran)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "fail", perr.Stage)
	assert.Equal(t, 1, perr.Index)
}

func TestStagePanicBecomesError(t *testing.T) {
	p := New()
	p.Add("panics", Pure(func(string) string { panic("bad input") }))

	_, err := p.Apply("x")
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Error(), "bad input")
}
