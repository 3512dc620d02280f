package maritime

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapture_RequiresGroup(t *testing.T) {
	assert.Panics(t, func() { Capture(`vessel`) })
	assert.Panics(t, func() { Probe(`(vessel)`, "x") })
	assert.NotPanics(t, func() { Capture(`vessel(?:\s+name)?:\s*(\w+)`) })
}

func TestPattern_Match(t *testing.T) {
	p := Capture(`vessel name:\s*([A-Z ]+)`)
	got, ok := p.Match("VESSEL NAME:   ALPHA  ")
	require.True(t, ok)
	assert.Equal(t, "ALPHA", got)
	assert.False(t, p.IsProbe())

	_, ok = p.Match("nothing here")
	assert.False(t, ok)
}

func TestPattern_MultiGroupPicksCapturedGroup(t *testing.T) {
	p := Capture(`land\s*rover\s*\(LR\)[:\s]+(\d+)|\blr[:\s]+(\d+)`)

	got, ok := p.Match("LR: 40")
	require.True(t, ok)
	assert.Equal(t, "40", got)

	got, ok = p.Match("Land Rover (LR): 12")
	require.True(t, ok)
	assert.Equal(t, "12", got)
}

func TestPattern_WhitespaceOnlyCaptureIsMiss(t *testing.T) {
	p := Capture(`name:([ \t]*)`)
	_, ok := p.Match("name:   ")
	assert.False(t, ok)
}

func TestProbe(t *testing.T) {
	p := Probe(`colonel\s*island`, "Colonel Island")
	assert.True(t, p.IsProbe())

	got, ok := p.Match("at COLONEL ISLAND")
	require.True(t, ok)
	assert.Equal(t, "Colonel Island", got)
}

func TestResolve_OrderIsSignificant(t *testing.T) {
	text := "Vessel: ALPHA\nVessel Name: BETA"
	specific := Capture(`vessel\s*name[:\s]+([A-Z]+)`)
	generic := Capture(`vessel[:\s]+([A-Z]+)`)

	got, ok := Resolve([]Pattern{specific, generic}, text)
	require.True(t, ok)
	assert.Equal(t, "BETA", got)

	got, ok = Resolve([]Pattern{generic, specific}, text)
	require.True(t, ok)
	assert.Equal(t, "ALPHA", got)

	_, ok = Resolve(nil, text)
	assert.False(t, ok)
}

func TestResolve_CaptureBeforeProbe(t *testing.T) {
	lib := DefaultLibrary()
	port, ok := lib.Field(FieldPort)
	require.True(t, ok)

	got, ok := Resolve(port.Patterns, "Port: Savannah\nnext stop Charleston")
	require.True(t, ok)
	assert.Equal(t, "Savannah", got)

	got, ok = Resolve(port.Patterns, "next stop Charleston")
	require.True(t, ok)
	assert.Equal(t, "Charleston", got)
}

func TestExtractSection(t *testing.T) {
	spec := SectionSpec{
		Start: regexp.MustCompile(`(?i)auto operations team:`),
		Ends: []*regexp.Regexp{
			regexp.MustCompile(`(?i)high & heavy team:`),
			regexp.MustCompile(`(?i)cargo configuration`),
		},
	}

	body, ok := ExtractSection(spec, "x AUTO OPERATIONS TEAM: a b CARGO CONFIGURATION c High & Heavy Team: d")
	require.True(t, ok)
	assert.Equal(t, " a b ", body)

	body, ok = ExtractSection(spec, "Auto Operations Team: to the end")
	require.True(t, ok)
	assert.Equal(t, " to the end", body)

	_, ok = ExtractSection(spec, "no anchor")
	assert.False(t, ok)
}

func TestExtractSection_EndBeforeStartIgnored(t *testing.T) {
	spec := SectionSpec{
		Start: regexp.MustCompile(`START:`),
		Ends:  []*regexp.Regexp{regexp.MustCompile(`END`)},
	}
	body, ok := ExtractSection(spec, "END START: kept END dropped")
	require.True(t, ok)
	assert.Equal(t, " kept ", body)
}
