package parser

import (
	"testing"
	"time"

	"github.com/OCAP2/hazardtrack/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCastStart(t *testing.T) {
	p := newTestParser()

	result, err := p.ParseCastStart([]string{"10", "1000", "0x4E2A", "1000", "", "4.7"})
	require.NoError(t, err)

	assert.Equal(t, uint64(1000), result.CasterID)
	assert.Equal(t, testEpoch.Add(10*time.Second), result.Time)
	assert.Equal(t, core.ActionID(0x4E2A), result.Cast.Action)
	assert.Equal(t, uint64(1000), result.Cast.TargetID)
	assert.Nil(t, result.Cast.Location)
	assert.Equal(t, testEpoch.Add(10*time.Second), result.Cast.StartedAt)
	assert.Equal(t, testEpoch.Add(14700*time.Millisecond), result.Cast.FinishAt)
}

func TestParseCastStart_WithLocation(t *testing.T) {
	p := newTestParser()

	result, err := p.ParseCastStart([]string{"10", "1000", "20010", "0", `"100,95"`, "3"})
	require.NoError(t, err)

	require.NotNil(t, result.Cast.Location)
	assert.Equal(t, core.Position{X: 100, Y: 95}, *result.Cast.Location)
}

func TestParseCastStart_Errors(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name  string
		input []string
	}{
		{"too few fields", []string{"10", "1000", "1", "0", ""}},
		{"bad time", []string{"t", "1000", "1", "0", "", "3"}},
		{"bad caster", []string{"10", "x", "1", "0", "", "3"}},
		{"bad action", []string{"10", "1000", "0xQ", "0", "", "3"}},
		{"bad target", []string{"10", "1000", "1", "1.5", "", "3"}},
		{"bad location", []string{"10", "1000", "1", "0", "1", "3"}},
		{"negative cast time", []string{"10", "1000", "1", "0", "", "-3"}},
		{"cast time overflows duration", []string{"10", "1000", "1", "0", "", "1e11"}},
		{"non-finite location", []string{"10", "1000", "1", "0", "NaN,0", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ParseCastStart(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestParseCastEvent(t *testing.T) {
	p := newTestParser()

	result, err := p.ParseCastEvent([]string{"15", "1000", "20011", "0", "3.5,4"})
	require.NoError(t, err)

	assert.Equal(t, uint64(1000), result.CasterID)
	assert.Equal(t, core.ActionID(20011), result.Event.Action)
	assert.Equal(t, uint64(0), result.Event.MainTargetID)
	require.NotNil(t, result.Event.TargetPos)
	assert.Equal(t, core.Position{X: 3.5, Y: 4}, *result.Event.TargetPos)
	assert.Equal(t, testEpoch.Add(15*time.Second), result.Event.Time)
}

func TestParseCastEvent_Errors(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name  string
		input []string
	}{
		{"too few fields", []string{"15", "1000", "1", "0"}},
		{"bad time", []string{"", "1000", "1", "0", ""}},
		{"bad caster", []string{"15", "-1", "1", "0", ""}},
		{"bad action", []string{"15", "1000", "abc", "0", ""}},
		{"bad target", []string{"15", "1000", "1", "x", ""}},
		{"bad position", []string{"15", "1000", "1", "0", "a,b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ParseCastEvent(tt.input)
			assert.Error(t, err)
		})
	}
}
