package parser

import (
	"testing"
	"time"

	"github.com/OCAP2/hazardtrack/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntity(t *testing.T) {
	p := newTestParser()

	result, err := p.ParseEntity([]string{"3", "17", `"Alisaie"`, "2", "10.5,-4", "0"})
	require.NoError(t, err)

	assert.Equal(t, testEpoch.Add(3*time.Second), result.Time)
	assert.Equal(t, core.Entity{
		ID:       17,
		Name:     "Alisaie",
		Slot:     2,
		Position: core.Position{X: 10.5, Y: -4},
	}, result.Entity)
}

func TestParseEntity_NonPartyDead(t *testing.T) {
	p := newTestParser()

	result, err := p.ParseEntity([]string{"3", "1000.00", "Boss", "-1", "0,0,12", "true"})
	require.NoError(t, err)

	assert.Equal(t, uint64(1000), result.Entity.ID)
	assert.False(t, result.Entity.InParty())
	assert.True(t, result.Entity.IsDead)
}

func TestParseEntity_Errors(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name  string
		input []string
	}{
		{"too few fields", []string{"1", "2", "name", "0", "1,1"}},
		{"bad time", []string{"x", "2", "name", "0", "1,1", "0"}},
		{"bad id", []string{"1", "-2", "name", "0", "1,1", "0"}},
		{"bad slot", []string{"1", "2", "name", "-2", "1,1", "0"}},
		{"bad position", []string{"1", "2", "name", "0", "1", "0"}},
		{"bad dead flag", []string{"1", "2", "name", "0", "1,1", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ParseEntity(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestParseDestroyed(t *testing.T) {
	p := newTestParser()

	result, err := p.ParseDestroyed([]string{"7.25", "17"})
	require.NoError(t, err)
	assert.Equal(t, uint64(17), result.EntityID)
	assert.Equal(t, testEpoch.Add(7250*time.Millisecond), result.Time)

	_, err = p.ParseDestroyed([]string{"7.25"})
	assert.Error(t, err)
	_, err = p.ParseDestroyed([]string{"7.25", "abc"})
	assert.Error(t, err)
}
