package chasing

import (
	"errors"
	"testing"
	"time"

	"github.com/OCAP2/hazardtrack/internal/shape"
	"github.com/OCAP2/hazardtrack/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	actionFirst core.ActionID = 0x4E2A
	actionRest  core.ActionID = 0x4E2B
	bossID      uint64        = 1000
)

func testConfig() Config {
	return Config{
		Name:                      "fate-projection",
		Shape:                     shape.Circle{Radius: 6},
		ActionFirst:               actionFirst,
		ActionRest:                actionRest,
		MoveDistance:              5,
		SecondsBetweenActivations: 5,
		MaxCasts:                  3,
	}
}

func boss(p core.Position) core.Entity {
	return core.Entity{ID: bossID, Name: "boss", Slot: core.NoSlot, Position: p}
}

func TestStandard_OpenerBaitsNearestUnclaimed(t *testing.T) {
	reg := newFakeRegistry(
		member(1, 0, pos(10, 0)),
		member(2, 1, pos(2, 0)),
		member(3, 2, pos(-4, 0)),
	)
	s := NewStandard(testConfig(), reg)
	caster := boss(pos(0, 0))

	c, ok := s.OnCastStarted(caster, core.CastInfo{Action: actionFirst, TargetID: bossID, FinishAt: t0})
	require.True(t, ok)
	assert.Equal(t, uint64(2), c.TargetID)
	assert.Equal(t, pos(0, 0), c.PrevPos, "anchored on the self-targeted caster")
	assert.Equal(t, 0.0, c.NextMoveDist)
	assert.Equal(t, 5.0, c.ExpectedMoveDist)
	assert.Equal(t, 3, c.NumRemaining)
	assert.Equal(t, t0, c.NextActivation)
	assert.True(t, s.Claimed(2))

	// second opener skips the claimed entity
	c, ok = s.OnCastStarted(caster, core.CastInfo{Action: actionFirst, TargetID: bossID, FinishAt: t0})
	require.True(t, ok)
	assert.Equal(t, uint64(3), c.TargetID)
	assert.Equal(t, 2, s.Tracker().Len())
}

func TestStandard_OpenerIgnoresOtherActions(t *testing.T) {
	s := NewStandard(testConfig(), newFakeRegistry(member(1, 0, pos(0, 0))))

	_, ok := s.OnCastStarted(boss(pos(0, 0)), core.CastInfo{Action: actionRest, TargetID: bossID})
	assert.False(t, ok)
	assert.Equal(t, 0, s.Tracker().Len())
}

func TestStandard_OpenerNoEligibleTarget(t *testing.T) {
	reg := newFakeRegistry(member(1, 0, pos(0, 0)), member(2, 1, pos(1, 0)))
	reg.kill(2)
	s := NewStandard(testConfig(), reg)
	caster := boss(pos(0, 0))

	_, ok := s.OnCastStarted(caster, core.CastInfo{Action: actionFirst, TargetID: bossID})
	require.True(t, ok)

	// 1 is claimed, 2 is dead
	_, ok = s.OnCastStarted(caster, core.CastInfo{Action: actionFirst, TargetID: bossID})
	assert.False(t, ok)
	assert.Equal(t, 1, s.Tracker().Len())
}

func TestStandard_AnchorResolution(t *testing.T) {
	loc := pos(-30, -30)
	tests := []struct {
		name     string
		targetID uint64
		location *core.Position
		want     uint64
	}{
		{"target entity position", 2, nil, 2},
		{"unknown target falls back to location", 77, &loc, 3},
		{"unknown target without location uses caster", 77, nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := newFakeRegistry(
				member(1, 0, pos(1, 1)),
				member(2, 1, pos(30, 30)),
				member(3, 2, pos(-29, -29)),
			)
			s := NewStandard(testConfig(), reg)

			c, ok := s.OnCastStarted(boss(pos(0, 0)), core.CastInfo{Action: actionFirst, TargetID: tt.targetID, Location: tt.location})
			require.True(t, ok)
			assert.Equal(t, tt.want, c.TargetID)
		})
	}
}

func TestStandard_FullLifecycle(t *testing.T) {
	reg := newFakeRegistry(member(1, 0, pos(0, 10)))
	s := NewStandard(testConfig(), reg)
	caster := boss(pos(0, 0))

	_, ok := s.OnCastStarted(caster, core.CastInfo{Action: actionFirst, TargetID: bossID, FinishAt: t0})
	require.True(t, ok)

	// opener resolves at the caster: 3 -> 2, next at T+5
	c, err := s.OnEventCast(caster, core.CastEvent{Action: actionFirst, MainTargetID: bossID, Time: t0}, t0)
	require.NoError(t, err)
	assert.Equal(t, 2, c.NumRemaining)
	assert.Equal(t, t0.Add(5*time.Second), c.NextActivation)
	assert.True(t, s.Claimed(1))

	// first follow-up: 2 -> 1, next at T+10
	t1 := t0.Add(5 * time.Second)
	target := pos(0, 5)
	c, err = s.OnEventCast(caster, core.CastEvent{Action: actionRest, TargetPos: &target, Time: t1}, t1)
	require.NoError(t, err)
	assert.Equal(t, 1, c.NumRemaining)
	assert.Equal(t, t0.Add(10*time.Second), c.NextActivation)
	assert.Equal(t, 1, s.Tracker().Len())

	// last: 1 -> 0, retired and released
	t2 := t0.Add(10 * time.Second)
	target = pos(0, 10)
	c, err = s.OnEventCast(caster, core.CastEvent{Action: actionRest, TargetPos: &target, Time: t2}, t2)
	require.NoError(t, err)
	assert.Equal(t, 0, c.NumRemaining)
	assert.Equal(t, 0, s.Tracker().Len())
	assert.False(t, s.Claimed(1))

	// released entity can be baited again
	c, ok = s.OnCastStarted(caster, core.CastInfo{Action: actionFirst, TargetID: bossID, FinishAt: t2})
	require.True(t, ok)
	assert.Equal(t, uint64(1), c.TargetID)
}

func TestStandard_UnexpectedCast(t *testing.T) {
	s := NewStandard(testConfig(), newFakeRegistry(member(1, 0, pos(0, 0))))

	c, err := s.OnEventCast(boss(pos(3, 4)), core.CastEvent{Action: actionRest, MainTargetID: bossID}, t0)

	assert.Nil(t, c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedCast))
	assert.Contains(t, err.Error(), "[3.000, 4.000]")
}

func TestStandard_EventIgnoresOtherActions(t *testing.T) {
	s := NewStandard(testConfig(), newFakeRegistry())

	c, err := s.OnEventCast(boss(pos(0, 0)), core.CastEvent{Action: 1}, t0)
	assert.Nil(t, c)
	assert.NoError(t, err)
	assert.Equal(t, 0, s.Tracker().NumCasts)
}

func TestStandard_UpdatePrunesAndReleases(t *testing.T) {
	reg := newFakeRegistry(member(1, 0, pos(0, 0)), member(2, 1, pos(40, 0)))
	s := NewStandard(testConfig(), reg)
	caster := boss(pos(0, 0))

	_, ok := s.OnCastStarted(caster, core.CastInfo{Action: actionFirst, TargetID: bossID})
	require.True(t, ok)
	_, ok = s.OnCastStarted(caster, core.CastInfo{Action: actionFirst, TargetID: 2})
	require.True(t, ok)

	// only the first chaser fires before both targets die
	_, err := s.OnEventCast(caster, core.CastEvent{Action: actionFirst, MainTargetID: bossID}, t0)
	require.NoError(t, err)
	reg.kill(1)
	reg.kill(2)

	removed := s.Update()

	require.Len(t, removed, 1)
	assert.Equal(t, uint64(1), removed[0].TargetID)
	assert.False(t, s.Claimed(1))
	assert.True(t, s.Claimed(2), "not yet fired, still chasing")
	assert.Equal(t, 1, s.Tracker().Len())
}
