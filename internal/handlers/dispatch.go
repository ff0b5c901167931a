package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/OCAP2/hazardtrack/internal/chasing"
	"github.com/OCAP2/hazardtrack/internal/dispatcher"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Commands understood by the service.
const (
	CommandEntity    = ":ENTITY:"
	CommandDestroyed = ":DESTROYED:"
	CommandCastStart = ":CAST:START:"
	CommandCastEvent = ":CAST:EVENT:"
	CommandTick      = ":TICK:"
)

// RegisterHandlers registers all event handlers with the dispatcher.
// Every handler runs synchronously so entity updates, casts and ticks are
// applied in arrival order.
func (s *Service) RegisterHandlers(d *dispatcher.Dispatcher) {
	d.Register(CommandEntity, s.handleEntity)
	d.Register(CommandDestroyed, s.handleDestroyed, dispatcher.Logged())
	d.Register(CommandCastStart, s.handleCastStart, dispatcher.Logged())
	d.Register(CommandCastEvent, s.handleCastEvent, dispatcher.Logged())
	d.Register(CommandTick, s.handleTick)
}

func familyAttr(name string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("family", name))
}

func (s *Service) handleEntity(e dispatcher.Event) (any, error) {
	obj, err := s.deps.Parser.ParseEntity(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to log entity: %w", err)
	}
	s.deps.Clock.Advance(obj.Time)
	s.deps.Registry.Upsert(obj.Entity)
	return nil, nil
}

func (s *Service) handleDestroyed(e dispatcher.Event) (any, error) {
	obj, err := s.deps.Parser.ParseDestroyed(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to log destroyed entity: %w", err)
	}
	s.deps.Clock.Advance(obj.Time)
	if !s.deps.Registry.MarkDestroyed(obj.EntityID) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEntity, obj.EntityID)
	}
	return nil, nil
}

func (s *Service) handleCastStart(e dispatcher.Event) (any, error) {
	obj, err := s.deps.Parser.ParseCastStart(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to log cast start: %w", err)
	}
	s.deps.Clock.Advance(obj.Time)

	caster, ok := s.deps.Registry.Find(obj.CasterID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCaster, obj.CasterID)
	}

	ctx := context.Background()
	var spawned []*chasing.Chaser
	for _, f := range s.families {
		c, ok := f.OnCastStarted(caster, obj.Cast)
		if !ok {
			continue
		}
		name := f.Config().Name
		spawned = append(spawned, c)
		s.spawned.Add(ctx, 1, familyAttr(name))

		s.deps.Logger.Info().
			Str("family", name).
			Str("chaser", c.ID.String()).
			Uint64("target", c.TargetID).
			Stringer("anchor", c.PrevPos).
			Time("firstActivation", c.NextActivation).
			Msg("Chasing hazard spawned")

		if s.deps.Sink != nil {
			if err := s.deps.Sink.RecordSpawn(ctx, name, c, obj.Time); err != nil {
				s.deps.Logger.Warn().Err(err).Str("family", name).Msg("Failed to record spawn")
			}
		}
	}
	return spawned, nil
}

func (s *Service) handleCastEvent(e dispatcher.Event) (any, error) {
	obj, err := s.deps.Parser.ParseCastEvent(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to log cast event: %w", err)
	}
	now := s.deps.Clock.Advance(obj.Event.Time)

	caster, ok := s.deps.Registry.Find(obj.CasterID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCaster, obj.CasterID)
	}

	ctx := context.Background()
	var advanced []*chasing.Chaser
	for _, f := range s.families {
		name := f.Config().Name
		pos := f.Anchor(caster, obj.Event.MainTargetID, obj.Event.TargetPos)

		c, err := f.OnEventCast(caster, obj.Event, now)
		if errors.Is(err, chasing.ErrUnexpectedCast) {
			s.unexpected.Add(ctx, 1, familyAttr(name))
			s.deps.Logger.Warn().Str("family", name).Stringer("pos", pos).Msg("Unexpected cast from chasing aoe")
			if s.deps.Sink != nil {
				if err := s.deps.Sink.RecordUnexpected(ctx, name, pos, now); err != nil {
					s.deps.Logger.Warn().Err(err).Str("family", name).Msg("Failed to record unexpected cast")
				}
			}
			continue
		}
		if c == nil {
			continue
		}

		advanced = append(advanced, c)
		s.activations.Add(ctx, 1, familyAttr(name))
		s.deps.Logger.Debug().
			Str("family", name).
			Str("chaser", c.ID.String()).
			Stringer("pos", pos).
			Int("remaining", c.NumRemaining).
			Msg("Chasing hazard activated")

		if s.deps.Sink != nil {
			if err := s.deps.Sink.RecordActivation(ctx, name, c, pos, now); err != nil {
				s.deps.Logger.Warn().Err(err).Str("family", name).Msg("Failed to record activation")
			}
		}
	}
	return advanced, nil
}

func (s *Service) handleTick(e dispatcher.Event) (any, error) {
	t, err := s.deps.Parser.ParseTick(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to log tick: %w", err)
	}
	now := s.deps.Clock.Advance(t)

	for _, f := range s.families {
		for _, c := range f.Update() {
			s.deps.Logger.Debug().
				Str("family", f.Config().Name).
				Str("chaser", c.ID.String()).
				Uint64("target", c.TargetID).
				Msg("Chasing hazard lost its target")
		}
	}
	return now, nil
}
