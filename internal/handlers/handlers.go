package handlers

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/OCAP2/hazardtrack/internal/cache"
	"github.com/OCAP2/hazardtrack/internal/chasing"
	"github.com/OCAP2/hazardtrack/internal/mission"
	"github.com/OCAP2/hazardtrack/internal/parser"
	"github.com/OCAP2/hazardtrack/pkg/core"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/OCAP2/hazardtrack/internal/handlers"

var (
	// ErrUnknownCaster is returned when a cast references an entity never reported.
	ErrUnknownCaster = errors.New("caster not in entity registry")
	// ErrUnknownEntity is returned when a removal references an entity never reported.
	ErrUnknownEntity = errors.New("entity not in entity registry")
)

// Sink receives hazard lifecycle records for offline analysis.
type Sink interface {
	RecordSpawn(ctx context.Context, family string, c *chasing.Chaser, at time.Time) error
	RecordActivation(ctx context.Context, family string, c *chasing.Chaser, pos core.Position, at time.Time) error
	RecordUnexpected(ctx context.Context, family string, pos core.Position, at time.Time) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Registry *cache.EntityCache
	Clock    *mission.Context
	Parser   *parser.Parser
	Logger   zerolog.Logger
	// Sink is optional.
	Sink Sink
	// WarningText overrides the default warning when non-empty.
	WarningText string
}

// Hazard is an anticipated hazard tagged with the family that produced it.
type Hazard struct {
	Family string
	core.AnticipatedHazard
}

// Service binds hazard families to incoming commands and answers the
// per-tick queries of rendering and advisory consumers.
type Service struct {
	deps     Dependencies
	configs  []chasing.Config
	families []*chasing.Standard

	spawned     metric.Int64Counter
	activations metric.Int64Counter
	unexpected  metric.Int64Counter
}

// NewService creates a handler service with one policy per family.
// Uses the global OTel meter for metrics (no-op if not configured).
func NewService(deps Dependencies, families []chasing.Config) (*Service, error) {
	s := &Service{
		deps:    deps,
		configs: families,
	}
	s.buildFamilies()

	m := otel.Meter(instrumentationName)

	var err error
	s.spawned, err = m.Int64Counter(
		"hazards.spawned",
		metric.WithDescription("Chasers created from an opener cast"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating spawned counter: %w", err)
	}

	s.activations, err = m.Int64Counter(
		"hazards.activations",
		metric.WithDescription("Confirmed activations matched to a chaser"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating activations counter: %w", err)
	}

	s.unexpected, err = m.Int64Counter(
		"hazards.unexpected",
		metric.WithDescription("Confirmed activations no chaser matched"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating unexpected counter: %w", err)
	}

	return s, nil
}

func (s *Service) buildFamilies() {
	s.families = make([]*chasing.Standard, 0, len(s.configs))
	for _, cfg := range s.configs {
		f := chasing.NewStandard(cfg, s.deps.Registry)
		if s.deps.WarningText != "" {
			f.Tracker().SetWarningText(s.deps.WarningText)
		}
		s.families = append(s.families, f)
	}
}

// Reset drops all entities and chasers and starts a new session.
func (s *Service) Reset(session string, epoch time.Time) {
	s.deps.Registry.Reset()
	s.deps.Clock.Reset(session, epoch)
	s.deps.Parser.SetEpoch(epoch)
	s.buildFamilies()
	s.deps.Logger.Info().Str("session", session).Time("epoch", epoch).Msg("Session reset")
}

// Family returns the policy for the named family.
func (s *Service) Family(name string) (*chasing.Standard, bool) {
	for _, f := range s.families {
		if f.Config().Name == name {
			return f, true
		}
	}
	return nil, false
}

// Families iterates the configured policies in config order.
func (s *Service) Families() iter.Seq[*chasing.Standard] {
	return slices.Values(s.families)
}

// Hazards iterates the anticipated hazards of every family.
func (s *Service) Hazards() iter.Seq[Hazard] {
	return func(yield func(Hazard) bool) {
		for _, f := range s.families {
			name := f.Config().Name
			for h := range f.Tracker().ActiveHazards() {
				if !yield(Hazard{Family: name, AnticipatedHazard: h}) {
					return
				}
			}
		}
	}
}

// DangerZoneHints returns the forbidden zones for the entity, one per family chasing it.
func (s *Service) DangerZoneHints(entityID uint64) []core.ForbiddenZone {
	var zones []core.ForbiddenZone
	for _, f := range s.families {
		if z, ok := f.Tracker().DangerZoneHint(entityID); ok {
			zones = append(zones, z)
		}
	}
	return zones
}

// PriorityOf returns the highest priority any family assigns to the entity.
func (s *Service) PriorityOf(entityID uint64) core.Priority {
	p := core.PriorityIrrelevant
	for _, f := range s.families {
		p = max(p, f.Tracker().PriorityOf(entityID))
	}
	return p
}

// Warnings returns the distinct warnings for the entity.
func (s *Service) Warnings(entityID uint64) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, f := range s.families {
		w, ok := f.Tracker().Warning(entityID)
		if !ok {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// Tethers iterates anchor-to-target lines of every family.
func (s *Service) Tethers() iter.Seq[core.Segment] {
	return func(yield func(core.Segment) bool) {
		for _, f := range s.families {
			for seg := range f.Tracker().Tethers() {
				if !yield(seg) {
					return
				}
			}
		}
	}
}
