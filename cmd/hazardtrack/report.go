package main

import (
	"time"

	"github.com/OCAP2/hazardtrack/internal/cache"
	"github.com/OCAP2/hazardtrack/internal/handlers"
	"github.com/rs/zerolog"
)

// reporter logs the per-tick view a rendering or advisory consumer would get.
type reporter struct {
	logger zerolog.Logger
	svc    *handlers.Service
	party  *cache.EntityCache
}

func newReporter(logger zerolog.Logger, svc *handlers.Service, party *cache.EntityCache) *reporter {
	return &reporter{logger: logger, svc: svc, party: party}
}

func (r *reporter) tick(now time.Time) {
	for h := range r.svc.Hazards() {
		r.logger.Info().
			Time("tick", now).
			Str("family", h.Family).
			Str("hazard", h.ID.String()).
			Str("shape", h.Shape.String()).
			Stringer("origin", h.Origin).
			Stringer("rotation", h.Rotation).
			Time("activation", h.Activation).
			Str("footprint", h.Shape.Footprint(h.Origin, h.Rotation).AsText()).
			Msg("Anticipated hazard")
	}

	for _, member := range r.party.Party() {
		for _, z := range r.svc.DangerZoneHints(member.ID) {
			r.logger.Info().
				Time("tick", now).
				Uint64("entity", member.ID).
				Str("name", member.Name).
				Str("zone", z.Shape.String()).
				Stringer("origin", z.Origin).
				Time("activation", z.Activation).
				Msg("Danger zone hint")
		}
		for _, w := range r.svc.Warnings(member.ID) {
			r.logger.Warn().
				Time("tick", now).
				Uint64("entity", member.ID).
				Str("name", member.Name).
				Msg(w)
		}
	}

	for seg := range r.svc.Tethers() {
		r.logger.Debug().Stringer("from", seg.From).Stringer("to", seg.To).Msg("Tether")
	}
}
