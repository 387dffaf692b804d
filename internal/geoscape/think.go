package geoscape

import (
	"context"
	"slices"

	"github.com/ftageo/basesim/internal/savegame"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

func (e *Engine) hourly(ctx context.Context) {
	for _, b := range e.game.Bases {
		e.hourlyResearch(ctx, b)
		e.hourlyProduction(ctx, b)
		e.hourlyPrisoners(ctx, b)
	}
	for _, hook := range e.hourHooks {
		hook(ctx, e.game)
	}
}

func (e *Engine) hourlyResearch(ctx context.Context, b *savegame.Base) {
	for _, r := range slices.Clone(b.Research) {
		before := r.Spent
		done := r.Step(b, e.mod, e.rng)
		e.effort.Record(ctx, r.Spent-before, metric.WithAttributes(attribute.String("topic", r.Rule.Name)))
		if !done {
			continue
		}

		e.game.AddFinishedResearch(r.Rule)
		b.RemoveResearch(r.ID)
		e.emit(ctx, savegame.Event{
			Kind:      savegame.EventResearchFinished,
			BaseID:    b.ID,
			SubjectID: r.ID,
			Subject:   r.Rule.Name,
			Value:     int64(r.Rule.Points),
		})
	}
}

func (e *Engine) hourlyProduction(ctx context.Context, b *savegame.Base) {
	for _, p := range slices.Clone(b.Productions) {
		res := p.Step(b, e.game, e.mod, e.rng)
		if !res.Finished() {
			continue
		}

		ev := savegame.Event{
			BaseID:    b.ID,
			SubjectID: p.ID,
			Subject:   p.Rule.Name,
			Detail:    res.String(),
			Value:     int64(p.AmountProduced()),
		}
		switch res {
		case savegame.ProgressComplete:
			ev.Kind = savegame.EventProductionComplete
		case savegame.ProgressConstruction:
			ev.Kind = savegame.EventFacilityBuilt
			ev.SubjectID = p.FacilityID
			ev.Subject = p.Rule.ProducedFacility
		default:
			ev.Kind = savegame.EventProductionStalled
		}

		// stalled orders stop without a refund
		b.RemoveProduction(p.ID)
		e.emit(ctx, ev)
	}
}

func (e *Engine) hourlyPrisoners(ctx context.Context, b *savegame.Base) {
	for _, p := range slices.Clone(b.Prisoners) {
		switch p.Think(b, e.game, e.mod, e.rng) {
		case savegame.OutcomeDied:
			b.RemovePrisoner(p.ID)
			e.emit(ctx, savegame.Event{
				Kind:      savegame.EventPrisonerDied,
				BaseID:    b.ID,
				SubjectID: p.ID,
				Subject:   p.Type,
				Detail:    string(p.State),
			})
		case savegame.OutcomeInterrogated:
			e.emit(ctx, savegame.Event{
				Kind:      savegame.EventPrisonerInterrogated,
				BaseID:    b.ID,
				SubjectID: p.ID,
				Subject:   p.Type,
				Detail:    p.Rule.InterrogationResearch,
			})
		case savegame.OutcomeRecruited:
			s, err := e.game.SpawnSoldier(b, p.Rule.RecruitType, e.mod, e.rng)
			if err != nil {
				e.logger.Warn("Recruited prisoner could not join", "prisoner", p.ID, "error", err)
				continue
			}
			b.RemovePrisoner(p.ID)
			e.emit(ctx, savegame.Event{
				Kind:      savegame.EventPrisonerRecruited,
				BaseID:    b.ID,
				SubjectID: p.ID,
				Subject:   p.Type,
				Detail:    s.Name,
				Value:     int64(s.ID),
			})
		}
	}
}

func (e *Engine) daily(ctx context.Context) {
	c := e.mod.Constants
	for _, b := range e.game.Bases {
		for _, f := range b.Facilities {
			// facilities linked to a production order are finished by it
			if f.Built() || f.ProductionID != 0 {
				continue
			}
			f.BuildDays--
			if f.Built() {
				e.emit(ctx, savegame.Event{
					Kind:      savegame.EventFacilityBuilt,
					BaseID:    b.ID,
					SubjectID: f.ID,
					Subject:   f.Type,
				})
			}
		}
		for _, s := range b.Soldiers {
			if s.WoundDays > 0 {
				s.WoundDays = max(s.WoundDays-c.WoundRecoveryPerDay, 0)
			}
		}
	}
	for _, f := range e.game.Factions {
		f.ThinkDaily(e.game)
	}
}

func (e *Engine) monthly(ctx context.Context) {
	for _, f := range e.game.Factions {
		funding := f.ThinkMonthly()
		if funding == 0 {
			continue
		}
		e.game.AddFunds(int64(funding))
		e.emit(ctx, savegame.Event{
			Kind:    savegame.EventFactionFunding,
			Subject: f.Name,
			Detail:  f.Level(),
			Value:   int64(funding),
		})
	}

	for _, b := range e.game.Bases {
		cost := int64(b.MonthlyMaintenance())
		for _, s := range b.Soldiers {
			if r, err := e.mod.Soldier(s.Type); err == nil {
				cost += int64(r.Salary)
			}
		}
		if cost == 0 {
			continue
		}
		// maintenance is paid even into debt
		e.game.Funds -= cost
		e.emit(ctx, savegame.Event{
			Kind:    savegame.EventBaseMaintenance,
			BaseID:  b.ID,
			Subject: b.Name,
			Value:   -cost,
		})
	}
}
