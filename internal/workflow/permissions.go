package workflow

import "github.com/hydrocodeir/Sazegari/internal/domain"

// AllowedActions returns every action the actor could successfully Apply to
// the report right now, plus delete when CanDelete holds. Pure function of
// the snapshot; safe to call on every render.
//
// Because it walks the same table Apply consults, it can never offer an
// action Apply would reject for edge or scope reasons. Version staleness is
// the one failure the UI cannot rule out ahead of time.
func (e *Engine) AllowedActions(report *domain.Report, actor Actor) []Action {
	out := []Action{}
	if report.State == domain.StateDeleted {
		return out
	}
	if scopeMatch(actor, report) {
		for _, a := range actions() {
			if _, ok := e.table.Lookup(report.Kind, report.State, actor.Role, a); ok {
				out = append(out, a)
			}
		}
		if e.CanDelete(report, actor) {
			out = append(out, ActionDelete)
		}
	}
	return out
}

// CanEdit reports whether the actor may mutate report content right now:
// only in draft (as the creator) or in the actor's own needs_revision state.
// Pending states belong to someone else and final_approved is immutable.
func (e *Engine) CanEdit(report *domain.Report, actor Actor) bool {
	if !scopeMatch(actor, report) {
		return false
	}
	switch report.State {
	case domain.StateDraft:
		return report.CreatedBy == actor.ID && actor.Role == e.table.EntryRole(report.Kind)
	default:
		nr := domain.NeedsRevisionState(actor.Role)
		return nr != "" && report.State == nr
	}
}

// CanDelete reports whether the actor may remove the report: the creator
// while still in draft, or the secretariat admin anywhere (global override;
// non-draft deletion is logged, never silent).
func (e *Engine) CanDelete(report *domain.Report, actor Actor) bool {
	if report.State == domain.StateDeleted {
		return false
	}
	if actor.Role == domain.RoleSecretariatAdmin {
		return true
	}
	return report.State == domain.StateDraft &&
		report.CreatedBy == actor.ID &&
		scopeMatch(actor, report)
}
