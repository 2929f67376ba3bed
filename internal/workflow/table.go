// Package workflow implements the report approval state machine: the
// transition table, the evaluator that applies actions against it, the
// permission resolver the UI and API consult, and the recipient resolver
// that turns a target role into concrete users.
//
// All rules live in one declarative table keyed by (kind, state, role,
// action). Nothing in this package derives backward targets from chain
// position; every edge, including the irregular provincial bounce to the
// county expert, is explicit data.
package workflow

import (
	"fmt"

	"github.com/hydrocodeir/Sazegari/internal/domain"
)

// Action is a workflow verb a role can request on a report.
type Action string

const (
	ActionSubmit          Action = "submit"
	ActionApprove         Action = "approve"
	ActionRequestRevision Action = "request_revision"
	ActionResubmit        Action = "resubmit"
	// ActionUnlock is the administrative edge out of final_approved,
	// reserved for the secretariat admin.
	ActionUnlock Action = "unlock"
	// ActionDelete is permission-gated rather than table-driven; it appears
	// in AllowedActions when CanDelete holds and is applied via Discard.
	ActionDelete Action = "delete"
)

// actions lists the table-driven verbs in evaluation order.
func actions() []Action {
	return []Action{ActionSubmit, ActionApprove, ActionRequestRevision, ActionResubmit, ActionUnlock}
}

// EdgeKey identifies one legal move. At most one edge exists per key; the
// graph is deterministic by construction.
type EdgeKey struct {
	Kind   domain.ReportKind
	From   domain.State
	Role   domain.Role
	Action Action
}

// Edge is the outcome of a move: the next state and the role that must act
// next. Recipient is empty for terminal transitions.
type Edge struct {
	To        domain.State
	Recipient domain.Role
	// Admin marks privileged administrative edges (unlock) that are not part
	// of the ordinary workflow.
	Admin bool
}

// edgeDef is the literal form used to declare the table.
type edgeDef struct {
	key  EdgeKey
	edge Edge
}

// Table is the immutable, load-once transition table for all report kinds.
type Table struct {
	edges  map[EdgeKey]Edge
	states map[domain.ReportKind]map[domain.State]struct{}
	entry  map[domain.ReportKind]domain.Role
}

// Lookup returns the edge for (kind, from, role, action), if one exists.
func (t *Table) Lookup(kind domain.ReportKind, from domain.State, role domain.Role, action Action) (Edge, bool) {
	e, ok := t.edges[EdgeKey{Kind: kind, From: from, Role: role, Action: action}]
	return e, ok
}

// EntryRole returns the role that creates drafts of the given kind.
func (t *Table) EntryRole(kind domain.ReportKind) domain.Role {
	return t.entry[kind]
}

// HasState reports whether the state is declared for the kind.
func (t *Table) HasState(kind domain.ReportKind, s domain.State) bool {
	_, ok := t.states[kind][s]
	return ok
}

// Validate checks structural invariants: every edge endpoint is a declared
// state of its kind, entry roles exist, and no non-administrative edge leaves
// a terminal state. A failure here is a programming error in the table
// literal, not a runtime condition.
func (t *Table) Validate() error {
	for kind, role := range t.entry {
		if !role.Valid() {
			return fmt.Errorf("workflow: entry role %q for kind %q is unknown", role, kind)
		}
	}
	for key, edge := range t.edges {
		if !t.HasState(key.Kind, key.From) {
			return fmt.Errorf("workflow: edge %v leaves undeclared state %q", key, key.From)
		}
		if !t.HasState(key.Kind, edge.To) {
			return fmt.Errorf("workflow: edge %v targets undeclared state %q", key, edge.To)
		}
		if key.From.Terminal() && !edge.Admin {
			return fmt.Errorf("workflow: non-administrative edge %v leaves terminal state", key)
		}
		if !key.Role.Valid() {
			return fmt.Errorf("workflow: edge %v has unknown role", key)
		}
		if edge.Recipient != "" && !edge.Recipient.Valid() {
			return fmt.Errorf("workflow: edge %v has unknown recipient role", key)
		}
	}
	return nil
}

// newTable builds a Table from literals, rejecting duplicate keys so an
// ambiguous graph cannot be constructed.
func newTable(entry map[domain.ReportKind]domain.Role, states map[domain.ReportKind][]domain.State, defs []edgeDef) (*Table, error) {
	t := &Table{
		edges:  make(map[EdgeKey]Edge, len(defs)),
		states: make(map[domain.ReportKind]map[domain.State]struct{}, len(states)),
		entry:  entry,
	}
	for kind, list := range states {
		set := make(map[domain.State]struct{}, len(list))
		for _, s := range list {
			set[s] = struct{}{}
		}
		t.states[kind] = set
	}
	for _, d := range defs {
		if _, dup := t.edges[d.key]; dup {
			return nil, fmt.Errorf("workflow: duplicate edge %v", d.key)
		}
		t.edges[d.key] = d.edge
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// mustTable is newTable for static literals; invalid configuration is a
// startup-time bug and panics.
func mustTable(entry map[domain.ReportKind]domain.Role, states map[domain.ReportKind][]domain.State, defs []edgeDef) *Table {
	t, err := newTable(entry, states, defs)
	if err != nil {
		panic(err)
	}
	return t
}

func edge(kind domain.ReportKind, from domain.State, role domain.Role, action Action, to domain.State, recipient domain.Role) edgeDef {
	return edgeDef{
		key:  EdgeKey{Kind: kind, From: from, Role: role, Action: action},
		edge: Edge{To: to, Recipient: recipient},
	}
}

func adminEdge(kind domain.ReportKind, from domain.State, role domain.Role, action Action, to domain.State, recipient domain.Role) edgeDef {
	d := edge(kind, from, role, action, to, recipient)
	d.edge.Admin = true
	return d
}

// DefaultTable returns the production transition table. Tests substitute
// their own tables via newTable to probe edge cases in isolation.
//
// The provincial request_revision edge out of pending_province_manager
// deliberately targets the county expert, not the province expert. That is
// the documented behavior of the rule set (the original data owner fixes the
// figures); do not "correct" it to the symmetric chain.
func DefaultTable() *Table {
	county := domain.KindCounty
	prov := domain.KindProvincial

	entry := map[domain.ReportKind]domain.Role{
		county: domain.RoleCountyExpert,
		prov:   domain.RoleProvinceExpert,
	}

	states := map[domain.ReportKind][]domain.State{
		county: {
			domain.StateDraft,
			domain.StatePendingCountyManager,
			domain.StatePendingProvinceExpert,
			domain.StatePendingProvinceManager,
			domain.StateNeedsRevisionCountyExpert,
			domain.StateNeedsRevisionCountyManager,
			domain.StateNeedsRevisionProvinceExpert,
			domain.StateFinalApproved,
			domain.StateDeleted,
		},
		prov: {
			domain.StateDraft,
			domain.StatePendingProvinceManager,
			domain.StatePendingSecretariatUser,
			domain.StatePendingSecretariatAdmin,
			domain.StateNeedsRevisionCountyExpert,
			domain.StateNeedsRevisionProvinceManager,
			domain.StateNeedsRevisionSecretariatUser,
			domain.StateFinalApproved,
			domain.StateDeleted,
		},
	}

	defs := []edgeDef{
		// --- county: forward chain ---
		edge(county, domain.StateDraft, domain.RoleCountyExpert, ActionSubmit,
			domain.StatePendingCountyManager, domain.RoleCountyManager),
		edge(county, domain.StatePendingCountyManager, domain.RoleCountyManager, ActionApprove,
			domain.StatePendingProvinceExpert, domain.RoleProvinceExpert),
		edge(county, domain.StatePendingProvinceExpert, domain.RoleProvinceExpert, ActionApprove,
			domain.StatePendingProvinceManager, domain.RoleProvinceManager),
		edge(county, domain.StatePendingProvinceManager, domain.RoleProvinceManager, ActionApprove,
			domain.StateFinalApproved, ""),

		// --- county: bounce-backs ---
		edge(county, domain.StatePendingCountyManager, domain.RoleCountyManager, ActionRequestRevision,
			domain.StateNeedsRevisionCountyExpert, domain.RoleCountyExpert),
		edge(county, domain.StatePendingProvinceExpert, domain.RoleProvinceExpert, ActionRequestRevision,
			domain.StateNeedsRevisionCountyManager, domain.RoleCountyManager),
		edge(county, domain.StatePendingProvinceManager, domain.RoleProvinceManager, ActionRequestRevision,
			domain.StateNeedsRevisionProvinceExpert, domain.RoleProvinceExpert),

		// --- county: resubmit re-enters where the report was bounced from ---
		edge(county, domain.StateNeedsRevisionCountyExpert, domain.RoleCountyExpert, ActionResubmit,
			domain.StatePendingCountyManager, domain.RoleCountyManager),
		edge(county, domain.StateNeedsRevisionCountyManager, domain.RoleCountyManager, ActionResubmit,
			domain.StatePendingProvinceExpert, domain.RoleProvinceExpert),
		edge(county, domain.StateNeedsRevisionProvinceExpert, domain.RoleProvinceExpert, ActionResubmit,
			domain.StatePendingProvinceManager, domain.RoleProvinceManager),

		// --- county: administrative unlock ---
		adminEdge(county, domain.StateFinalApproved, domain.RoleSecretariatAdmin, ActionUnlock,
			domain.StatePendingProvinceManager, domain.RoleProvinceManager),

		// --- provincial: forward chain ---
		edge(prov, domain.StateDraft, domain.RoleProvinceExpert, ActionSubmit,
			domain.StatePendingProvinceManager, domain.RoleProvinceManager),
		edge(prov, domain.StatePendingProvinceManager, domain.RoleProvinceManager, ActionApprove,
			domain.StatePendingSecretariatUser, domain.RoleSecretariatUser),
		edge(prov, domain.StatePendingSecretariatUser, domain.RoleSecretariatUser, ActionApprove,
			domain.StatePendingSecretariatAdmin, domain.RoleSecretariatAdmin),
		edge(prov, domain.StatePendingSecretariatAdmin, domain.RoleSecretariatAdmin, ActionApprove,
			domain.StateFinalApproved, ""),

		// --- provincial: bounce-backs ---
		// The province manager bounces to the county expert (the original
		// data owner), not the province expert. Documented irregularity.
		edge(prov, domain.StatePendingProvinceManager, domain.RoleProvinceManager, ActionRequestRevision,
			domain.StateNeedsRevisionCountyExpert, domain.RoleCountyExpert),
		edge(prov, domain.StatePendingSecretariatUser, domain.RoleSecretariatUser, ActionRequestRevision,
			domain.StateNeedsRevisionProvinceManager, domain.RoleProvinceManager),
		edge(prov, domain.StatePendingSecretariatAdmin, domain.RoleSecretariatAdmin, ActionRequestRevision,
			domain.StateNeedsRevisionSecretariatUser, domain.RoleSecretariatUser),

		// --- provincial: resubmit ---
		edge(prov, domain.StateNeedsRevisionCountyExpert, domain.RoleCountyExpert, ActionResubmit,
			domain.StatePendingProvinceManager, domain.RoleProvinceManager),
		edge(prov, domain.StateNeedsRevisionProvinceManager, domain.RoleProvinceManager, ActionResubmit,
			domain.StatePendingSecretariatUser, domain.RoleSecretariatUser),
		edge(prov, domain.StateNeedsRevisionSecretariatUser, domain.RoleSecretariatUser, ActionResubmit,
			domain.StatePendingSecretariatAdmin, domain.RoleSecretariatAdmin),

		// --- provincial: administrative unlock ---
		adminEdge(prov, domain.StateFinalApproved, domain.RoleSecretariatAdmin, ActionUnlock,
			domain.StatePendingSecretariatAdmin, domain.RoleSecretariatAdmin),
	}

	return mustTable(entry, states, defs)
}
