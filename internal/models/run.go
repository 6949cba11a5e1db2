package models

import "time"

// Run entry kinds. Rendering treats each differently; the core only needs
// to know that autopilot entries are the ones that accept an enrichment.
const (
	RunAutopilot   = "autopilot"
	RunProcurement = "procurement"
	RunError       = "error"
)

// RunEntry is one record in the run log: a tagged union over the action
// kinds, with exactly one payload pointer set according to Kind.
//
// ID is process-unique and stable for the entry's lifetime. GroupID is an
// optional correlation token shared by records of the same logical run; it
// need not be unique across entries.
type RunEntry struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"groupId,omitempty"`
	Kind      string    `json:"kind"` // autopilot | procurement | error
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`

	Autopilot   *AutopilotResult   `json:"autopilot,omitempty"`
	Procurement *ProcurementRecord `json:"procurement,omitempty"`
	Failure     string             `json:"failure,omitempty"`
}

// CanEnrich reports whether an enrichment payload may be attached.
func (e *RunEntry) CanEnrich() bool {
	return e.Kind == RunAutopilot && e.Autopilot != nil
}

// CaseKeys returns the composite keys of the entry's autopilot cases,
// in result order. Nil for entries without cases.
func (e *RunEntry) CaseKeys() []TwinKey {
	if e.Kind != RunAutopilot || e.Autopilot == nil || len(e.Autopilot.Cases) == 0 {
		return nil
	}
	keys := make([]TwinKey, 0, len(e.Autopilot.Cases))
	for _, c := range e.Autopilot.Cases {
		keys = append(keys, TwinKey{StationID: c.StationID, ChargerID: c.ChargerID})
	}
	return keys
}

// ProcurementRecord pairs the request parameters with the ranking result so
// the rendering side can show both on one card.
type ProcurementRecord struct {
	Params ProcurementParams  `json:"params"`
	Result *ProcurementResult `json:"result"`
}
