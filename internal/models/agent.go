package models

// Request/response contracts of the analysis backend. Field names follow
// the backend's JSON wire format exactly.

// AutopilotParams configures one fleet scan.
type AutopilotParams struct {
	TopN               int     `json:"topN"`
	AutoTopK           int     `json:"autoTopK"`
	MinDownMinutes     int     `json:"minDownMinutes"`
	AutoLevel          string  `json:"autoLevel"` // safe | assist
	UseTraffic         bool    `json:"useTraffic"`
	StatusCodes        []int   `json:"statusCodes"`
	BaseLat            float64 `json:"baseLat"`
	BaseLon            float64 `json:"baseLon"`
	SLAMinutes         int     `json:"slaMinutes"`
	RemoteRecoveryRate float64 `json:"remoteRecoveryRate"`
}

// DefaultAutopilotParams returns the standard fleet-scan configuration.
func DefaultAutopilotParams() AutopilotParams {
	return AutopilotParams{
		TopN:               50,
		AutoTopK:           10,
		MinDownMinutes:     30,
		AutoLevel:          "safe",
		UseTraffic:         true,
		StatusCodes:        []int{4, 5},
		BaseLat:            37.5665,
		BaseLon:            126.978,
		SLAMinutes:         90,
		RemoteRecoveryRate: 0.35,
	}
}

// PlanItem is one step of a case's remediation plan.
type PlanItem struct {
	Action   string `json:"action"` // REMOTE_DIAG | REMOTE_RESET | DISPATCH | ESCALATE | MONITOR | OPEN_CASE
	Priority int    `json:"priority"`
	ETAMin   *int   `json:"eta_min,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// AutopilotCase is one flagged charger within an autopilot result.
type AutopilotCase struct {
	StationID         string     `json:"stationId"`
	ChargerID         string     `json:"chargerId"`
	Name              string     `json:"name,omitempty"`
	Score             float64    `json:"score"`
	DownMinutes       *int       `json:"downMinutes,omitempty"`
	StatusCode        int        `json:"statusCode,omitempty"`
	DownProb6h        float64    `json:"downProb6h,omitempty"`
	TrafficCongestion float64    `json:"trafficCongestion,omitempty"`
	OutputKw          float64    `json:"outputKw,omitempty"`
	Plan              []PlanItem `json:"plan,omitempty"`
	Reasons           []string   `json:"reasons,omitempty"`
}

// AutopilotResult is the backend's fleet-scan response. Explain is not part
// of the response; it is attached later by the enrichment flow.
type AutopilotResult struct {
	TotalCandidates int             `json:"totalCandidates"`
	PickedK         int             `json:"pickedK"`
	Cases           []AutopilotCase `json:"cases"`
	Explain         *Enrichment     `json:"explain,omitempty"`
}

// EnrichmentGroup is a suggested work bundle inside an enrichment.
type EnrichmentGroup struct {
	Name  string   `json:"name"`
	Hint  string   `json:"hint,omitempty"`
	Items []string `json:"items,omitempty"`
}

// Enrichment is the secondary explanation produced for an autopilot run.
// Attaching a new enrichment replaces the previous one wholesale.
type Enrichment struct {
	Summary         string            `json:"summary"`
	TopReasons      []string          `json:"top_reasons"`
	Risks           []string          `json:"risks"`
	SuggestedGroups []EnrichmentGroup `json:"suggested_groups"`
}

// ProviderProfile describes one candidate operations provider.
type ProviderProfile struct {
	Name               string  `json:"name"`
	BaseLat            float64 `json:"baseLat"`
	BaseLon            float64 `json:"baseLon"`
	Crews              int     `json:"crews,omitempty"`
	RemoteRecoveryRate float64 `json:"remoteRecoveryRate,omitempty"`
	SLAMinutes         int     `json:"slaMinutes,omitempty"`
}

// ProcurementScenario names one traffic condition to simulate under.
type ProcurementScenario struct {
	Name        string `json:"name"`
	TrafficMode string `json:"trafficMode"` // free | normal | congested
}

// ProcurementParams configures one provider-recommendation run.
type ProcurementParams struct {
	Providers  []ProviderProfile     `json:"providers"`
	Scenarios  []ProcurementScenario `json:"scenarios,omitempty"`
	NIncidents int                   `json:"nIncidents"`
	Seed       *int                  `json:"seed,omitempty"`
	WSLA       float64               `json:"w_sla,omitempty"`
	WP90       float64               `json:"w_p90,omitempty"`
	WRemote    float64               `json:"w_remote,omitempty"`
	UseLLM     bool                  `json:"useLLM,omitempty"`
}

// ScenarioScore is a provider's outcome under one traffic scenario.
type ScenarioScore struct {
	Scenario            string  `json:"scenario"`
	Score               float64 `json:"score"`
	SLAHitRate          float64 `json:"sla_hit_rate"`
	ETAP90Min           float64 `json:"eta_p90_min"`
	RemoteRecoveryCount int     `json:"remote_recovery_count"`
}

// ProviderRank is one row of the procurement ranking.
type ProviderRank struct {
	Provider   string          `json:"provider"`
	TotalScore float64         `json:"total_score"`
	ByScenario []ScenarioScore `json:"by_scenario"`
}

// ProcurementExplain is the optional explanation block of a recommendation.
type ProcurementExplain struct {
	Winner       string   `json:"winner,omitempty"`
	Reasons      []string `json:"reasons,omitempty"`
	Risks        []string `json:"risks,omitempty"`
	WhatToVerify []string `json:"what_to_verify,omitempty"`
}

// ProcurementResult is the backend's provider-recommendation response.
type ProcurementResult struct {
	Winner  string              `json:"winner"`
	Ranking []ProviderRank      `json:"ranking"`
	LLM     *ProcurementExplain `json:"llm,omitempty"`
}
