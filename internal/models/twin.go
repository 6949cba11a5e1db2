package models

// Health values derived for a charger twin.
const (
	HealthOK       = "OK"
	HealthDegraded = "DEGRADED"
	HealthDown     = "DOWN"
)

// Risk values derived for a charger twin.
const (
	RiskNone     = "NONE"
	RiskSuspect  = "SUSPECT"
	RiskAlert    = "ALERT"
	RiskCritical = "CRITICAL"
)

// TwinKey identifies a charger: one station hosts many chargers.
type TwinKey struct {
	StationID string `json:"stationId"`
	ChargerID string `json:"chargerId"`
}

// String renders the composite key as "station::charger".
func (k TwinKey) String() string {
	return k.StationID + "::" + k.ChargerID
}

// TwinSignals carries the raw telemetry the feed publishes per charger.
type TwinSignals struct {
	StatusCode        int     `json:"statusCode"`
	CommLossRate24h   float64 `json:"commLossRate24h,omitempty"`
	TrafficCongestion float64 `json:"trafficCongestion,omitempty"`
	StatUpdDt         string  `json:"statUpdDt,omitempty"`
	BusiID            string  `json:"busiId,omitempty"`
}

// TwinDerived is the health/risk block the feed computes per snapshot.
type TwinDerived struct {
	Health     string  `json:"health"` // OK | DEGRADED | DOWN
	Risk       string  `json:"risk"`   // NONE | SUSPECT | ALERT | CRITICAL
	DownProb6h float64 `json:"downProb6h,omitempty"`
	UpdatedAt  string  `json:"updatedAt,omitempty"`
}

// Twin is one live charger snapshot. Twins are immutable values: each feed
// message publishes the complete fleet and replaces the previous collection
// wholesale, so no field is ever patched in place.
type Twin struct {
	StationID string      `json:"stationId"`
	ChargerID string      `json:"chargerId"`
	Name      string      `json:"name,omitempty"`
	Lat       float64     `json:"lat"`
	Lon       float64     `json:"lon"`
	Signals   TwinSignals `json:"signals,omitempty"`
	Derived   TwinDerived `json:"derived"`
}

// Key returns the composite station/charger key.
func (t Twin) Key() TwinKey {
	return TwinKey{StationID: t.StationID, ChargerID: t.ChargerID}
}
