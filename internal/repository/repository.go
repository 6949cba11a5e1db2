package repository

import (
	"fleet_console/internal/models"
)

// TwinRepo holds the live twin collection published by the feed.
type TwinRepo interface {
	Replace(items []models.Twin)
	All() []models.Twin
	SetHealthy(ok bool)
	Healthy() bool
}

// RunRepo is the append-only, capacity-bounded run log.
type RunRepo interface {
	Append(e models.RunEntry) string
	Remove(id string) bool
	Clear()
	AttachEnrichment(id string, p models.Enrichment) error
	Get(id string) (models.RunEntry, bool)
	List() []models.RunEntry
	Len() int
}

// Repository aggregates the session state containers. Both live for the
// whole process; nothing here survives a restart.
type Repository struct {
	Twins TwinRepo
	Runs  RunRepo
}

func NewRepository(runCapacity int) *Repository {
	return &Repository{
		Twins: NewTwinStore(),
		Runs:  NewRunLog(runCapacity),
	}
}
