package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleet_console/internal/logger"
	"fleet_console/internal/models"
	"fleet_console/internal/repository"

	"github.com/google/uuid"
)

// ErrNoProviders rejects a recommendation request with an empty provider
// list before any backend call.
var ErrNoProviders = errors.New("at least one provider is required")

// ProcurementService dispatches provider recommendations. Procurement runs
// carry no twin cases, so they never affect the map view and never accept
// an enrichment; their explanation, when requested, arrives inline with
// the recommendation response.
type ProcurementService struct {
	runs    repository.RunRepo
	backend Backend
	log     *logger.Logger
}

func NewProcurementService(runs repository.RunRepo, backend Backend, log *logger.Logger) *ProcurementService {
	return &ProcurementService{runs: runs, backend: backend, log: log}
}

// Recommend scores the candidate providers and records the ranking as a
// new procurement entry. Backend failures are recorded as error entries.
func (s *ProcurementService) Recommend(ctx context.Context, p models.ProcurementParams) (models.RunEntry, error) {
	if len(p.Providers) == 0 {
		return models.RunEntry{}, ErrNoProviders
	}
	if p.NIncidents <= 0 {
		p.NIncidents = 80
	}

	res, err := s.backend.Recommend(ctx, p)
	if err != nil {
		s.runs.Append(models.RunEntry{
			ID:        uuid.NewString(),
			Kind:      models.RunError,
			Title:     "Provider recommendation failed",
			CreatedAt: time.Now().UTC(),
			Failure:   err.Error(),
		})
		if s.log != nil {
			s.log.Errorw("procurement_failed", "err", err)
		}
		return models.RunEntry{}, err
	}

	entry := models.RunEntry{
		ID:        uuid.NewString(),
		Kind:      models.RunProcurement,
		Title:     fmt.Sprintf("Provider recommendation: winner %s", res.Winner),
		CreatedAt: time.Now().UTC(),
		Procurement: &models.ProcurementRecord{
			Params: p,
			Result: res,
		},
	}
	s.runs.Append(entry)

	if s.log != nil {
		s.log.Infow("procurement_recommended", "run_id", entry.ID, "winner", res.Winner, "providers", len(p.Providers))
	}
	return entry, nil
}
