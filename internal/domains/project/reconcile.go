package project

import (
	"fmt"
	"strings"
)

// ReconcilePlan is the three-way diff between a farmer's persisted projects
// and the requested list supplied on an update: entries to insert, entries to
// overwrite, and ids to remove. Apply order is deletes, updates, creates.
type ReconcilePlan struct {
	Creates   []Project
	Updates   []Project
	DeleteIDs []int64
}

// IsNoop reports whether applying the plan would write nothing.
func (p *ReconcilePlan) IsNoop() bool {
	return len(p.Creates) == 0 && len(p.Updates) == 0 && len(p.DeleteIDs) == 0
}

// BuildReconcilePlan diffs the requested project list against the persisted
// set for one farmer.
//
// The aggregate area check runs first, against the requested list alone: if
// the requested total exceeds the farmer's declared area the whole call fails
// before any row is touched. A requested entry whose id matches a persisted
// project becomes an update; one without an id (or, unless strictIDs is set,
// with an id that matches nothing) becomes a create; persisted projects left
// unreferenced are deleted. An empty requested list therefore deletes every
// project the farmer has.
func BuildReconcilePlan(totalAreaHa float64, existing []Project, requested []ProjectRequest, strictIDs bool) (*ReconcilePlan, error) {
	requestedTotal := 0.0
	for _, req := range requested {
		requestedTotal += req.AreaHa
	}
	if requestedTotal > totalAreaHa {
		return nil, fmt.Errorf("%w: total project area (%.2f ha) exceeds farmer's total area (%.2f ha)",
			ErrAreaExceeded, requestedTotal, totalAreaHa)
	}

	existingByID := make(map[int64]*Project, len(existing))
	for i := range existing {
		existingByID[existing[i].ID] = &existing[i]
	}

	kept := make(map[int64]bool, len(requested))
	plan := &ReconcilePlan{}

	for _, req := range requested {
		status, err := req.EffectiveStatus()
		if err != nil {
			return nil, err
		}

		if req.ID != nil {
			if current, ok := existingByID[*req.ID]; ok {
				applyRequest(current, req, status)
				kept[current.ID] = true
				continue
			}
			if strictIDs {
				return nil, fmt.Errorf("%w: project %d", ErrStaleProjectID, *req.ID)
			}
			// Stale id: fall through and create a fresh project.
		}

		created := Project{}
		applyRequest(&created, req, status)
		plan.Creates = append(plan.Creates, created)
	}

	// Collect updates and deletes in persisted order so the plan is
	// deterministic regardless of request ordering.
	for i := range existing {
		if kept[existing[i].ID] {
			plan.Updates = append(plan.Updates, existing[i])
		} else {
			plan.DeleteIDs = append(plan.DeleteIDs, existing[i].ID)
		}
	}

	return plan, nil
}

func applyRequest(p *Project, req ProjectRequest, status Status) {
	p.CropName = strings.TrimSpace(req.CropName)
	p.AreaHa = req.AreaHa
	p.Status = status
	p.PlantingDate = req.PlantingDate
	p.ExpectedHarvestDate = req.ExpectedHarvestDate
	if req.Notes != nil {
		trimmed := strings.TrimSpace(*req.Notes)
		p.Notes = &trimmed
	} else {
		p.Notes = nil
	}
}
