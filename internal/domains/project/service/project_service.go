package service

import (
	"context"
	"fmt"
	"strings"

	"harvest-backend/internal/domains/farmer"
	"harvest-backend/internal/domains/project"
	"harvest-backend/pkg/cache"
	"harvest-backend/pkg/keylock"
	"harvest-backend/pkg/logger"
)

type projectService struct {
	projects project.Repository
	farmers  farmer.Repository
	locks    *keylock.KeyLock
	cache    cache.Cache
}

// NewProjectService wires the standalone project service. It shares the
// per-farmer key lock with the farmer service so a single-project write and
// a whole-list reconcile never interleave on the same farmer.
func NewProjectService(
	projects project.Repository,
	farmers farmer.Repository,
	locks *keylock.KeyLock,
	c cache.Cache,
) project.Service {
	return &projectService{
		projects: projects,
		farmers:  farmers,
		locks:    locks,
		cache:    c,
	}
}

func (s *projectService) ListByFarmer(ctx context.Context, cooperativeID, farmerID int64) ([]project.ProjectResponse, error) {
	f, err := s.farmers.FindByIDAndCooperativeID(ctx, farmerID, cooperativeID)
	if err != nil {
		return nil, err
	}

	projects, err := s.projects.FindByFarmerID(ctx, farmerID)
	if err != nil {
		return nil, err
	}

	responses := make([]project.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		responses = append(responses, project.ToResponse(p, f.FullName))
	}
	return responses, nil
}

func (s *projectService) Create(ctx context.Context, cooperativeID, farmerID int64, req project.ProjectRequest) (*project.ProjectResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", farmer.ErrValidation, err)
	}
	status, err := req.EffectiveStatus()
	if err != nil {
		return nil, err
	}

	s.locks.Lock(farmerID)
	defer s.locks.Unlock(farmerID)

	f, err := s.farmers.FindByIDAndCooperativeID(ctx, farmerID, cooperativeID)
	if err != nil {
		return nil, err
	}

	allocated, err := s.projects.SumAreaByFarmerID(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	if project.WouldExceed(f.TotalAreaHa, allocated, req.AreaHa) {
		return nil, areaExceededError(req.AreaHa, f.TotalAreaHa, allocated)
	}

	p := project.Project{FarmerID: farmerID, Status: status}
	applyRequest(&p, req)
	if err := s.projects.Create(ctx, &p); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, cooperativeID)

	resp := project.ToResponse(p, f.FullName)
	return &resp, nil
}

func (s *projectService) Update(ctx context.Context, cooperativeID, farmerID, projectID int64, req project.ProjectRequest) (*project.ProjectResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", farmer.ErrValidation, err)
	}
	status, err := req.EffectiveStatus()
	if err != nil {
		return nil, err
	}

	s.locks.Lock(farmerID)
	defer s.locks.Unlock(farmerID)

	f, err := s.farmers.FindByIDAndCooperativeID(ctx, farmerID, cooperativeID)
	if err != nil {
		return nil, err
	}
	current, err := s.projects.FindByIDAndFarmerID(ctx, projectID, farmerID)
	if err != nil {
		return nil, err
	}

	allocated, err := s.projects.SumAreaByFarmerID(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	// The project being replaced frees its own share first.
	allocated -= current.AreaHa
	if project.WouldExceed(f.TotalAreaHa, allocated, req.AreaHa) {
		return nil, areaExceededError(req.AreaHa, f.TotalAreaHa, allocated)
	}

	current.Status = status
	applyRequest(current, req)
	if err := s.projects.Update(ctx, current); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, cooperativeID)

	resp := project.ToResponse(*current, f.FullName)
	return &resp, nil
}

func (s *projectService) UpdateStatus(ctx context.Context, cooperativeID, farmerID, projectID int64, status string) (*project.ProjectResponse, error) {
	parsed, err := project.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	s.locks.Lock(farmerID)
	defer s.locks.Unlock(farmerID)

	f, err := s.farmers.FindByIDAndCooperativeID(ctx, farmerID, cooperativeID)
	if err != nil {
		return nil, err
	}
	current, err := s.projects.FindByIDAndFarmerID(ctx, projectID, farmerID)
	if err != nil {
		return nil, err
	}

	current.Status = parsed
	if err := s.projects.Update(ctx, current); err != nil {
		return nil, err
	}

	resp := project.ToResponse(*current, f.FullName)
	return &resp, nil
}

func (s *projectService) Delete(ctx context.Context, cooperativeID, farmerID, projectID int64) error {
	s.locks.Lock(farmerID)
	defer s.locks.Unlock(farmerID)

	if _, err := s.farmers.FindByIDAndCooperativeID(ctx, farmerID, cooperativeID); err != nil {
		return err
	}
	current, err := s.projects.FindByIDAndFarmerID(ctx, projectID, farmerID)
	if err != nil {
		return err
	}

	if err := s.projects.Delete(ctx, current.ID); err != nil {
		return err
	}

	s.invalidateStats(ctx, cooperativeID)
	return nil
}

func applyRequest(p *project.Project, req project.ProjectRequest) {
	p.CropName = strings.TrimSpace(req.CropName)
	p.AreaHa = req.AreaHa
	p.PlantingDate = req.PlantingDate
	p.ExpectedHarvestDate = req.ExpectedHarvestDate
	p.Notes = req.Notes
}

func areaExceededError(requested, total, allocated float64) error {
	return fmt.Errorf("%w: project area (%.2f ha) exceeds farmer's remaining area (%.2f ha): farm total %.2f ha, already allocated %.2f ha",
		project.ErrAreaExceeded, requested, project.RemainingArea(total, allocated), total, allocated)
}

func (s *projectService) invalidateStats(ctx context.Context, cooperativeID int64) {
	if err := s.cache.Delete(ctx, farmer.StatsCacheKey(cooperativeID)); err != nil {
		logger.Error("invalidateStats: cache delete failed", err)
	}
}
