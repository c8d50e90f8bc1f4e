package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"harvest-backend/internal/config"
	"harvest-backend/internal/domains/farmer"
	"harvest-backend/internal/domains/project"
	"harvest-backend/pkg/cache"
	"harvest-backend/pkg/keylock"
	"harvest-backend/pkg/logger"
)

const qrCodeMaxAttempts = 5

type farmerService struct {
	farmers  farmer.Repository
	projects project.Repository
	locks    *keylock.KeyLock
	cache    cache.Cache
	cfg      config.FarmerConfig
}

// NewFarmerService wires the farmer aggregate service. The key lock is
// shared with the project service so concurrent writes against the same
// farmer serialize across both surfaces.
func NewFarmerService(
	farmers farmer.Repository,
	projects project.Repository,
	locks *keylock.KeyLock,
	c cache.Cache,
	cfg config.FarmerConfig,
) farmer.Service {
	return &farmerService{
		farmers:  farmers,
		projects: projects,
		locks:    locks,
		cache:    c,
		cfg:      cfg,
	}
}

func (s *farmerService) Create(ctx context.Context, cooperativeID int64, req farmer.FarmerRequest) (*farmer.FarmerResponse, error) {
	f, _, err := s.buildFarmer(ctx, cooperativeID, req, nil)
	if err != nil {
		return nil, err
	}

	plan, err := project.BuildReconcilePlan(f.TotalAreaHa, nil, req.Projects, s.cfg.StrictProjectIDs)
	if err != nil {
		return nil, err
	}

	qrCode, err := s.generateUniqueQRCode(ctx)
	if err != nil {
		return nil, err
	}
	f.QRCodeData = qrCode

	if err := s.farmers.CreateWithProjects(ctx, f, plan.Creates); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, cooperativeID)

	resp := farmer.ToResponse(*f, plan.Creates)
	return &resp, nil
}

func (s *farmerService) Update(ctx context.Context, cooperativeID, id int64, req farmer.FarmerRequest) (*farmer.FarmerResponse, error) {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	current, err := s.farmers.FindByIDAndCooperativeID(ctx, id, cooperativeID)
	if err != nil {
		return nil, err
	}

	f, _, err := s.buildFarmer(ctx, cooperativeID, req, current)
	if err != nil {
		return nil, err
	}

	existing, err := s.projects.FindByFarmerID(ctx, id)
	if err != nil {
		return nil, err
	}

	plan, err := project.BuildReconcilePlan(f.TotalAreaHa, existing, req.Projects, s.cfg.StrictProjectIDs)
	if err != nil {
		return nil, err
	}

	if err := s.farmers.UpdateWithProjects(ctx, f, plan); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, cooperativeID)

	final := append(append([]project.Project{}, plan.Updates...), plan.Creates...)
	resp := farmer.ToResponse(*f, final)
	return &resp, nil
}

func (s *farmerService) Delete(ctx context.Context, cooperativeID, id int64) error {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	if _, err := s.farmers.FindByIDAndCooperativeID(ctx, id, cooperativeID); err != nil {
		return err
	}
	if err := s.farmers.DeleteWithProjects(ctx, id); err != nil {
		return err
	}

	s.invalidateStats(ctx, cooperativeID)
	return nil
}

func (s *farmerService) GetByID(ctx context.Context, cooperativeID, id int64) (*farmer.FarmerResponse, error) {
	f, err := s.farmers.FindByIDAndCooperativeID(ctx, id, cooperativeID)
	if err != nil {
		return nil, err
	}
	projects, err := s.projects.FindByFarmerID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := farmer.ToResponse(*f, projects)
	return &resp, nil
}

func (s *farmerService) List(ctx context.Context, cooperativeID int64, filter farmer.ListFilter) ([]farmer.FarmerResponse, int64, error) {
	filter.Normalize()

	farmers, total, err := s.farmers.List(ctx, cooperativeID, filter)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(farmers))
	for _, f := range farmers {
		ids = append(ids, f.ID)
	}
	allocatedByFarmer, err := s.projects.SumAreaByFarmerIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]farmer.FarmerResponse, 0, len(farmers))
	for _, f := range farmers {
		responses = append(responses, farmer.ToSummaryResponse(f, allocatedByFarmer[f.ID]))
	}
	return responses, total, nil
}

func (s *farmerService) UpdateStatus(ctx context.Context, cooperativeID, id int64, status string) (*farmer.FarmerResponse, error) {
	parsed, err := farmer.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	f, err := s.farmers.FindByIDAndCooperativeID(ctx, id, cooperativeID)
	if err != nil {
		return nil, err
	}
	if err := s.farmers.UpdateStatus(ctx, id, parsed); err != nil {
		return nil, err
	}
	f.Status = parsed

	s.invalidateStats(ctx, cooperativeID)

	projects, err := s.projects.FindByFarmerID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := farmer.ToResponse(*f, projects)
	return &resp, nil
}

func (s *farmerService) Statistics(ctx context.Context, cooperativeID int64) (*farmer.Statistics, error) {
	key := farmer.StatsCacheKey(cooperativeID)

	var cached farmer.Statistics
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Error("Statistics: cache read failed", err)
	} else if found {
		return &cached, nil
	}

	stats, err := s.farmers.Statistics(ctx, cooperativeID)
	if err != nil {
		return nil, err
	}
	// Deliberately not floored at zero: a negative rollup surfaces
	// over-allocated legacy data, unlike the per-farmer figure.
	stats.TotalRemainingAreaHa = stats.TotalAreaHa - stats.TotalAllocatedAreaHa

	ttl := time.Duration(s.cfg.StatsCacheTTL) * time.Second
	if err := s.cache.Set(ctx, key, stats, ttl); err != nil {
		logger.Error("Statistics: cache write failed", err)
	}
	return stats, nil
}

// buildFarmer validates and normalizes a request into a farmer entity. When
// existing is non-nil the entity keeps its identity fields and the duplicate
// checks exclude the farmer itself. The returned fieldError carries the
// offending field for bulk-import reporting.
func (s *farmerService) buildFarmer(ctx context.Context, cooperativeID int64, req farmer.FarmerRequest, existing *farmer.Farmer) (*farmer.Farmer, *fieldError, error) {
	fail := func(field, value string, err error) (*farmer.Farmer, *fieldError, error) {
		return nil, &fieldError{field: field, value: value}, err
	}

	if err := req.Validate(); err != nil {
		return fail("", "", fmt.Errorf("%w: %s", farmer.ErrValidation, err))
	}

	phone, err := farmer.ValidatePhoneNumber(req.PhoneNumber)
	if err != nil {
		return fail("phone_number", req.PhoneNumber, err)
	}
	location, err := farmer.ValidateLocation(req.Location)
	if err != nil {
		return fail("location", req.Location, err)
	}
	var language string
	if strings.TrimSpace(req.Language) != "" {
		language, err = farmer.ValidateLanguage(req.Language)
		if err != nil {
			return fail("language", req.Language, err)
		}
	}
	if req.Coordinates != nil {
		if err := farmer.ValidateCoordinates(req.Coordinates.Latitude, req.Coordinates.Longitude); err != nil {
			return fail("coordinates", fmt.Sprintf("%v,%v", req.Coordinates.Latitude, req.Coordinates.Longitude), err)
		}
	}

	status := farmer.StatusActive
	if req.Status != nil && *req.Status != "" {
		status, err = farmer.ParseStatus(*req.Status)
		if err != nil {
			return fail("status", *req.Status, err)
		}
	}

	var excludeID int64
	if existing != nil {
		excludeID = existing.ID
	}
	if taken, err := s.farmers.ExistsByPhoneAndCooperativeID(ctx, phone, cooperativeID, excludeID); err != nil {
		return nil, nil, err
	} else if taken {
		return fail("phone_number", req.PhoneNumber, farmer.ErrDuplicatePhone)
	}
	if taken, err := s.farmers.ExistsByNameAndCooperativeID(ctx, req.FullName, cooperativeID, excludeID); err != nil {
		return nil, nil, err
	} else if taken {
		return fail("full_name", req.FullName, farmer.ErrDuplicateName)
	}

	f := &farmer.Farmer{
		CooperativeID: cooperativeID,
		FullName:      req.FullName,
		PhoneNumber:   phone,
		Location:      location,
		TotalAreaHa:   req.TotalAreaHa,
		Language:      language,
		Status:        status,
	}
	if existing != nil {
		f.ID = existing.ID
		f.QRCodeData = existing.QRCodeData
		f.CreatedAt = existing.CreatedAt
	}
	if req.Coordinates != nil {
		lat, lon := req.Coordinates.Latitude, req.Coordinates.Longitude
		f.Latitude, f.Longitude = &lat, &lon
	}
	return f, nil, nil
}

func (s *farmerService) generateUniqueQRCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < qrCodeMaxAttempts; attempt++ {
		candidate := farmer.GenerateQRCode()
		taken, err := s.farmers.ExistsByQRCode(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", farmer.ErrQRCodeExhausted
}

func (s *farmerService) invalidateStats(ctx context.Context, cooperativeID int64) {
	if err := s.cache.Delete(ctx, farmer.StatsCacheKey(cooperativeID)); err != nil {
		logger.Error("invalidateStats: cache delete failed", err)
	}
}
