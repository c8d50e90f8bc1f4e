package service

import (
	"context"
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harvest-backend/internal/domains/farmer"
	"harvest-backend/internal/domains/project"
	"harvest-backend/pkg/keylock"
)

// stubFarmerRepo serves farmer lookups from a fixed map. The write methods
// are never reached by the project service.
type stubFarmerRepo struct {
	farmers map[int64]farmer.Farmer
}

func (r *stubFarmerRepo) FindByIDAndCooperativeID(_ context.Context, id, cooperativeID int64) (*farmer.Farmer, error) {
	f, ok := r.farmers[id]
	if !ok || f.CooperativeID != cooperativeID {
		return nil, farmer.ErrFarmerNotFound
	}
	copied := f
	return &copied, nil
}

func (r *stubFarmerRepo) CreateWithProjects(context.Context, *farmer.Farmer, []project.Project) error {
	return nil
}

func (r *stubFarmerRepo) UpdateWithProjects(context.Context, *farmer.Farmer, *project.ReconcilePlan) error {
	return nil
}

func (r *stubFarmerRepo) DeleteWithProjects(context.Context, int64) error { return nil }

func (r *stubFarmerRepo) List(context.Context, int64, farmer.ListFilter) ([]farmer.Farmer, int64, error) {
	return nil, 0, nil
}

func (r *stubFarmerRepo) UpdateStatus(context.Context, int64, farmer.Status) error { return nil }

func (r *stubFarmerRepo) ExistsByPhoneAndCooperativeID(context.Context, string, int64, int64) (bool, error) {
	return false, nil
}

func (r *stubFarmerRepo) ExistsByNameAndCooperativeID(context.Context, string, int64, int64) (bool, error) {
	return false, nil
}

func (r *stubFarmerRepo) ExistsByQRCode(context.Context, string) (bool, error) { return false, nil }

func (r *stubFarmerRepo) Statistics(context.Context, int64) (*farmer.Statistics, error) {
	return &farmer.Statistics{}, nil
}

type memProjectRepo struct {
	projects map[int64]project.Project
	nextID   int64
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{projects: make(map[int64]project.Project), nextID: 1}
}

func (r *memProjectRepo) ofFarmer(farmerID int64) []project.Project {
	var out []project.Project
	for _, p := range r.projects {
		if p.FarmerID == farmerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memProjectRepo) FindByFarmerID(_ context.Context, farmerID int64) ([]project.Project, error) {
	return r.ofFarmer(farmerID), nil
}

func (r *memProjectRepo) SumAreaByFarmerIDs(_ context.Context, farmerIDs []int64) (map[int64]float64, error) {
	out := make(map[int64]float64)
	for _, id := range farmerIDs {
		for _, p := range r.ofFarmer(id) {
			out[id] += p.AreaHa
		}
	}
	return out, nil
}

func (r *memProjectRepo) FindByIDAndFarmerID(_ context.Context, id, farmerID int64) (*project.Project, error) {
	p, ok := r.projects[id]
	if !ok || p.FarmerID != farmerID {
		return nil, project.ErrProjectNotFound
	}
	copied := p
	return &copied, nil
}

func (r *memProjectRepo) Create(_ context.Context, p *project.Project) error {
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.projects[p.ID] = *p
	return nil
}

func (r *memProjectRepo) Update(_ context.Context, p *project.Project) error {
	if _, ok := r.projects[p.ID]; !ok {
		return project.ErrProjectNotFound
	}
	p.UpdatedAt = time.Now()
	r.projects[p.ID] = *p
	return nil
}

func (r *memProjectRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.projects[id]; !ok {
		return project.ErrProjectNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *memProjectRepo) SumAreaByFarmerID(_ context.Context, farmerID int64) (float64, error) {
	return project.AllocatedArea(r.ofFarmer(farmerID)), nil
}

func (r *memProjectRepo) CountByCooperativeID(context.Context, int64) (int64, error) { return 0, nil }

func (r *memProjectRepo) SumAreaByCooperativeID(context.Context, int64) (float64, error) {
	return 0, nil
}

type noopCache struct {
	deletes int
}

func (c *noopCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }

func (c *noopCache) Set(_ context.Context, _ string, value interface{}, _ time.Duration) error {
	_, err := json.Marshal(value)
	return err
}

func (c *noopCache) Delete(_ context.Context, _ ...string) error {
	c.deletes++
	return nil
}

func (c *noopCache) Ping(context.Context) error { return nil }

func newProjectTestService() (project.Service, *memProjectRepo, *noopCache) {
	farmers := &stubFarmerRepo{farmers: map[int64]farmer.Farmer{
		7: {ID: 7, CooperativeID: 1, FullName: "Ngozi Mbah", TotalAreaHa: 10, Status: farmer.StatusActive},
	}}
	projects := newMemProjectRepo()
	c := &noopCache{}
	svc := NewProjectService(projects, farmers, keylock.New(), c)
	return svc, projects, c
}

func TestProjectCreate(t *testing.T) {
	svc, projects, c := newProjectTestService()
	ctx := context.Background()

	resp, err := svc.Create(ctx, 1, 7, project.ProjectRequest{CropName: "Cocoa", AreaHa: 4})
	require.NoError(t, err)

	assert.Equal(t, "Cocoa", resp.CropName)
	assert.Equal(t, project.StatusActive, resp.Status)
	assert.Equal(t, int64(7), resp.FarmerID)
	assert.Equal(t, "Ngozi Mbah", resp.FarmerName)
	assert.Len(t, projects.ofFarmer(7), 1)
	assert.Equal(t, 1, c.deletes, "write invalidates the statistics cache")
}

func TestProjectCreate_ExceedsRemainingArea(t *testing.T) {
	svc, projects, _ := newProjectTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, 7, project.ProjectRequest{CropName: "Cocoa", AreaHa: 7})
	require.NoError(t, err)

	_, err = svc.Create(ctx, 1, 7, project.ProjectRequest{CropName: "Maize", AreaHa: 4})
	require.ErrorIs(t, err, project.ErrAreaExceeded)
	// The message names all four figures: requested, remaining, farm
	// total, and already allocated.
	assert.Contains(t, err.Error(), "project area (4.00 ha)")
	assert.Contains(t, err.Error(), "remaining area (3.00 ha)")
	assert.Contains(t, err.Error(), "farm total 10.00 ha")
	assert.Contains(t, err.Error(), "already allocated 7.00 ha")
	assert.Len(t, projects.ofFarmer(7), 1)

	// Exactly filling the remainder is allowed.
	_, err = svc.Create(ctx, 1, 7, project.ProjectRequest{CropName: "Maize", AreaHa: 3})
	assert.NoError(t, err)
}

func TestProjectCreate_ValidationAndTenancy(t *testing.T) {
	svc, _, _ := newProjectTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, 7, project.ProjectRequest{CropName: "", AreaHa: 1})
	assert.ErrorIs(t, err, farmer.ErrValidation)

	_, err = svc.Create(ctx, 1, 7, project.ProjectRequest{CropName: "Cocoa", AreaHa: 0})
	assert.ErrorIs(t, err, farmer.ErrValidation)

	// Wrong cooperative: the farmer is invisible, not forbidden.
	_, err = svc.Create(ctx, 2, 7, project.ProjectRequest{CropName: "Cocoa", AreaHa: 1})
	assert.ErrorIs(t, err, farmer.ErrFarmerNotFound)
}

func TestProjectUpdate_ExcludesOwnAreaFromCheck(t *testing.T) {
	svc, _, _ := newProjectTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, 7, project.ProjectRequest{CropName: "Cocoa", AreaHa: 8})
	require.NoError(t, err)

	// Growing the project within the freed-up total is fine even though
	// 8 + 10 would not fit.
	updated, err := svc.Update(ctx, 1, 7, created.ID, project.ProjectRequest{CropName: "Cocoa", AreaHa: 10})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, updated.AreaHa, 1e-9)

	// Beyond the total still fails.
	_, err = svc.Update(ctx, 1, 7, created.ID, project.ProjectRequest{CropName: "Cocoa", AreaHa: 10.5})
	assert.ErrorIs(t, err, project.ErrAreaExceeded)
}

func TestProjectUpdateStatus(t *testing.T) {
	svc, _, _ := newProjectTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, 7, project.ProjectRequest{CropName: "Cocoa", AreaHa: 2})
	require.NoError(t, err)

	resp, err := svc.UpdateStatus(ctx, 1, 7, created.ID, "harvesting")
	require.NoError(t, err)
	assert.Equal(t, project.StatusHarvesting, resp.Status)

	_, err = svc.UpdateStatus(ctx, 1, 7, created.ID, "withered")
	assert.ErrorIs(t, err, project.ErrInvalidStatus)
}

func TestProjectDelete(t *testing.T) {
	svc, projects, _ := newProjectTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, 7, project.ProjectRequest{CropName: "Cocoa", AreaHa: 2})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, 7, created.ID))
	assert.Empty(t, projects.ofFarmer(7))

	err = svc.Delete(ctx, 1, 7, created.ID)
	assert.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestProjectListByFarmer(t *testing.T) {
	svc, _, _ := newProjectTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, 7, project.ProjectRequest{CropName: "Cocoa", AreaHa: 2})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, 7, project.ProjectRequest{CropName: "Maize", AreaHa: 1})
	require.NoError(t, err)

	listed, err := svc.ListByFarmer(ctx, 1, 7)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "Ngozi Mbah", listed[0].FarmerName)

	_, err = svc.ListByFarmer(ctx, 1, 99)
	assert.ErrorIs(t, err, farmer.ErrFarmerNotFound)
}
