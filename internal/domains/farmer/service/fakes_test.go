package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"harvest-backend/internal/domains/farmer"
	"harvest-backend/internal/domains/project"
)

// In-memory repositories backing the service tests. A single store is shared
// between the farmer and project fakes so the *WithProjects writes stay
// consistent, mirroring the transactional repository.

type fakeStore struct {
	farmers       map[int64]farmer.Farmer
	projects      map[int64]project.Project
	nextFarmerID  int64
	nextProjectID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		farmers:       make(map[int64]farmer.Farmer),
		projects:      make(map[int64]project.Project),
		nextFarmerID:  1,
		nextProjectID: 1,
	}
}

func (s *fakeStore) projectsOf(farmerID int64) []project.Project {
	var out []project.Project
	for _, p := range s.projects {
		if p.FarmerID == farmerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeFarmerRepo struct {
	store *fakeStore

	// qrTaken forces ExistsByQRCode to report every candidate as taken.
	qrTaken   bool
	createErr error
	updateErr error
}

func (r *fakeFarmerRepo) CreateWithProjects(_ context.Context, f *farmer.Farmer, projects []project.Project) error {
	if r.createErr != nil {
		return r.createErr
	}
	f.ID = r.store.nextFarmerID
	r.store.nextFarmerID++
	f.CreatedAt = time.Now()
	f.UpdatedAt = f.CreatedAt
	r.store.farmers[f.ID] = *f

	for i := range projects {
		projects[i].ID = r.store.nextProjectID
		r.store.nextProjectID++
		projects[i].FarmerID = f.ID
		r.store.projects[projects[i].ID] = projects[i]
	}
	return nil
}

func (r *fakeFarmerRepo) UpdateWithProjects(_ context.Context, f *farmer.Farmer, plan *project.ReconcilePlan) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.store.farmers[f.ID]; !ok {
		return farmer.ErrFarmerNotFound
	}
	f.UpdatedAt = time.Now()
	r.store.farmers[f.ID] = *f

	for _, id := range plan.DeleteIDs {
		delete(r.store.projects, id)
	}
	for _, p := range plan.Updates {
		r.store.projects[p.ID] = p
	}
	for i := range plan.Creates {
		plan.Creates[i].ID = r.store.nextProjectID
		r.store.nextProjectID++
		plan.Creates[i].FarmerID = f.ID
		r.store.projects[plan.Creates[i].ID] = plan.Creates[i]
	}
	return nil
}

func (r *fakeFarmerRepo) DeleteWithProjects(_ context.Context, id int64) error {
	if _, ok := r.store.farmers[id]; !ok {
		return farmer.ErrFarmerNotFound
	}
	delete(r.store.farmers, id)
	for pid, p := range r.store.projects {
		if p.FarmerID == id {
			delete(r.store.projects, pid)
		}
	}
	return nil
}

func (r *fakeFarmerRepo) FindByIDAndCooperativeID(_ context.Context, id, cooperativeID int64) (*farmer.Farmer, error) {
	f, ok := r.store.farmers[id]
	if !ok || f.CooperativeID != cooperativeID {
		return nil, farmer.ErrFarmerNotFound
	}
	copied := f
	return &copied, nil
}

func (r *fakeFarmerRepo) List(_ context.Context, cooperativeID int64, filter farmer.ListFilter) ([]farmer.Farmer, int64, error) {
	var matched []farmer.Farmer
	for _, f := range r.store.farmers {
		if f.CooperativeID != cooperativeID {
			continue
		}
		if filter.Status != nil && f.Status != *filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(f.FullName), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, f)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := filter.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *fakeFarmerRepo) UpdateStatus(_ context.Context, id int64, status farmer.Status) error {
	f, ok := r.store.farmers[id]
	if !ok {
		return farmer.ErrFarmerNotFound
	}
	f.Status = status
	r.store.farmers[id] = f
	return nil
}

func (r *fakeFarmerRepo) ExistsByPhoneAndCooperativeID(_ context.Context, phone string, cooperativeID, excludeID int64) (bool, error) {
	for _, f := range r.store.farmers {
		if f.CooperativeID == cooperativeID && f.PhoneNumber == phone && f.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFarmerRepo) ExistsByNameAndCooperativeID(_ context.Context, name string, cooperativeID, excludeID int64) (bool, error) {
	for _, f := range r.store.farmers {
		if f.CooperativeID == cooperativeID && strings.EqualFold(f.FullName, name) && f.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFarmerRepo) ExistsByQRCode(_ context.Context, qrCode string) (bool, error) {
	if r.qrTaken {
		return true, nil
	}
	for _, f := range r.store.farmers {
		if f.QRCodeData == qrCode {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFarmerRepo) Statistics(_ context.Context, cooperativeID int64) (*farmer.Statistics, error) {
	stats := &farmer.Statistics{}
	for _, f := range r.store.farmers {
		if f.CooperativeID != cooperativeID {
			continue
		}
		stats.TotalFarmers++
		if f.Status == farmer.StatusActive {
			stats.ActiveFarmers++
		} else {
			stats.InactiveFarmers++
		}
		stats.TotalAreaHa += f.TotalAreaHa

		for _, p := range r.store.projectsOf(f.ID) {
			stats.TotalProjects++
			stats.TotalAllocatedAreaHa += p.AreaHa
		}
	}
	return stats, nil
}

type fakeProjectRepo struct {
	store *fakeStore
}

func (r *fakeProjectRepo) FindByFarmerID(_ context.Context, farmerID int64) ([]project.Project, error) {
	return r.store.projectsOf(farmerID), nil
}

func (r *fakeProjectRepo) SumAreaByFarmerIDs(_ context.Context, farmerIDs []int64) (map[int64]float64, error) {
	out := make(map[int64]float64, len(farmerIDs))
	for _, id := range farmerIDs {
		for _, p := range r.store.projectsOf(id) {
			out[id] += p.AreaHa
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) FindByIDAndFarmerID(_ context.Context, id, farmerID int64) (*project.Project, error) {
	p, ok := r.store.projects[id]
	if !ok || p.FarmerID != farmerID {
		return nil, project.ErrProjectNotFound
	}
	copied := p
	return &copied, nil
}

func (r *fakeProjectRepo) Create(_ context.Context, p *project.Project) error {
	p.ID = r.store.nextProjectID
	r.store.nextProjectID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.store.projects[p.ID] = *p
	return nil
}

func (r *fakeProjectRepo) Update(_ context.Context, p *project.Project) error {
	if _, ok := r.store.projects[p.ID]; !ok {
		return project.ErrProjectNotFound
	}
	p.UpdatedAt = time.Now()
	r.store.projects[p.ID] = *p
	return nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.store.projects[id]; !ok {
		return project.ErrProjectNotFound
	}
	delete(r.store.projects, id)
	return nil
}

func (r *fakeProjectRepo) SumAreaByFarmerID(_ context.Context, farmerID int64) (float64, error) {
	return project.AllocatedArea(r.store.projectsOf(farmerID)), nil
}

func (r *fakeProjectRepo) CountByCooperativeID(_ context.Context, cooperativeID int64) (int64, error) {
	var count int64
	for _, p := range r.store.projects {
		if f, ok := r.store.farmers[p.FarmerID]; ok && f.CooperativeID == cooperativeID {
			count++
		}
	}
	return count, nil
}

func (r *fakeProjectRepo) SumAreaByCooperativeID(_ context.Context, cooperativeID int64) (float64, error) {
	var sum float64
	for _, p := range r.store.projects {
		if f, ok := r.store.farmers[p.FarmerID]; ok && f.CooperativeID == cooperativeID {
			sum += p.AreaHa
		}
	}
	return sum, nil
}

// fakeCache is a map-backed Cache that counts writes and deletes.
type fakeCache struct {
	entries map[string][]byte
	sets    int
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	c.sets++
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.deletes++
	return nil
}

func (c *fakeCache) Ping(context.Context) error { return nil }
