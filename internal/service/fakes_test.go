package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/civicdesk/internal/domain"
	"github.com/spec-kit/civicdesk/internal/repository"
)

// In-memory repository fakes backing the service tests.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) CountAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) CountByRole(_ context.Context) (map[domain.Role]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[domain.Role]int64)
	for _, user := range r.users {
		result[user.Role]++
	}
	return result, nil
}

type fakeComplaintRepo struct {
	mu         sync.Mutex
	complaints map[string]*domain.Complaint
	seq        int
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{complaints: make(map[string]*domain.Complaint)}
}

func (r *fakeComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint.ID = uuid.NewString()
	r.seq++
	// spread creation times so newest-first ordering is deterministic
	complaint.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	complaint.UpdatedAt = complaint.CreatedAt
	clone := *complaint
	r.complaints[complaint.ID] = &clone
	return nil
}

func (r *fakeComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint, ok := r.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *complaint
	return &clone, nil
}

func (r *fakeComplaintRepo) UpdateStatus(_ context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint, ok := r.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	complaint.Status = status
	complaint.UpdatedAt = complaint.UpdatedAt.Add(time.Millisecond)
	clone := *complaint
	return &clone, nil
}

func (r *fakeComplaintRepo) List(_ context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Complaint
	for _, complaint := range r.complaints {
		if !matches(complaint, filter) {
			continue
		}
		result = append(result, *complaint)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return nil, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *fakeComplaintRepo) CountAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.complaints)), nil
}

func (r *fakeComplaintRepo) CountByStatus(_ context.Context, filter repository.ComplaintFilter) (map[domain.ComplaintStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[domain.ComplaintStatus]int64)
	for _, complaint := range r.complaints {
		if !matches(complaint, filter) {
			continue
		}
		result[complaint.Status]++
	}
	return result, nil
}

func (r *fakeComplaintRepo) CountByDepartment(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[string]int64)
	for _, complaint := range r.complaints {
		result[complaint.Department]++
	}
	return result, nil
}

func matches(complaint *domain.Complaint, filter repository.ComplaintFilter) bool {
	if filter.SubmitterID != nil && complaint.SubmitterID != *filter.SubmitterID {
		return false
	}
	if filter.Department != nil && complaint.Department != *filter.Department {
		return false
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if complaint.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type fakeDepartmentRepo struct {
	names []string
}

func newFakeDepartmentRepo(names ...string) *fakeDepartmentRepo {
	if len(names) == 0 {
		names = domain.DefaultDepartments
	}
	return &fakeDepartmentRepo{names: names}
}

func (r *fakeDepartmentRepo) ListActive(_ context.Context) ([]domain.Department, error) {
	result := make([]domain.Department, 0, len(r.names))
	for _, name := range r.names {
		result = append(result, domain.Department{ID: name, Name: name, IsActive: true})
	}
	return result, nil
}

func (r *fakeDepartmentRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, candidate := range r.names {
		if candidate == name {
			return true, nil
		}
	}
	return false, nil
}
