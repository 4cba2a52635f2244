package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"employee-directory/internal/apperr"
	"employee-directory/internal/models"
	"employee-directory/internal/query"
)

// MemoryStore keeps users and employees in process. Useful for tests and
// local runs without Postgres.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]models.User
	emails    map[string]string
	employees map[string]models.Employee
	now       func() time.Time
	last      time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]models.User),
		emails:    make(map[string]string),
		employees: make(map[string]models.Employee),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) CreateUser(_ context.Context, u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, ok := s.emails[key]; ok {
		return models.User{}, apperr.ErrEmailTaken
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := s.now()
	u.CreatedAt, u.UpdatedAt = now, now
	s.users[u.ID] = u
	s.emails[key] = u.ID
	return u, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (models.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return models.User{}, false, nil
	}
	return s.users[id], true, nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (models.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok, nil
}

func (s *MemoryStore) ListEmployees(_ context.Context, q query.Expression) ([]models.Employee, int, error) {
	s.mu.RLock()
	matched := make([]models.Employee, 0)
	for _, e := range s.employees {
		if q.Matches(e) {
			matched = append(matched, clone(e))
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return q.Less(matched[i], matched[j]) })
	total := len(matched)
	start := q.Offset()
	if start < 0 || start >= total {
		return []models.Employee{}, total, nil
	}
	end := total
	if q.PageSize < total-start {
		end = start + q.PageSize
	}
	return matched[start:end], total, nil
}

func (s *MemoryStore) CreateEmployee(_ context.Context, e models.Employee) (models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := s.tick()
	e.CreatedAt, e.UpdatedAt = now, now
	s.employees[e.ID] = clone(e)
	return e, nil
}

func (s *MemoryStore) GetEmployee(_ context.Context, id, ownerID string) (models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.employees[id]
	if !ok || e.OwnerID != ownerID {
		return models.Employee{}, apperr.ErrNotFound
	}
	return clone(e), nil
}

func (s *MemoryStore) UpdateEmployee(_ context.Context, e models.Employee) (models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.employees[e.ID]
	if !ok || cur.OwnerID != e.OwnerID {
		return models.Employee{}, apperr.ErrNotFound
	}
	e.CreatedAt = cur.CreatedAt
	e.UpdatedAt = s.tick()
	s.employees[e.ID] = clone(e)
	return e, nil
}

func (s *MemoryStore) DeleteEmployee(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[id]
	if !ok || e.OwnerID != ownerID {
		return apperr.ErrNotFound
	}
	delete(s.employees, id)
	return nil
}

// EmployeeCount returns the number of stored employees across all owners.
func (s *MemoryStore) EmployeeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.employees)
}

// tick returns a strictly increasing timestamp so creation order is stable.
// Callers hold mu.
func (s *MemoryStore) tick() time.Time {
	now := s.now()
	if !now.After(s.last) {
		now = s.last.Add(time.Microsecond)
	}
	s.last = now
	return now
}

func clone(e models.Employee) models.Employee {
	e.Course = append([]string(nil), e.Course...)
	return e
}
