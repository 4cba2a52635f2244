package store

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employee-directory/internal/apperr"
	"employee-directory/internal/models"
	"employee-directory/internal/query"
)

func seed(t *testing.T, s *MemoryStore, owner string, n int) []models.Employee {
	t.Helper()
	out := make([]models.Employee, 0, n)
	for i := 0; i < n; i++ {
		e, err := s.CreateEmployee(context.Background(), models.Employee{
			Name:        fmt.Sprintf("Employee %02d", i),
			Email:       fmt.Sprintf("e%02d@example.com", i),
			Mobile:      "+919876543210",
			Designation: "Developer",
			Gender:      models.GenderOther,
			Course:      []string{"Go"},
			ImageURL:    "https://cdn.example.com/e.png",
			OwnerID:     owner,
		})
		require.NoError(t, err)
		out = append(out, e)
	}
	return out
}

func TestMemoryStoreRejectsDuplicateEmail(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.CreateUser(ctx, models.User{Name: "A", Email: "a@example.com", PasswordHash: "x"})
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, models.User{Name: "A2", Email: "A@example.com", PasswordHash: "y"})
	assert.ErrorIs(t, err, apperr.ErrEmailTaken)
}

func TestMemoryStoreListPagesInCreationOrder(t *testing.T) {
	s := NewMemoryStore()
	created := seed(t, s, "owner", 23)
	seed(t, s, "other", 5)
	ctx := context.Background()

	page, total, err := s.ListEmployees(ctx, query.Build(query.Criteria{Page: "3"}, "owner"))
	require.NoError(t, err)
	assert.Equal(t, 23, total)
	require.Len(t, page, 3)
	assert.Equal(t, created[20].ID, page[0].ID)
	assert.Equal(t, created[22].ID, page[2].ID)

	for _, far := range []string{"9", strconv.Itoa(math.MaxInt)} {
		page, total, err = s.ListEmployees(ctx, query.Build(query.Criteria{Page: far}, "owner"))
		require.NoError(t, err, "page=%s", far)
		assert.Equal(t, 23, total)
		assert.NotNil(t, page)
		assert.Empty(t, page)
	}
}

func TestMemoryStoreScopesSingleRecordOperations(t *testing.T) {
	s := NewMemoryStore()
	e := seed(t, s, "owner", 1)[0]
	ctx := context.Background()

	_, err := s.GetEmployee(ctx, e.ID, "other")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = s.GetEmployee(ctx, "missing", "owner")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	e.OwnerID = "other"
	_, err = s.UpdateEmployee(ctx, e)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.ErrorIs(t, s.DeleteEmployee(ctx, e.ID, "other"), apperr.ErrNotFound)
	assert.Equal(t, 1, s.EmployeeCount())
	require.NoError(t, s.DeleteEmployee(ctx, e.ID, "owner"))
	assert.Equal(t, 0, s.EmployeeCount())
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	e := seed(t, s, "owner", 1)[0]

	got, err := s.GetEmployee(context.Background(), e.ID, "owner")
	require.NoError(t, err)
	got.Course[0] = "mutated"

	again, err := s.GetEmployee(context.Background(), e.ID, "owner")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, again.Course)
}
