package query

import (
	"math"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employee-directory/internal/models"
)

func TestBuildAlwaysScopesToOwner(t *testing.T) {
	v := url.Values{}
	v.Set("ownerId", "intruder")
	v.Set("owner_id", "intruder")

	e := Build(ParseCriteria(v), "user-1")
	where, _, args := e.SQL()

	assert.Equal(t, "owner_id = $1", where)
	assert.Equal(t, []any{"user-1"}, args)
	assert.False(t, e.Matches(models.Employee{OwnerID: "intruder"}))
	assert.True(t, e.Matches(models.Employee{OwnerID: "user-1"}))
}

func TestBuildComposesFiltersWithAnd(t *testing.T) {
	e := Build(Criteria{
		Search:      "smith",
		Gender:      "female",
		Designation: "Manager",
		Course:      "React",
	}, "user-1")
	where, _, args := e.SQL()

	assert.Equal(t,
		"owner_id = $1 AND (name ILIKE $2 OR email ILIKE $2) AND gender = $3 AND designation = $4 AND $5 = ANY(course)",
		where)
	assert.Equal(t, []any{"user-1", "%smith%", "female", "Manager", "React"}, args)
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	emp := models.Employee{OwnerID: "u", Name: "Alice Smith", Email: "alice@example.com"}
	for _, term := range []string{"smith", "ALICE", "ice sm", "EXAMPLE.com"} {
		e := Build(Criteria{Search: term}, "u")
		assert.True(t, e.Matches(emp), "term %q", term)
	}
	assert.False(t, Build(Criteria{Search: "bob"}, "u").Matches(emp))
}

func TestSearchEscapesLikeWildcards(t *testing.T) {
	_, _, args := Build(Criteria{Search: `50%_off\`}, "u").SQL()
	assert.Equal(t, `%50\%\_off\\%`, args[1])

	e := Build(Criteria{Search: "a%b"}, "u")
	assert.False(t, e.Matches(models.Employee{OwnerID: "u", Name: "axxb"}))
	assert.True(t, e.Matches(models.Employee{OwnerID: "u", Name: "xa%bx"}))
}

func TestCourseIsMembership(t *testing.T) {
	e := Build(Criteria{Course: "React"}, "u")
	assert.True(t, e.Matches(models.Employee{OwnerID: "u", Course: []string{"Node.js", "React"}}))
	assert.False(t, e.Matches(models.Employee{OwnerID: "u", Course: []string{"Reactive"}}))
}

func TestSortResolution(t *testing.T) {
	tests := []struct {
		name      string
		field     string
		direction string
		want      string
	}{
		{"default creation order", "", "", "created_at ASC, id ASC"},
		{"unknown field ignored", "password_hash; drop table", "desc", "created_at ASC, id ASC"},
		{"name asc", "name", "", "name ASC, id ASC"},
		{"email desc", "email", "DESC", "email DESC, id ASC"},
		{"created date alias", "createdDate", "desc", "created_at DESC, id ASC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, order, _ := Build(Criteria{SortField: tt.field, SortDirection: tt.direction}, "u").SQL()
			assert.Equal(t, tt.want, order)
		})
	}
}

func TestLessMirrorsOrder(t *testing.T) {
	now := time.Now()
	a := models.Employee{ID: "a", Name: "Ann", CreatedAt: now}
	b := models.Employee{ID: "b", Name: "Bob", CreatedAt: now.Add(-time.Minute)}

	assert.True(t, Build(Criteria{}, "u").Less(b, a))
	assert.True(t, Build(Criteria{SortField: "name"}, "u").Less(a, b))
	assert.True(t, Build(Criteria{SortField: "name", SortDirection: "desc"}, "u").Less(b, a))

	same := models.Employee{ID: "c", Name: "Ann", CreatedAt: now}
	assert.True(t, Build(Criteria{SortField: "name", SortDirection: "desc"}, "u").Less(a, same))
}

func TestCoercePaging(t *testing.T) {
	tests := []struct {
		page, size string
		want       Paging
		offset     int
	}{
		{"", "", Paging{1, 10}, 0},
		{"3", "20", Paging{3, 20}, 40},
		{"0", "-5", Paging{1, 10}, 0},
		{"abc", "1.5", Paging{1, 10}, 0},
		{"2", "1000", Paging{2, MaxPageSize}, MaxPageSize},
		{strconv.Itoa(math.MaxInt), "", Paging{math.MaxInt, 10}, math.MaxInt},
		{strconv.Itoa(math.MaxInt / 10), "10", Paging{math.MaxInt / 10, 10}, (math.MaxInt/10 - 1) * 10},
	}
	for _, tt := range tests {
		got := CoercePaging(tt.page, tt.size)
		require.Equal(t, tt.want, got, "page=%q size=%q", tt.page, tt.size)
		assert.Equal(t, tt.offset, got.Offset())
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 7, TotalPages(61, 10))
}
