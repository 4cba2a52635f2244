package query

import (
	"slices"
	"strconv"
	"strings"

	"employee-directory/internal/models"
)

// Sortable fields, keyed by their wire name.
var sortColumns = map[string]string{
	"name":        "name",
	"email":       "email",
	"mobile":      "mobile",
	"designation": "designation",
	"gender":      "gender",
	"createdAt":   "created_at",
	"createdDate": "created_at",
	"updatedAt":   "updated_at",
}

// Expression is a fully resolved, owner-scoped employee query. It is built
// once per request and can be rendered to SQL or evaluated in memory.
type Expression struct {
	OwnerID     string
	Search      string
	Gender      string
	Designation string
	Course      string
	SortColumn  string
	Direction   Direction
	Paging
}

// Build resolves raw criteria into an expression scoped to ownerID. The owner
// constraint is always present.
func Build(c Criteria, ownerID string) Expression {
	e := Expression{
		OwnerID:     ownerID,
		Search:      c.Search,
		Gender:      c.Gender,
		Designation: c.Designation,
		Course:      c.Course,
		SortColumn:  "created_at",
		Direction:   Asc,
		Paging:      CoercePaging(c.Page, c.PageSize),
	}
	if col, ok := sortColumns[c.SortField]; ok {
		e.SortColumn = col
		if strings.EqualFold(c.SortDirection, string(Desc)) {
			e.Direction = Desc
		}
	}
	return e
}

// SQL renders the WHERE and ORDER BY clauses with positional args.
func (e Expression) SQL() (where string, orderBy string, args []any) {
	conds := []string{}
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	add("owner_id = ?", e.OwnerID)
	if e.Search != "" {
		add("(name ILIKE ? OR email ILIKE ?)", "%"+escapeLike(e.Search)+"%")
	}
	if e.Gender != "" {
		add("gender = ?", e.Gender)
	}
	if e.Designation != "" {
		add("designation = ?", e.Designation)
	}
	if e.Course != "" {
		add("? = ANY(course)", e.Course)
	}

	dir := "ASC"
	if e.Direction == Desc {
		dir = "DESC"
	}
	orderBy = e.SortColumn + " " + dir + ", id ASC"
	return strings.Join(conds, " AND "), orderBy, args
}

// Matches reports whether emp satisfies every constraint of the expression.
func (e Expression) Matches(emp models.Employee) bool {
	if emp.OwnerID != e.OwnerID {
		return false
	}
	if e.Search != "" {
		needle := strings.ToLower(e.Search)
		if !strings.Contains(strings.ToLower(emp.Name), needle) &&
			!strings.Contains(strings.ToLower(emp.Email), needle) {
			return false
		}
	}
	if e.Gender != "" && string(emp.Gender) != e.Gender {
		return false
	}
	if e.Designation != "" && emp.Designation != e.Designation {
		return false
	}
	if e.Course != "" && !slices.Contains(emp.Course, e.Course) {
		return false
	}
	return true
}

// Less orders a before b the way SQL() orders rows.
func (e Expression) Less(a, b models.Employee) bool {
	c := compare(e.SortColumn, a, b)
	if c == 0 {
		return a.ID < b.ID
	}
	if e.Direction == Desc {
		return c > 0
	}
	return c < 0
}

func compare(column string, a, b models.Employee) int {
	switch column {
	case "name":
		return strings.Compare(a.Name, b.Name)
	case "email":
		return strings.Compare(a.Email, b.Email)
	case "mobile":
		return strings.Compare(a.Mobile, b.Mobile)
	case "designation":
		return strings.Compare(a.Designation, b.Designation)
	case "gender":
		return strings.Compare(string(a.Gender), string(b.Gender))
	case "updated_at":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// escapeLike makes LIKE wildcards in s literal (backslash is the default
// escape character in Postgres).
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
