package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"employee-directory/internal/apperr"
	"employee-directory/internal/models"
	"employee-directory/internal/query"
)

const uniqueViolation = "23505"

const employeeColumns = `id::text, owner_id::text, name, email, mobile, designation, gender, course, image_url, created_at, updated_at`

// PostgresStore implements Store on a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	var one int
	return s.pool.QueryRow(ctx, "select 1").Scan(&one)
}

func (s *PostgresStore) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`, u.ID, u.Name, u.Email, u.PasswordHash).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, apperr.ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (models.User, bool, error) {
	return s.getUser(ctx, `lower(email) = lower($1)`, email)
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (models.User, bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.User{}, false, nil
	}
	return s.getUser(ctx, `id = $1`, id)
}

func (s *PostgresStore) getUser(ctx context.Context, cond string, arg any) (models.User, bool, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id::text, name, email, password_hash, created_at, updated_at FROM users WHERE `+cond,
		arg).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("select user: %w", err)
	}
	return u, true, nil
}

// ListEmployees runs the page query and the count concurrently.
func (s *PostgresStore) ListEmployees(ctx context.Context, q query.Expression) ([]models.Employee, int, error) {
	where, orderBy, args := q.SQL()

	var (
		list  []models.Employee
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.pool.QueryRow(gctx, `SELECT count(*) FROM employees WHERE `+where, args...).Scan(&total); err != nil {
			return fmt.Errorf("count employees: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		pageArgs := append(append([]any{}, args...), q.PageSize, q.Offset())
		n := len(args)
		sql := `SELECT ` + employeeColumns + ` FROM employees WHERE ` + where +
			` ORDER BY ` + orderBy +
			` LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
		rows, err := s.pool.Query(gctx, sql, pageArgs...)
		if err != nil {
			return fmt.Errorf("list employees: %w", err)
		}
		defer rows.Close()
		list = make([]models.Employee, 0, q.PageSize)
		for rows.Next() {
			e, err := scanEmployee(rows)
			if err != nil {
				return err
			}
			list = append(list, e)
		}
		return rows.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (s *PostgresStore) CreateEmployee(ctx context.Context, e models.Employee) (models.Employee, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO employees (id, owner_id, name, email, mobile, designation, gender, course, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at
	`, e.ID, e.OwnerID, e.Name, e.Email, e.Mobile, e.Designation, string(e.Gender), e.Course, e.ImageURL,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return models.Employee{}, fmt.Errorf("insert employee: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) GetEmployee(ctx context.Context, id, ownerID string) (models.Employee, error) {
	if !validID(id) {
		return models.Employee{}, apperr.ErrNotFound
	}
	row := s.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = $1 AND owner_id = $2`, id, ownerID)
	e, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Employee{}, apperr.ErrNotFound
	}
	return e, err
}

// UpdateEmployee writes the full document. Concurrent updates are last write
// wins.
func (s *PostgresStore) UpdateEmployee(ctx context.Context, e models.Employee) (models.Employee, error) {
	if !validID(e.ID) {
		return models.Employee{}, apperr.ErrNotFound
	}
	err := s.pool.QueryRow(ctx, `
		UPDATE employees
		SET name=$3, email=$4, mobile=$5, designation=$6, gender=$7, course=$8, image_url=$9, updated_at=NOW()
		WHERE id=$1 AND owner_id=$2
		RETURNING created_at, updated_at
	`, e.ID, e.OwnerID, e.Name, e.Email, e.Mobile, e.Designation, string(e.Gender), e.Course, e.ImageURL,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Employee{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Employee{}, fmt.Errorf("update employee: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) DeleteEmployee(ctx context.Context, id, ownerID string) error {
	if !validID(id) {
		return apperr.ErrNotFound
	}
	ct, err := s.pool.Exec(ctx, `DELETE FROM employees WHERE id=$1 AND owner_id=$2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func scanEmployee(row pgx.Row) (models.Employee, error) {
	var (
		e      models.Employee
		gender string
	)
	if err := row.Scan(&e.ID, &e.OwnerID, &e.Name, &e.Email, &e.Mobile, &e.Designation,
		&gender, &e.Course, &e.ImageURL, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Employee{}, err
		}
		return models.Employee{}, fmt.Errorf("scan employee: %w", err)
	}
	e.Gender = models.Gender(gender)
	return e, nil
}

// validID filters out ids the uuid column would reject, so a malformed id is a
// plain miss.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
