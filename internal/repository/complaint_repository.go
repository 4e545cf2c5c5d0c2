package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/civicdesk/internal/domain"
)

// ComplaintFilter scopes list and count queries. Nil fields mean no filter.
type ComplaintFilter struct {
	SubmitterID *string
	Department  *string
	Statuses    []domain.ComplaintStatus
	Limit       int
	Offset      int
}

// ComplaintRepository encapsulates complaint persistence. Complaints are
// never deleted; the only mutation is the status update.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error)
	List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, filter ComplaintFilter) (map[domain.ComplaintStatus]int64, error)
	CountByDepartment(ctx context.Context) (map[string]int64, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, title, description, department, status, priority, user_id, assigned_to, created_at, updated_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (title, description, department, status, priority, user_id, assigned_to)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.Title,
		complaint.Description,
		complaint.Department,
		complaint.Status,
		complaint.Priority,
		complaint.SubmitterID,
		complaint.AssigneeID,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE id=$1`, complaintColumns)
	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, id).Scan(scanTargets(&complaint)...); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
	query := fmt.Sprintf(`
        UPDATE complaints SET status=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING %s`, complaintColumns)
	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, status, id).Scan(scanTargets(&complaint)...); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.SubmitterID != nil {
		args = append(args, *filter.SubmitterID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE %s ORDER BY created_at DESC`,
		complaintColumns, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) CountAll(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM complaints`
	var count int64
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *complaintRepository) CountByStatus(ctx context.Context, filter ComplaintFilter) (map[domain.ComplaintStatus]int64, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.SubmitterID != nil {
		args = append(args, *filter.SubmitterID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT status, COUNT(*) FROM complaints WHERE %s GROUP BY status`,
		strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[domain.ComplaintStatus]int64)
	for rows.Next() {
		var status domain.ComplaintStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		result[status] = count
	}
	return result, rows.Err()
}

func (r *complaintRepository) CountByDepartment(ctx context.Context) (map[string]int64, error) {
	const query = `SELECT department, COUNT(*) FROM complaints GROUP BY department`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var department string
		var count int64
		if err := rows.Scan(&department, &count); err != nil {
			return nil, err
		}
		result[department] = count
	}
	return result, rows.Err()
}

func scanTargets(complaint *domain.Complaint) []any {
	return []any{
		&complaint.ID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Department,
		&complaint.Status,
		&complaint.Priority,
		&complaint.SubmitterID,
		&complaint.AssigneeID,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	}
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(scanTargets(&complaint)...); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}
