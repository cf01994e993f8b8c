package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	citizenmodels "nadra/internal/citizen/models"
	"nadra/internal/updaterequest/models"
	"nadra/pkg/domain"
	"nadra/pkg/platform/sentinel"
	"nadra/pkg/platform/tx"
)

// Postgres persists change requests in PostgreSQL.
//
// Adjudication is a single transaction: the row is locked, the status
// transition is a conditional update guarded on Pending, and the apply
// callback joins the same transaction through the context, so the citizen
// field write and the status flip commit or roll back together.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const requestColumns = `id, citizen_id, field, old_value, new_value, reason, status, requested_by, department_id, created_at, resolved_by, resolved_at`

func scanRequest(row interface{ Scan(dest ...any) error }) (*models.ChangeRequest, error) {
	var r models.ChangeRequest
	var id, citizenID, field, status, requestedBy string
	var deptID, resolvedBy sql.NullString
	var resolvedAt sql.NullTime

	err := row.Scan(&id, &citizenID, &field, &r.OldValue, &r.NewValue, &r.Reason,
		&status, &requestedBy, &deptID, &r.CreatedAt, &resolvedBy, &resolvedAt)
	if err != nil {
		return nil, err
	}

	if r.ID, err = domain.ParseRequestID(id); err != nil {
		return nil, fmt.Errorf("stored request id invalid: %w", err)
	}
	if r.CitizenID, err = domain.ParseCitizenID(citizenID); err != nil {
		return nil, fmt.Errorf("stored citizen id invalid: %w", err)
	}
	if r.RequestedBy, err = domain.ParseUserID(requestedBy); err != nil {
		return nil, fmt.Errorf("stored requester id invalid: %w", err)
	}
	if r.Status, err = models.ParseStatus(status); err != nil {
		return nil, err
	}
	// The field name is trusted as stored; it passed ParseMutableField at
	// creation and the accessor table re-checks it on apply.
	r.Field = citizenmodels.MutableField(field)

	if deptID.Valid {
		parsed, err := domain.ParseDepartmentID(deptID.String)
		if err != nil {
			return nil, fmt.Errorf("stored department id invalid: %w", err)
		}
		r.DepartmentID = &parsed
	}
	if resolvedBy.Valid {
		parsed, err := domain.ParseUserID(resolvedBy.String)
		if err != nil {
			return nil, fmt.Errorf("stored resolver id invalid: %w", err)
		}
		r.ResolvedBy = &parsed
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		r.ResolvedAt = &t
	}
	return &r, nil
}

func (s *Postgres) Create(ctx context.Context, req *models.ChangeRequest) error {
	query := `
		INSERT INTO change_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	var deptID, resolvedBy any
	if req.DepartmentID != nil {
		deptID = req.DepartmentID.String()
	}
	if req.ResolvedBy != nil {
		resolvedBy = req.ResolvedBy.String()
	}
	var resolvedAt any
	if req.ResolvedAt != nil {
		resolvedAt = *req.ResolvedAt
	}
	_, err := s.db.ExecContext(ctx, query,
		req.ID.String(), req.CitizenID.String(), req.Field.String(), req.OldValue,
		req.NewValue, req.Reason, req.Status.String(), req.RequestedBy.String(),
		deptID, req.CreatedAt, resolvedBy, resolvedAt,
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id domain.RequestID) (*models.ChangeRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM change_requests WHERE id = $1`
	r, err := scanRequest(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("request %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find request: %w", err)
	}
	return r, nil
}

func (s *Postgres) ListPending(ctx context.Context) ([]*models.ChangeRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM change_requests WHERE status = $1 ORDER BY created_at ASC`
	rows, err := s.db.QueryContext(ctx, query, models.StatusPending.String())
	if err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	defer rows.Close()

	var out []*models.ChangeRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	return out, nil
}

// ResolvePending transitions a pending request to a terminal status. The
// conditional update guarded on Pending is the race arbiter: of two
// concurrent adjudications exactly one updates the row, the other sees zero
// rows affected and gets ErrInvalidState.
func (s *Postgres) ResolvePending(
	ctx context.Context,
	id domain.RequestID,
	to models.Status,
	resolvedBy domain.UserID,
	at time.Time,
	apply func(ctx context.Context, req *models.ChangeRequest) error,
) (resolved *models.ChangeRequest, err error) {
	txn, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin adjudication: %w", err)
	}
	defer func() {
		if err != nil {
			_ = txn.Rollback()
		}
	}()

	query := `
		UPDATE change_requests
		SET status = $2, resolved_by = $3, resolved_at = $4
		WHERE id = $1 AND status = $5
	`
	res, err := txn.ExecContext(ctx, query, id.String(), to.String(), resolvedBy.String(), at, models.StatusPending.String())
	if err != nil {
		return nil, fmt.Errorf("resolve request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("resolve request: %w", err)
	}
	if affected == 0 {
		// Either the request does not exist or it was already adjudicated.
		var exists bool
		if err = txn.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM change_requests WHERE id = $1)`, id.String()).Scan(&exists); err != nil {
			return nil, fmt.Errorf("resolve request: %w", err)
		}
		if !exists {
			err = fmt.Errorf("request %s: %w", id, sentinel.ErrNotFound)
			return nil, err
		}
		err = fmt.Errorf("request %s: %w", id, sentinel.ErrInvalidState)
		return nil, err
	}

	r, err := scanRequest(txn.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM change_requests WHERE id = $1`, id.String()))
	if err != nil {
		return nil, fmt.Errorf("reload request: %w", err)
	}

	if apply != nil {
		if err = apply(tx.WithTx(ctx, txn), r); err != nil {
			return nil, err
		}
	}

	if err = txn.Commit(); err != nil {
		return nil, fmt.Errorf("commit adjudication: %w", err)
	}
	return r, nil
}
