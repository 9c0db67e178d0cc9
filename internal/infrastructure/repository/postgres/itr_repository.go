package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/taxdesk/taxdesk/internal/core/domain"
)

type ItrFormRepository struct {
	db *sql.DB
}

func NewItrFormRepository(db *sql.DB) *ItrFormRepository {
	return &ItrFormRepository{db: db}
}

func (r *ItrFormRepository) GetByOwner(ctx context.Context, ownerID string) (*domain.ItrForm, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT payload, status, created_at, updated_at
FROM itr_forms
WHERE owner_id = $1
`, ownerID)

	var payload []byte
	var status string
	var form domain.ItrForm
	if err := row.Scan(&payload, &status, &form.CreatedAt, &form.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrFormNotFound, "get itr form", fmt.Errorf("owner=%s", ownerID))
		}
		return nil, fmt.Errorf("scan itr form: %w", err)
	}

	createdAt, updatedAt := form.CreatedAt, form.UpdatedAt
	if err := json.Unmarshal(payload, &form); err != nil {
		return nil, fmt.Errorf("unmarshal itr form payload: %w", err)
	}
	form.OwnerID = ownerID
	form.Status = domain.ItrStatus(status)
	form.CreatedAt, form.UpdatedAt = createdAt, updatedAt
	return &form, nil
}

func (r *ItrFormRepository) Save(ctx context.Context, form *domain.ItrForm) error {
	payload, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("marshal itr form payload: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO itr_forms (owner_id, payload, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (owner_id) DO UPDATE
SET payload = EXCLUDED.payload, status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
`, form.OwnerID, payload, string(form.Status), form.CreatedAt, form.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert itr form: %w", err)
	}
	return nil
}
