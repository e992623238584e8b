// ABOUTME: Policy storage operations for SQLite
// ABOUTME: The corpus cache reads approved rows; writes come from import tooling
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/policyatlas/policyatlas/internal/models"
)

// PolicyStore handles policy persistence
type PolicyStore struct {
	db *DB
}

// NewPolicyStore creates a new PolicyStore
func NewPolicyStore(db *DB) *PolicyStore {
	return &PolicyStore{db: db}
}

// Save inserts or updates a policy record. A missing ID is generated.
func (s *PolicyStore) Save(ctx context.Context, p *models.PolicyRecord) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = fmt.Sprintf("pol_%s", uuid.New().String())
	}
	if p.Status == "" {
		p.Status = models.PolicyStatusPending
	}

	var year interface{}
	if p.ImplementationYear > 0 {
		year = p.ImplementationYear
	}

	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO policies (id, country, policy_area, name, description, implementation_year, status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			country = excluded.country,
			policy_area = excluded.policy_area,
			name = excluded.name,
			description = excluded.description,
			implementation_year = excluded.implementation_year,
			status = excluded.status,
			updated_at = excluded.updated_at
	`, p.ID, p.Country, p.PolicyArea, p.Name, p.Description, year, p.Status, time.Now().UTC())

	return err
}

// ListApproved returns all approved policy records in insertion order.
// This is the fetch behind every corpus refresh.
func (s *PolicyStore) ListApproved(ctx context.Context) ([]models.PolicyRecord, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT id, country, policy_area, name, description, implementation_year, status
		FROM policies
		WHERE status = ?
		ORDER BY created_at ASC, id ASC
	`, models.PolicyStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved policies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []models.PolicyRecord
	for rows.Next() {
		var (
			rec  models.PolicyRecord
			desc sql.NullString
			year sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &rec.Country, &rec.PolicyArea, &rec.Name, &desc, &year, &rec.Status); err != nil {
			return nil, err
		}
		rec.Description = desc.String
		if year.Valid {
			rec.ImplementationYear = int(year.Int64)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Count returns the number of policies with the given status.
func (s *PolicyStore) Count(ctx context.Context, status string) (int, error) {
	var n int
	err := s.db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM policies WHERE status = ?", status).Scan(&n)
	return n, err
}

// Delete removes a policy record
func (s *PolicyStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.conn.ExecContext(ctx, "DELETE FROM policies WHERE id = ?", id)
	return err
}
