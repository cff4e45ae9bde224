package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stillness-labs/frontier-industry-server/pkg/industry"
)

// FacilityStore handles facility data access.
type FacilityStore struct {
	db *DB
}

// NewFacilityStore creates a new FacilityStore.
func NewFacilityStore(db *DB) *FacilityStore {
	return &FacilityStore{db: db}
}

// ListFacilities returns all facilities with their blueprint counts,
// ordered for display.
func (s *FacilityStore) ListFacilities(ctx context.Context) ([]industry.Facility, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.facility_type_id,
		       f.facility_name,
		       f.facility_category,
		       f.input_capacity,
		       f.output_capacity,
		       f.sort_order,
		       COUNT(b.blueprint_id)
		FROM facilities f
		LEFT JOIN blueprints b ON b.facility_type_id = f.facility_type_id
		GROUP BY f.facility_type_id
		ORDER BY f.sort_order, f.facility_name
	`)
	if err != nil {
		return nil, fmt.Errorf("listing facilities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var facilities []industry.Facility
	for rows.Next() {
		var f industry.Facility
		if err := rows.Scan(
			&f.FacilityTypeID,
			&f.FacilityName,
			&f.FacilityCategory,
			&f.InputCapacity,
			&f.OutputCapacity,
			&f.SortOrder,
			&f.BlueprintCount,
		); err != nil {
			return nil, fmt.Errorf("scanning facility: %w", err)
		}
		facilities = append(facilities, f)
	}

	return facilities, rows.Err()
}

// GetFacility retrieves a single facility. Returns nil if absent.
func (s *FacilityStore) GetFacility(ctx context.Context, facilityTypeID int64) (*industry.Facility, error) {
	var f industry.Facility
	err := s.db.QueryRowContext(ctx, `
		SELECT facility_type_id, facility_name, facility_category,
		       input_capacity, output_capacity, sort_order
		FROM facilities
		WHERE facility_type_id = ?
	`, facilityTypeID).Scan(
		&f.FacilityTypeID,
		&f.FacilityName,
		&f.FacilityCategory,
		&f.InputCapacity,
		&f.OutputCapacity,
		&f.SortOrder,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying facility: %w", err)
	}

	return &f, nil
}

// BulkInsertFacilities inserts facilities in a transaction.
func (s *FacilityStore) BulkInsertFacilities(ctx context.Context, facilities []industry.Facility) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO facilities
			(facility_type_id, facility_name, facility_category,
			 input_capacity, output_capacity, sort_order)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing facility statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, f := range facilities {
			_, err := stmt.ExecContext(ctx,
				f.FacilityTypeID, f.FacilityName, f.FacilityCategory,
				f.InputCapacity, f.OutputCapacity, f.SortOrder,
			)
			if err != nil {
				return fmt.Errorf("inserting facility %d: %w", f.FacilityTypeID, err)
			}
		}

		return nil
	})
}

// ClearFacilities removes all facility data (for re-sync).
func (s *FacilityStore) ClearFacilities(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM facilities`)
	return err
}
