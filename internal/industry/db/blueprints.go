package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stillness-labs/frontier-industry-server/pkg/industry"
)

// BlueprintStore handles blueprint data access.
type BlueprintStore struct {
	db *DB
}

// NewBlueprintStore creates a new BlueprintStore.
func NewBlueprintStore(db *DB) *BlueprintStore {
	return &BlueprintStore{db: db}
}

// GetBlueprint retrieves a single blueprint with its full input and output
// material lists. Returns nil if the blueprint does not exist.
func (s *BlueprintStore) GetBlueprint(ctx context.Context, id int64) (*industry.Blueprint, error) {
	bp := &industry.Blueprint{BlueprintID: id}

	err := s.db.QueryRowContext(ctx, `
		SELECT b.primary_type_id,
		       COALESCE(t.type_name, ''),
		       b.facility_type_id,
		       COALESCE(f.facility_name, ''),
		       b.run_time
		FROM blueprints b
		LEFT JOIN material_types t ON t.type_id = b.primary_type_id
		LEFT JOIN facilities f ON f.facility_type_id = b.facility_type_id
		WHERE b.blueprint_id = ?
	`, id).Scan(
		&bp.PrimaryTypeID,
		&bp.PrimaryTypeName,
		&bp.FacilityTypeID,
		&bp.FacilityName,
		&bp.RunTime,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying blueprint: %w", err)
	}

	inputs, err := s.getBlueprintInputs(ctx, id)
	if err != nil {
		return nil, err
	}
	bp.Inputs = inputs

	outputs, err := s.getBlueprintOutputs(ctx, id)
	if err != nil {
		return nil, err
	}
	bp.Outputs = outputs

	return bp, nil
}

// getBlueprintInputs retrieves input materials in declared order. The order
// is part of the resolver's contract, so the position column drives it.
func (s *BlueprintStore) getBlueprintInputs(ctx context.Context, blueprintID int64) ([]industry.Material, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.type_id, COALESCE(t.type_name, ''), i.quantity
		FROM blueprint_inputs i
		LEFT JOIN material_types t ON t.type_id = i.type_id
		WHERE i.blueprint_id = ?
		ORDER BY i.position, i.type_id
	`, blueprintID)
	if err != nil {
		return nil, fmt.Errorf("querying blueprint inputs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var inputs []industry.Material
	for rows.Next() {
		var m industry.Material
		if err := rows.Scan(&m.TypeID, &m.TypeName, &m.Quantity); err != nil {
			return nil, fmt.Errorf("scanning input: %w", err)
		}
		inputs = append(inputs, m)
	}

	return inputs, rows.Err()
}

// getBlueprintOutputs retrieves output materials, primary output first.
func (s *BlueprintStore) getBlueprintOutputs(ctx context.Context, blueprintID int64) ([]industry.Material, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.type_id, COALESCE(t.type_name, ''), o.quantity
		FROM blueprint_outputs o
		LEFT JOIN material_types t ON t.type_id = o.type_id
		WHERE o.blueprint_id = ?
		ORDER BY o.is_primary DESC, o.type_id
	`, blueprintID)
	if err != nil {
		return nil, fmt.Errorf("querying blueprint outputs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var outputs []industry.Material
	for rows.Next() {
		var m industry.Material
		if err := rows.Scan(&m.TypeID, &m.TypeName, &m.Quantity); err != nil {
			return nil, fmt.Errorf("scanning output: %w", err)
		}
		outputs = append(outputs, m)
	}

	return outputs, rows.Err()
}

// OptionsForType lists the blueprint alternatives whose primary output is
// the given type, ordered by blueprint ID for a stable default choice.
func (s *BlueprintStore) OptionsForType(ctx context.Context, typeID int64) ([]industry.BlueprintOption, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.blueprint_id,
		       o.quantity,
		       b.run_time,
		       b.facility_type_id,
		       COALESCE(f.facility_name, '')
		FROM blueprints b
		JOIN blueprint_outputs o
		  ON o.blueprint_id = b.blueprint_id AND o.is_primary = 1
		LEFT JOIN facilities f ON f.facility_type_id = b.facility_type_id
		WHERE b.primary_type_id = ?
		ORDER BY b.blueprint_id
	`, typeID)
	if err != nil {
		return nil, fmt.Errorf("querying blueprint options: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var options []industry.BlueprintOption
	for rows.Next() {
		var opt industry.BlueprintOption
		if err := rows.Scan(
			&opt.BlueprintID,
			&opt.OutputQuantity,
			&opt.TimeSeconds,
			&opt.FacilityTypeID,
			&opt.FacilityName,
		); err != nil {
			return nil, fmt.Errorf("scanning option: %w", err)
		}
		options = append(options, opt)
	}

	return options, rows.Err()
}

// ListByFacility lists blueprint summaries producible at a facility.
func (s *BlueprintStore) ListByFacility(ctx context.Context, facilityTypeID int64) ([]industry.BlueprintSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.blueprint_id, b.primary_type_id, COALESCE(t.type_name, ''), b.run_time
		FROM blueprints b
		LEFT JOIN material_types t ON t.type_id = b.primary_type_id
		WHERE b.facility_type_id = ?
		ORDER BY COALESCE(t.type_name, ''), b.blueprint_id
	`, facilityTypeID)
	if err != nil {
		return nil, fmt.Errorf("listing facility blueprints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []industry.BlueprintSummary
	for rows.Next() {
		var bs industry.BlueprintSummary
		if err := rows.Scan(&bs.BlueprintID, &bs.PrimaryTypeID, &bs.PrimaryTypeName, &bs.RunTime); err != nil {
			return nil, fmt.Errorf("scanning blueprint summary: %w", err)
		}
		summaries = append(summaries, bs)
	}

	return summaries, rows.Err()
}

// CountBlueprints returns the total number of blueprints.
func (s *BlueprintStore) CountBlueprints(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blueprints`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting blueprints: %w", err)
	}
	return count, nil
}

// BulkInsertBlueprints inserts blueprints with their material lists in a
// single transaction, replacing existing rows with the same ID.
func (s *BlueprintStore) BulkInsertBlueprints(ctx context.Context, blueprints []industry.Blueprint) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		bpStmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO blueprints
			(blueprint_id, primary_type_id, facility_type_id, run_time)
			VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing blueprint statement: %w", err)
		}
		defer func() { _ = bpStmt.Close() }()

		delInStmt, err := tx.PrepareContext(ctx, `DELETE FROM blueprint_inputs WHERE blueprint_id = ?`)
		if err != nil {
			return fmt.Errorf("preparing input delete statement: %w", err)
		}
		defer func() { _ = delInStmt.Close() }()

		delOutStmt, err := tx.PrepareContext(ctx, `DELETE FROM blueprint_outputs WHERE blueprint_id = ?`)
		if err != nil {
			return fmt.Errorf("preparing output delete statement: %w", err)
		}
		defer func() { _ = delOutStmt.Close() }()

		inStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO blueprint_inputs (blueprint_id, type_id, quantity, position)
			VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing input statement: %w", err)
		}
		defer func() { _ = inStmt.Close() }()

		outStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO blueprint_outputs (blueprint_id, type_id, quantity, is_primary)
			VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing output statement: %w", err)
		}
		defer func() { _ = outStmt.Close() }()

		for _, bp := range blueprints {
			_, err := bpStmt.ExecContext(ctx,
				bp.BlueprintID, bp.PrimaryTypeID, bp.FacilityTypeID, bp.RunTime,
			)
			if err != nil {
				return fmt.Errorf("inserting blueprint %d: %w", bp.BlueprintID, err)
			}

			// Drop stale material rows so a re-import never accumulates.
			if _, err := delInStmt.ExecContext(ctx, bp.BlueprintID); err != nil {
				return fmt.Errorf("clearing inputs for %d: %w", bp.BlueprintID, err)
			}
			if _, err := delOutStmt.ExecContext(ctx, bp.BlueprintID); err != nil {
				return fmt.Errorf("clearing outputs for %d: %w", bp.BlueprintID, err)
			}

			for pos, in := range bp.Inputs {
				_, err := inStmt.ExecContext(ctx, bp.BlueprintID, in.TypeID, in.Quantity, pos)
				if err != nil {
					return fmt.Errorf("inserting input for %d: %w", bp.BlueprintID, err)
				}
			}

			for _, out := range bp.Outputs {
				isPrimary := 0
				if out.TypeID == bp.PrimaryTypeID {
					isPrimary = 1
				}
				_, err := outStmt.ExecContext(ctx, bp.BlueprintID, out.TypeID, out.Quantity, isPrimary)
				if err != nil {
					return fmt.Errorf("inserting output for %d: %w", bp.BlueprintID, err)
				}
			}
		}

		return nil
	})
}

// ClearBlueprints removes all blueprint data (for re-sync). Child rows
// are deleted explicitly rather than relying on cascade, which needs a
// foreign_keys pragma not every deployment sets.
func (s *BlueprintStore) ClearBlueprints(ctx context.Context) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM blueprint_inputs`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM blueprint_outputs`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM blueprints`)
		return err
	})
}
