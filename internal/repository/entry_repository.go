package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	apperrors "github.com/navtracker/Fund-NAV-Tracker-Backend/internal/errors"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/model"
)

// EntryRepository provides data access methods for the fund_entry table.
// It holds the ordered list of configured fund entries.
type EntryRepository struct {
	db *sql.DB
}

// NewEntryRepository creates a new EntryRepository with the provided database connection.
func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

const entryColumns = `id, name, pv_number, share_class_id, investment_date,
	value_of_investment, price_per_unit, units_acquired, currency, position`

// ListEntries retrieves all fund entries ordered by their configured position.
// Returns an empty slice if no entries exist.
func (r *EntryRepository) ListEntries() ([]model.FundEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM fund_entry ORDER BY position ASC, name ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund_entry table: %w", err)
	}
	defer rows.Close()

	entries := []model.FundEntry{}

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund_entry table: %w", err)
	}

	return entries, nil
}

// GetEntry retrieves a single fund entry by ID.
// Returns ErrEntryNotFound if no entry with the given ID exists.
func (r *EntryRepository) GetEntry(entryID string) (model.FundEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM fund_entry WHERE id = ?`

	row := r.db.QueryRow(query, entryID)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return model.FundEntry{}, apperrors.ErrEntryNotFound
	}
	if err != nil {
		return model.FundEntry{}, err
	}

	return entry, nil
}

// InsertEntry stores a new fund entry, assigning it a fresh UUID and the next
// position in the list. The stored entry is returned.
func (r *EntryRepository) InsertEntry(ctx context.Context, entry model.FundEntry) (model.FundEntry, error) {
	entry.ID = uuid.New().String()

	var maxPosition sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `SELECT MAX(position) FROM fund_entry`).Scan(&maxPosition); err != nil {
		return model.FundEntry{}, fmt.Errorf("failed to determine entry position: %w", err)
	}
	entry.Position = int(maxPosition.Int64) + 1

	query := `
        INSERT INTO fund_entry (id, name, pv_number, share_class_id, investment_date,
            value_of_investment, price_per_unit, units_acquired, currency, position)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.Name,
		nullString(entry.PvNumber),
		entry.ShareClassID,
		nullString(entry.InvestmentDate),
		nullFloat(entry.ValueOfInvestment),
		entry.PricePerUnit,
		nullFloat(entry.UnitsAcquired),
		nullString(entry.Currency),
		entry.Position,
	)
	if err != nil {
		return model.FundEntry{}, fmt.Errorf("failed to insert fund_entry: %w", err)
	}

	return entry, nil
}

// UpdateEntry replaces all editable fields of an existing fund entry.
// Returns ErrEntryNotFound if no entry with the given ID exists.
func (r *EntryRepository) UpdateEntry(ctx context.Context, entry model.FundEntry) error {
	query := `
        UPDATE fund_entry
        SET name = ?, pv_number = ?, share_class_id = ?, investment_date = ?,
            value_of_investment = ?, price_per_unit = ?, units_acquired = ?, currency = ?
        WHERE id = ?
    `

	result, err := r.db.ExecContext(ctx, query,
		entry.Name,
		nullString(entry.PvNumber),
		entry.ShareClassID,
		nullString(entry.InvestmentDate),
		nullFloat(entry.ValueOfInvestment),
		entry.PricePerUnit,
		nullFloat(entry.UnitsAcquired),
		nullString(entry.Currency),
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update fund_entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrEntryNotFound
	}

	return nil
}

// DeleteEntry removes a fund entry.
// Returns ErrEntryNotFound if no entry with the given ID exists.
func (r *EntryRepository) DeleteEntry(ctx context.Context, entryID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM fund_entry WHERE id = ?`, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete fund_entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrEntryNotFound
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (model.FundEntry, error) {
	var e model.FundEntry
	var pvNumber, investmentDate, currency sql.NullString
	var valueOfInvestment, unitsAcquired sql.NullFloat64

	err := row.Scan(
		&e.ID,
		&e.Name,
		&pvNumber,
		&e.ShareClassID,
		&investmentDate,
		&valueOfInvestment,
		&e.PricePerUnit,
		&unitsAcquired,
		&currency,
		&e.Position,
	)
	if err == sql.ErrNoRows {
		return model.FundEntry{}, err
	}
	if err != nil {
		return model.FundEntry{}, fmt.Errorf("failed to scan fund_entry row: %w", err)
	}

	e.PvNumber = pvNumber.String
	e.InvestmentDate = investmentDate.String
	e.Currency = currency.String
	if valueOfInvestment.Valid {
		v := valueOfInvestment.Float64
		e.ValueOfInvestment = &v
	}
	if unitsAcquired.Valid {
		v := unitsAcquired.Float64
		e.UnitsAcquired = &v
	}

	return e, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
