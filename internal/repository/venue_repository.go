// Package repository contains data access logic for the venue, event and
// booking tables.  This file defines the Venue model and its repository.
// A Venue is a physical location that hosts events; it can only be removed
// once no event references it.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Venue mirrors the venues table.  Nullable columns use pointers so that
// absent values round-trip as JSON null.
type Venue struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Location    *string   `json:"location"`
	Capacity    uint32    `json:"capacity"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// VenueRepo manages persistence for venues.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the given DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

const venueColumns = `id, name, location, capacity, description, image_url, created_at, updated_at`

func scanVenue(row interface{ Scan(...any) error }, v *Venue) error {
	return row.Scan(&v.ID, &v.Name, &v.Location, &v.Capacity, &v.Description, &v.ImageURL, &v.CreatedAt, &v.UpdatedAt)
}

// Create inserts a new venue and reads the row back so DB defaults
// (timestamps) are populated on the given struct.
func (r *VenueRepo) Create(ctx context.Context, v *Venue) error {
	const q = `INSERT INTO venues (name, location, capacity, description, image_url) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.Location, v.Capacity, v.Description, v.ImageURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return scanVenue(r.db.QueryRowContext(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = ?`, v.ID), v)
}

// GetByID retrieves a venue by its ID.  It returns ErrVenueNotFound if
// there is no matching row.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*Venue, error) {
	var v Venue
	err := scanVenue(r.db.QueryRowContext(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = ?`, id), &v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

// List returns all venues ordered by name.  When none exist it returns an
// empty slice and nil error.
func (r *VenueRepo) List(ctx context.Context) ([]Venue, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+venueColumns+` FROM venues ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []Venue
	for rows.Next() {
		var v Venue
		if err := scanVenue(rows, &v); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update rewrites a venue's attributes.  When no row is affected it
// distinguishes "not found" from "values identical" by re-checking
// existence, so a vanished row surfaces as ErrVenueNotFound.
func (r *VenueRepo) Update(ctx context.Context, v *Venue) error {
	const q = `UPDATE venues SET name = ?, location = ?, capacity = ?, description = ?, image_url = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.Location, v.Capacity, v.Description, v.ImageURL, v.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM venues WHERE id = ? LIMIT 1`, v.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVenueNotFound
		}
		return err
	}
	return nil // row exists, submitted values matched the stored ones
}

// DeleteGuarded removes a venue only if no event references it.  The
// existence check, the dependent-row check and the DELETE run inside one
// transaction so a concurrently created event cannot slip between the
// check and the delete.  Returns ErrVenueNotFound when the venue does not
// exist and ErrConflict when dependent events block the deletion.
func (r *VenueRepo) DeleteGuarded(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM venues WHERE id = ? LIMIT 1`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrVenueNotFound
		}
		return err
	}
	var dependents int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE venue_id = ?`, id).Scan(&dependents); err != nil {
		return err
	}
	if dependents > 0 {
		err = ErrConflict
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id)
	return err
}
