// Copyright (c) 2026 Petfolio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pet

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/petfolio/internal/platform/dberr"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListByUser returns every pet owned by userID, newest first.
func (repository *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*Pet, error) {
	const query = `
		SELECT id, name, breed, ownername, phone, photourl, userid, createdat, updatedat
		FROM pets
		WHERE userid = $1
		ORDER BY createdat DESC`

	rows, err := repository.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "pet_list")
	}
	defer rows.Close()

	pets := make([]*Pet, 0)
	for rows.Next() {
		pet := &Pet{}
		if err := rows.Scan(
			&pet.ID, &pet.Name, &pet.Breed, &pet.OwnerName, &pet.Phone,
			&pet.PhotoURL, &pet.UserID, &pet.CreatedAt, &pet.UpdatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "pet_scan")
		}
		pets = append(pets, pet)
	}

	return pets, rows.Err()
}

// FindByID retrieves a single pet scoped by owner.
//
// Returns (nil, nil) when the row is absent OR owned by another user;
// the two cases are intentionally indistinguishable.
func (repository *PostgresRepository) FindByID(ctx context.Context, id, userID string) (*Pet, error) {
	const query = `
		SELECT id, name, breed, ownername, phone, photourl, userid, createdat, updatedat
		FROM pets
		WHERE id = $1 AND userid = $2`

	pet := &Pet{}
	err := repository.pool.QueryRow(ctx, query, id, userID).Scan(
		&pet.ID, &pet.Name, &pet.Breed, &pet.OwnerName, &pet.Phone,
		&pet.PhotoURL, &pet.UserID, &pet.CreatedAt, &pet.UpdatedAt,
	)

	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, nil
		}
		return nil, dberr.Wrap(err, "pet_find_by_id")
	}

	return pet, nil
}

// Create persists a new pet record.
func (repository *PostgresRepository) Create(ctx context.Context, pet *Pet) error {
	const query = `
		INSERT INTO pets (id, name, breed, ownername, phone, photourl, userid, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if pet.CreatedAt.IsZero() {
		pet.CreatedAt = now
	}
	pet.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		pet.ID, pet.Name, pet.Breed, pet.OwnerName, pet.Phone,
		pet.PhotoURL, pet.UserID, pet.CreatedAt, pet.UpdatedAt,
	)

	return dberr.Wrap(err, "pet_create")
}

// Update persists changes to an existing record, scoped by owner.
func (repository *PostgresRepository) Update(ctx context.Context, pet *Pet) error {
	const query = `
		UPDATE pets
		SET name = $3, breed = $4, ownername = $5, phone = $6, photourl = $7, updatedat = $8
		WHERE id = $1 AND userid = $2
		RETURNING updatedat`

	pet.UpdatedAt = time.Now()
	err := repository.pool.QueryRow(ctx, query,
		pet.ID, pet.UserID, pet.Name, pet.Breed, pet.OwnerName, pet.Phone,
		pet.PhotoURL, pet.UpdatedAt,
	).Scan(&pet.UpdatedAt)

	return dberr.Wrap(err, "pet_update")
}

// Delete removes the record with the given id owned by userID.
func (repository *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM pets WHERE id = $1 AND userid = $2`

	cmd, err := repository.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return dberr.Wrap(err, "pet_delete")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
