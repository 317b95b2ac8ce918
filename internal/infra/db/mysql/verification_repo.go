package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/bryanwahyu/id-verify/internal/domain/verification"
)

type VerificationRepository struct {
	db *sql.DB
}

func NewVerificationRepository(db *sql.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// Save inserts or updates a verification record
func (r *VerificationRepository) Save(ctx context.Context, v *domain.Record) error {
	const q = `
INSERT INTO id_verifications
  (id, verdict, parsed_id_data, result_json, image_url, provider, fallback, created_at)
VALUES (?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  verdict=VALUES(verdict), parsed_id_data=VALUES(parsed_id_data), result_json=VALUES(result_json),
  image_url=VALUES(image_url), provider=VALUES(provider), fallback=VALUES(fallback);
`
	createdAt := v.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		string(v.ID),
		stringOrDash(v.Verdict),
		jsonOrEmptyObject(string(v.ParsedIDData)),
		jsonOrEmptyObject(string(v.Result)),
		v.ImageURL,
		stringOrDash(v.Provider),
		v.Fallback,
		createdAt,
	)
	return err
}

// Get returns one record by id, or domain.ErrNotFound
func (r *VerificationRepository) Get(ctx context.Context, id domain.VerificationID) (*domain.Record, error) {
	const q = `
SELECT id, verdict, parsed_id_data, result_json, image_url, provider, fallback, created_at
FROM id_verifications
WHERE id=?
LIMIT 1;`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, q, string(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return rec, err
}

// Latest returns the newest records first
func (r *VerificationRepository) Latest(ctx context.Context, limit int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `
SELECT id, verdict, parsed_id_data, result_json, image_url, provider, fallback, created_at
FROM id_verifications
ORDER BY created_at DESC, id DESC
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	var (
		rec            domain.Record
		id             string
		parsed, result []byte
		created        time.Time
	)
	if err := row.Scan(&id, &rec.Verdict, &parsed, &result, &rec.ImageURL, &rec.Provider, &rec.Fallback, &created); err != nil {
		return nil, err
	}
	rec.ID = domain.VerificationID(id)
	rec.ParsedIDData = parsed
	rec.Result = result
	rec.CreatedAt = created
	return &rec, nil
}
