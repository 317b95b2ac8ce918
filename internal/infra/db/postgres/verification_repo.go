package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/bryanwahyu/id-verify/internal/domain/verification"
)

type VerificationRepository struct{ db *sql.DB }

func NewVerificationRepository(db *sql.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// Save inserts or updates a verification record
func (r *VerificationRepository) Save(ctx context.Context, v *domain.Record) error {
	const q = `
INSERT INTO id_verifications
  (id, verdict, parsed_id_data, result_json, image_url, provider, fallback, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  verdict=EXCLUDED.verdict,
  parsed_id_data=EXCLUDED.parsed_id_data,
  result_json=EXCLUDED.result_json,
  image_url=EXCLUDED.image_url,
  provider=EXCLUDED.provider,
  fallback=EXCLUDED.fallback;
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
WHERE id=$1
LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, string(id))
	var (
		rec            domain.Record
		rid            string
		parsed, result []byte
	)
	if err := row.Scan(&rid, &rec.Verdict, &parsed, &result, &rec.ImageURL, &rec.Provider, &rec.Fallback, &rec.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	rec.ID = domain.VerificationID(rid)
	rec.ParsedIDData = parsed
	rec.Result = result
	return &rec, nil
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
LIMIT $1;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		var (
			rec            domain.Record
			rid            string
			parsed, result []byte
		)
		if err := rows.Scan(&rid, &rec.Verdict, &parsed, &result, &rec.ImageURL, &rec.Provider, &rec.Fallback, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.ID = domain.VerificationID(rid)
		rec.ParsedIDData = parsed
		rec.Result = result
		out = append(out, &rec)
	}
	return out, rows.Err()
}
