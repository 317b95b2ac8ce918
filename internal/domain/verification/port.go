package verification

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a record does not exist or persistence is off.
var ErrNotFound = errors.New("verification not found")

// Repository port for the verification audit trail
type Repository interface {
	Save(ctx context.Context, r *Record) error
	Get(ctx context.Context, id VerificationID) (*Record, error)
	Latest(ctx context.Context, limit int) ([]*Record, error)
}

// ImageStore port for archiving uploaded front images
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
