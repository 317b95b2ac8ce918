package failures

import "context"

// Repository defines persistence for verification failures
type Repository interface {
	Save(ctx context.Context, f *Failure) error
	ListByVerification(ctx context.Context, verificationID string, limit int) ([]*Failure, error)
}
