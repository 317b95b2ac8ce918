package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/id-verify/internal/domain/failures"
	domain "github.com/bryanwahyu/id-verify/internal/domain/verification"
)

var created = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func TestVerificationRepository_SaveAndGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (id) DO UPDATE")).
		WithArgs("id-1", domain.VerdictOriginal, "{}", `{"verdict":"x"}`, "", "openai", false, created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id=$1")).
		WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "verdict", "parsed_id_data", "result_json", "image_url", "provider", "fallback", "created_at"}).
			AddRow("id-1", domain.VerdictOriginal, []byte(`{}`), []byte(`{"verdict":"x"}`), "", "openai", false, created))

	repo := NewVerificationRepository(db)
	require.NoError(t, repo.Save(context.Background(), &domain.Record{
		ID:        "id-1",
		Verdict:   domain.VerdictOriginal,
		Result:    []byte(`{"verdict":"x"}`),
		Provider:  "openai",
		CreatedAt: created,
	}))

	rec, err := repo.Get(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictOriginal, rec.Verdict)
	assert.Equal(t, created, rec.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFailureRepository_SaveReturnsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("RETURNING id")).
		WithArgs("id-1", "-", "model", "-", "{}", created).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	f := &failures.Failure{VerificationID: "id-1", Phase: failures.PhaseModel, CreatedAt: created}
	require.NoError(t, NewFailureRepository(db).Save(context.Background(), f))
	assert.Equal(t, int64(9), f.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
