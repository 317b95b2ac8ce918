package verification

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/id-verify/internal/domain/ai"
	"github.com/bryanwahyu/id-verify/internal/domain/failures"
	domain "github.com/bryanwahyu/id-verify/internal/domain/verification"
)

var now = time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)

func newService(client *stubClient) (*Service, *memRepo, *memFailures, *memImages) {
	repo := &memRepo{}
	fails := &memFailures{}
	images := &memImages{}
	return &Service{
		Analyzer: NewAnalyzer(client, time.Second, 0),
		Repo:     repo,
		Failures: fails,
		Images:   images,
		Clock:    fixedClock{t: now},
	}, repo, fails, images
}

func TestService_VerifyUsesServerDate(t *testing.T) {
	client := &stubClient{reply: `{"verdict": "FAKE ID CARD"}`}
	svc, _, _, _ := newService(client)

	_, err := svc.Verify(context.Background(), VerifyCommand{Image: jpegBytes})
	require.NoError(t, err)
	require.Len(t, client.calls(), 1)
	assert.Contains(t, client.calls()[0].UserPrompt, "The current date is: 14/03/2025.")
}

func TestService_VerifyPersists(t *testing.T) {
	client := &stubClient{reply: `{"verdict": "ORIGINAL ID CARD - NO ISSUE DETECTED", "parsed_id_data": {"Name": "ANA"}}`}
	svc, repo, fails, images := newService(client)

	v, err := svc.Verify(context.Background(), VerifyCommand{Image: jpegBytes, Filename: "front.JPG", ContentType: "image/jpeg"})
	require.NoError(t, err)
	assert.False(t, v.Fallback)
	assert.Equal(t, domain.VerdictOriginal, v.Result.Verdict())

	require.Len(t, images.keys, 1)
	assert.Equal(t, "front/2025/03/"+string(v.ID)+".jpg", images.keys[0])
	assert.Equal(t, "image/jpeg", images.ct[0])

	require.Len(t, repo.saved, 1)
	rec := repo.saved[0]
	assert.Equal(t, v.ID, rec.ID)
	assert.Equal(t, domain.VerdictOriginal, rec.Verdict)
	assert.JSONEq(t, `{"Name": "ANA"}`, string(rec.ParsedIDData))
	assert.True(t, strings.HasSuffix(rec.ImageURL, images.keys[0]))
	assert.Equal(t, "stub", rec.Provider)
	assert.Equal(t, now, rec.CreatedAt)

	assert.Empty(t, fails.saved)
}

func TestService_VerifyFallbackRecordsParseFailure(t *testing.T) {
	client := &stubClient{reply: "no json here"}
	svc, repo, fails, _ := newService(client)

	v, err := svc.Verify(context.Background(), VerifyCommand{Image: jpegBytes})
	require.NoError(t, err)
	assert.True(t, v.Fallback)
	assert.Equal(t, domain.VerdictFake, v.Result.Verdict())

	require.Len(t, fails.saved, 1)
	assert.Equal(t, failures.PhaseParse, fails.saved[0].Phase)
	assert.Equal(t, "no json here", fails.saved[0].DetailsJSON)
	assert.Equal(t, string(v.ID), fails.saved[0].VerificationID)

	require.Len(t, repo.saved, 1)
	assert.True(t, repo.saved[0].Fallback)
}

func TestService_VerifyModelError(t *testing.T) {
	client := &stubClient{err: ai.ErrUpstream}
	svc, repo, fails, images := newService(client)

	v, err := svc.Verify(context.Background(), VerifyCommand{Image: jpegBytes})
	require.ErrorIs(t, err, ai.ErrUpstream)
	assert.NotEmpty(t, v.ID)
	assert.Empty(t, repo.saved)
	assert.Empty(t, images.keys)
	require.Len(t, fails.saved, 1)
	assert.Equal(t, failures.PhaseModel, fails.saved[0].Phase)
}

func TestService_StorageErrorsDoNotFailRequest(t *testing.T) {
	client := &stubClient{reply: `{"verdict": "FAKE ID CARD"}`}
	svc, repo, fails, images := newService(client)
	images.err = errBoom
	repo.saveErr = errBoom

	v, err := svc.Verify(context.Background(), VerifyCommand{Image: jpegBytes})
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictFake, v.Result.Verdict())
	require.Len(t, fails.saved, 2)
	assert.Equal(t, failures.PhaseStorage, fails.saved[0].Phase)
	assert.Equal(t, failures.PhaseStorage, fails.saved[1].Phase)
}

func TestService_WithoutOptionalPorts(t *testing.T) {
	svc := &Service{Analyzer: NewAnalyzer(&stubClient{reply: `{}`}, time.Second, 0)}

	v, err := svc.Verify(context.Background(), VerifyCommand{Image: jpegBytes})
	require.NoError(t, err)
	for _, k := range domain.ResultKeys {
		assert.Contains(t, v.Result, k)
	}

	_, err = svc.Get(context.Background(), v.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Latest(context.Background(), 5)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.FailuresOf(context.Background(), v.ID, 5)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_GetAndLatest(t *testing.T) {
	client := &stubClient{reply: `{"verdict": "FAKE ID CARD"}`}
	svc, _, _, _ := newService(client)

	v, err := svc.Verify(context.Background(), VerifyCommand{Image: jpegBytes})
	require.NoError(t, err)

	rec, err := svc.Get(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, rec.ID)

	list, err := svc.Latest(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLatestLimit, ClampLimit(0))
	assert.Equal(t, DefaultLatestLimit, ClampLimit(-3))
	assert.Equal(t, 7, ClampLimit(7))
	assert.Equal(t, MaxLatestLimit, ClampLimit(1000))
}
