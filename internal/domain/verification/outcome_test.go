package verification

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome_SucceededKeepsModelFields(t *testing.T) {
	parsed := Result{
		KeyVerdict:  VerdictOriginal,
		KeySummary:  "Looks fine.",
		"extra_key": "kept",
	}
	o := Succeeded(parsed, `{"verdict": "..."}`)

	require.True(t, o.OK())
	require.NoError(t, o.ParseError())

	res := o.Result()
	assert.Equal(t, VerdictOriginal, res.Verdict())
	assert.Equal(t, "Looks fine.", res[KeySummary])
	assert.Equal(t, "kept", res["extra_key"])
	for _, k := range ResultKeys {
		assert.Contains(t, res, k)
	}
	assert.Equal(t, NoFaceImage, res[KeyBiometricFaceMatch])
}

func TestOutcome_ResultLeavesParsedUntouched(t *testing.T) {
	parsed := Result{KeySummary: "partial"}
	o := Succeeded(parsed, `{"summary": "partial"}`)

	res := o.Result()
	assert.Equal(t, VerdictFake, res.Verdict())
	assert.Len(t, res, len(ResultKeys))

	assert.Equal(t, Result{KeySummary: "partial"}, o.Parsed())
	assert.Len(t, parsed, 1)
}

func TestOutcome_FailedIsConservativeFallback(t *testing.T) {
	o := Failed("sorry, I cannot help", errors.New("invalid character 's'"))

	require.False(t, o.OK())
	require.Nil(t, o.Parsed())

	res := o.Result()
	assert.Equal(t, VerdictFake, res.Verdict())
	assert.Equal(t, UnstructuredSummary, res[KeySummary])
	assert.Equal(t, "sorry, I cannot help", res[KeyRawJSONError])
	assert.Equal(t, "invalid character 's'", res[KeyParseError])
	assert.Empty(t, res[KeyAnalysisDetails])
	assert.Empty(t, res[KeyParsedIDData])
	assert.Equal(t, NotApplicable, res[KeyRawOCRText].(map[string]any)[BackSide])
	for _, k := range ResultKeys {
		assert.Contains(t, res, k)
	}
}

func TestResult_CompleteMissingVerdictRejects(t *testing.T) {
	res := Result{KeySummary: "partial"}.Complete()
	assert.Equal(t, VerdictFake, res.Verdict())
	assert.Equal(t, "partial", res[KeySummary])
}

func TestNewRecord(t *testing.T) {
	res := Result{
		KeyVerdict:      VerdictFake,
		KeyParsedIDData: map[string]any{"Name": "JOHN DOE"},
	}
	rec, err := NewRecord("abc", res, true, fixedTime)
	require.NoError(t, err)
	assert.Equal(t, VerificationID("abc"), rec.ID)
	assert.Equal(t, VerdictFake, rec.Verdict)
	assert.JSONEq(t, `{"Name": "JOHN DOE"}`, string(rec.ParsedIDData))
	assert.JSONEq(t, `{"verdict": "FAKE ID CARD", "parsed_id_data": {"Name": "JOHN DOE"}}`, string(rec.Result))
	assert.True(t, rec.Fallback)
	assert.Equal(t, fixedTime, rec.CreatedAt)
}

var fixedTime = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
