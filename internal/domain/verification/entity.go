package verification

import (
	"encoding/json"
	"time"
)

// VerificationID identifies one verification request end to end
// (record, archived image, failure log).
type VerificationID string

const (
	VerdictOriginal = "ORIGINAL ID CARD - NO ISSUE DETECTED"
	VerdictFake     = "FAKE ID CARD"

	PrefixPassed = "PASSED:"
	PrefixFailed = "FAILED:"

	// NotApplicable is the back-side OCR sentinel; no back image is ever supplied.
	NotApplicable = "N/A"
	// NoFaceImage is the biometric sentinel; no live face is ever supplied.
	NoFaceImage = "N/A: No face image provided"

	FrontSide = "Front Side"
	BackSide  = "Back Side"
)

// Top-level keys of a VerificationResult.
const (
	KeyVerdict            = "verdict"
	KeyAnalysisDetails    = "analysis_details"
	KeyParsedIDData       = "parsed_id_data"
	KeyRawOCRText         = "raw_ocr_text"
	KeyBiometricFaceMatch = "biometric_face_match"
	KeySummary            = "summary"

	KeyRawJSONError = "raw_json_error"
	KeyParseError   = "parse_error"
)

// ResultKeys lists the six keys every response body carries.
var ResultKeys = []string{
	KeyVerdict,
	KeyAnalysisDetails,
	KeyParsedIDData,
	KeyRawOCRText,
	KeyBiometricFaceMatch,
	KeySummary,
}

// Request is the ephemeral input of one verification.
type Request struct {
	Image       []byte
	Filename    string
	ContentType string
	CurrentDate string // DD/MM/YYYY, server clock
}

// Result is the model's verdict document. It is kept as a generic mapping
// because the model owns its content; only the top-level keys are fixed.
type Result map[string]any

// Verdict returns the verdict string, or "" when absent or not a string.
func (r Result) Verdict() string {
	v, _ := r[KeyVerdict].(string)
	return v
}

// Complete fills in any missing top-level key with its neutral value, in place.
// Keys the model did send are never touched. A missing verdict is
// treated as a rejection.
func (r Result) Complete() Result {
	if r == nil {
		r = Result{}
	}
	if _, ok := r[KeyVerdict]; !ok {
		r[KeyVerdict] = VerdictFake
	}
	if _, ok := r[KeyAnalysisDetails]; !ok {
		r[KeyAnalysisDetails] = map[string]any{}
	}
	if _, ok := r[KeyParsedIDData]; !ok {
		r[KeyParsedIDData] = map[string]any{}
	}
	if _, ok := r[KeyRawOCRText]; !ok {
		r[KeyRawOCRText] = map[string]any{FrontSide: "", BackSide: NotApplicable}
	}
	if _, ok := r[KeyBiometricFaceMatch]; !ok {
		r[KeyBiometricFaceMatch] = NoFaceImage
	}
	if _, ok := r[KeySummary]; !ok {
		r[KeySummary] = ""
	}
	return r
}

// Record is the audit row kept for a completed verification.
type Record struct {
	ID           VerificationID  `json:"id"`
	Verdict      string          `json:"verdict"`
	ParsedIDData json.RawMessage `json:"parsed_id_data"`
	Result       json.RawMessage `json:"raw_json"`
	ImageURL     string          `json:"image_url,omitempty"`
	Provider     string          `json:"provider,omitempty"`
	Fallback     bool            `json:"fallback"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewRecord snapshots a result for persistence.
func NewRecord(id VerificationID, res Result, fallback bool, createdAt time.Time) (*Record, error) {
	parsed, ok := res[KeyParsedIDData]
	if !ok || parsed == nil {
		parsed = map[string]any{}
	}
	pb, err := json.Marshal(parsed)
	if err != nil {
		return nil, err
	}
	rb, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}
	return &Record{
		ID:           id,
		Verdict:      res.Verdict(),
		ParsedIDData: pb,
		Result:       rb,
		Fallback:     fallback,
		CreatedAt:    createdAt,
	}, nil
}
