package verification

import "maps"

// UnstructuredSummary is the summary of the fallback result.
const UnstructuredSummary = "AI returned unstructured output."

// Outcome is what the analyzer produced from one model reply: either a
// recovered mapping or the diagnostics of a failed recovery.
type Outcome struct {
	parsed   Result
	raw      string
	parseErr error
}

// Succeeded wraps a recovered mapping.
func Succeeded(parsed Result, raw string) Outcome {
	return Outcome{parsed: parsed, raw: raw}
}

// Failed wraps a reply that could not be recovered into JSON.
func Failed(raw string, err error) Outcome {
	return Outcome{raw: raw, parseErr: err}
}

// OK reports whether the reply was recovered.
func (o Outcome) OK() bool { return o.parseErr == nil }

// Parsed is the recovered mapping as the model sent it; nil for a failed outcome.
func (o Outcome) Parsed() Result { return o.parsed }

// Raw is the model reply text.
func (o Outcome) Raw() string { return o.raw }

// ParseError is the recovery error; nil for a successful outcome.
func (o Outcome) ParseError() error { return o.parseErr }

// Result renders the outcome as a response body. A failed recovery
// degrades to a conservative rejection carrying the raw reply and error.
func (o Outcome) Result() Result {
	if o.OK() {
		return maps.Clone(o.parsed).Complete()
	}
	return Result{
		KeyVerdict:            VerdictFake,
		KeyAnalysisDetails:    map[string]any{},
		KeyParsedIDData:       map[string]any{},
		KeyRawOCRText:         map[string]any{FrontSide: "", BackSide: NotApplicable},
		KeyBiometricFaceMatch: NoFaceImage,
		KeySummary:            UnstructuredSummary,
		KeyRawJSONError:       o.raw,
		KeyParseError:         o.parseErr.Error(),
	}
}
