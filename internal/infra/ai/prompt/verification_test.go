package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetUserPrompt_EmbedsDate(t *testing.T) {
	p := GetUserPrompt("14/03/2025")
	assert.Contains(t, p, "The current date is: 14/03/2025.")
	assert.NotContains(t, p, "%!")
	for _, field := range []string{"Name", "Dob", "Gender", "Address", "Id number", "Nationality", "Expiry date"} {
		assert.Contains(t, p, field)
	}
	assert.Contains(t, p, `"N/A"`)
	assert.Contains(t, p, "00/00/0000")
}

func TestGetSystemPrompt_Schema(t *testing.T) {
	p := GetSystemPrompt()
	for _, key := range []string{
		`"verdict"`, `"analysis_details"`, `"parsed_id_data"`,
		`"raw_ocr_text"`, `"biometric_face_match"`, `"summary"`,
	} {
		assert.Contains(t, p, key)
	}
	assert.Contains(t, p, "'PASSED:' or 'FAILED:'")
	assert.True(t, strings.HasSuffix(p, "Just return the JSON object."))
}
