package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkruglikov/decalc/internal/calcerr"
)

func TestValidateNumber(t *testing.T) {
	max := decimal.RequireFromString("100")

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "integer", raw: "42", want: "42"},
		{name: "decimal", raw: "0.125", want: "0.125"},
		{name: "negative", raw: "-99.9", want: "-99.9"},
		{name: "surrounding whitespace", raw: "  7 ", want: "7"},
		{name: "scientific notation", raw: "1e2", want: "100"},
		{name: "at the bound", raw: "100", want: "100"},
		{name: "negative bound is magnitude based", raw: "-100", want: "-100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateNumber(tt.raw, max)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestValidateNumberRejects(t *testing.T) {
	max := decimal.RequireFromString("100")

	tests := []struct {
		name    string
		raw     string
		wantMsg string
	}{
		{name: "not a number", raw: "abc", wantMsg: "Invalid number format: abc"},
		{name: "empty", raw: "", wantMsg: "Invalid number format: "},
		{name: "trailing garbage", raw: "12x", wantMsg: "Invalid number format: 12x"},
		{name: "exceeds maximum", raw: "101", wantMsg: "Value exceeds allowed maximum: 100"},
		{name: "negative exceeds maximum", raw: "-101", wantMsg: "Value exceeds allowed maximum: 100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateNumber(tt.raw, max)
			var verr *calcerr.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantMsg, verr.Msg)
		})
	}
}

func TestValidateNumberCompactMaxLabel(t *testing.T) {
	// The default bound would otherwise print as a 1000-digit number.
	max := decimal.RequireFromString("1e999")
	_, err := ValidateNumber("1e1000", max)
	var verr *calcerr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Value exceeds allowed maximum: 1e999", verr.Msg)
}
