package flip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty input", "", "+18888888888"},
		{"no digits at all", "ext. n/a", "+18888888888"},
		{"ten digits gets +1", "5551234567", "+15551234567"},
		{"ten digits with punctuation", "(555) 123-4567", "+15551234567"},
		{"country code without plus", "44 20 7946 0958", "+442079460958"},
		{"already canonical", "+15551234567", "+15551234567"},
		{"canonical with spaces kept as-is", "+44 20 7946 0958", "+44 20 7946 0958"},
		{"eleven digits without plus", "15551234567", "+15551234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPhone(tt.in))
		})
	}
}

// The 10-digit check must run before the missing-plus check: a bare domestic
// number gets a country code, not just a plus sign.
func TestFormatPhone_DomesticBeforeMissingPlus(t *testing.T) {
	assert.Equal(t, "+15551234567", FormatPhone("555-123-4567"))
}
