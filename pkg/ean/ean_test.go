package ean

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		{"4006381333931", true},
		{"5901234123457", true},
		{"96385074", true},
		{"4006381333930", false},
		{"4006381333932", false},
		{"4006381333939", false},
		{"96385075", false},
		{"", false},
		{"400638133393", false},
		{"40063813339311", false},
		{"400638133393a", false},
		{"4006-38133393", false},
		{"⓪⓪⓪⓪⓪⓪⓪⓪", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, Valid(tt.code), "code %q", tt.code)
	}
}

func TestValidEveryCheckDigit(t *testing.T) {
	// Only one of the ten possible check digits may validate.
	valid := 0
	for d := byte('0'); d <= '9'; d++ {
		if Valid("400638133393" + string(d)) {
			valid++
		}
	}
	assert.Equal(t, 1, valid)
}
