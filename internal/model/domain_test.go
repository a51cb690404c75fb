package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDomain(t *testing.T) {
	for _, d := range AllDomains {
		parsed, ok := ParseDomain(string(d))
		assert.True(t, ok)
		assert.Equal(t, d, parsed)
	}
}

func TestParseDomainAliases(t *testing.T) {
	tests := []struct {
		raw  string
		want Domain
	}{
		{"Financial Security", DomainFinancial},
		{"Personal Relationships", DomainPersonalLife},
		{"Health & Wellness", DomainHealth},
	}
	for _, tt := range tests {
		parsed, ok := ParseDomain(tt.raw)
		assert.True(t, ok, tt.raw)
		assert.Equal(t, tt.want, parsed)
	}
}

func TestParseDomainUnknown(t *testing.T) {
	_, ok := ParseDomain("Astrology")
	assert.False(t, ok)

	_, ok = ParseDomain("")
	assert.False(t, ok)
}
