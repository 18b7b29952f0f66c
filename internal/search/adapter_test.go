package search

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryGatesExperimentalAdapters(t *testing.T) {
	gated := NewRegistry(false, NewEuropeana("key"), NewOxford(), NewFinna())

	_, ok := gated.Lookup("europeana")
	assert.True(t, ok)
	_, ok = gated.Lookup("digital-bodleian-oxford")
	assert.True(t, ok)

	// a gated experimental provider looks exactly like a nonexistent one
	_, ok = gated.Lookup("finna")
	assert.False(t, ok)
	_, ok = gated.Lookup("no-such-provider")
	assert.False(t, ok)

	assert.Equal(t, []string{"digital-bodleian-oxford", "europeana"}, gated.Names())

	open := NewRegistry(true, NewEuropeana("key"), NewFinna())
	_, ok = open.Lookup("finna")
	assert.True(t, ok)
}

func TestJoinComma(t *testing.T) {
	tests := []struct {
		a, b, expected string
	}{
		{"Master of Hildesheim", "Germany", "Master of Hildesheim, Germany"},
		{"Master of Hildesheim", "", "Master of Hildesheim"},
		{"", "Germany", "Germany"},
		{"", "", ""},
		{"  ", "  ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, joinComma(tt.a, tt.b))
	}
}

func TestClampRange(t *testing.T) {
	assert.Equal(t, 5, clampRange(1, 5, 50))
	assert.Equal(t, 50, clampRange(1000, 5, 50))
	assert.Equal(t, 20, clampRange(20, 5, 50))
}

func TestUpstreamErrorUnwraps(t *testing.T) {
	cause := fmt.Errorf("status %d", 503)
	var err error = &UpstreamError{Provider: "europeana", StatusCode: 503, Err: cause}

	var ue *UpstreamError
	assert.True(t, errors.As(err, &ue))
	assert.Equal(t, 503, ue.StatusCode)
	assert.ErrorIs(t, err, cause)
}

func TestFormatProviderName(t *testing.T) {
	assert.Equal(t, "Europeana", FormatProviderName("europeana"))
	assert.Equal(t, "Digital Bodleian - University of Oxford", FormatProviderName("digital-bodleian-oxford"))
	assert.Equal(t, "something-else", FormatProviderName("something-else"))
}
