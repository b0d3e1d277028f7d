package dedupe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vortex-fintech/crmclean/dedupe"
)

func TestSeenSetObserve(t *testing.T) {
	s := dedupe.NewSeenSet()

	assert.True(t, s.Observe("a@b.com"))
	assert.False(t, s.Observe("a@b.com"))
	assert.True(t, s.Observe("b@c.com"))
	assert.Equal(t, 2, s.Len())
}

func TestSeenSetEmptyKey(t *testing.T) {
	s := dedupe.NewSeenSet()

	assert.False(t, s.Observe(""))
	assert.False(t, s.Observe(""))
	assert.Equal(t, 0, s.Len())
}

func TestSuppressor(t *testing.T) {
	sup := dedupe.NewSuppressor([]string{" A@B.com ", "'c@d.com'", "", "a@b.com"})

	assert.Equal(t, 2, sup.Len())
	assert.True(t, sup.Suppressed("a@b.com"))
	assert.True(t, sup.Suppressed("A@B.COM"))
	assert.True(t, sup.Suppressed("c@d.com"))
	assert.False(t, sup.Suppressed("x@y.com"))
}

func TestSuppressorEmptyKey(t *testing.T) {
	sup := dedupe.NewSuppressor([]string{"a@b.com"})

	assert.True(t, sup.Suppressed(""))
	assert.True(t, sup.Suppressed("   "))
}
