package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenIsStableAndUnique(t *testing.T) {
	a := New()
	assert.NotEmpty(t, a.Token())
	assert.Equal(t, a.Token(), a.Token())

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok := New().Token()
		assert.False(t, seen[tok])
		seen[tok] = true
	}
}
