package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashSourceText(t *testing.T) {
	t.Parallel()

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()

		text := strings.Repeat("deterministic input ", 100)
		assert.Equal(t, HashSourceText(text), HashSourceText(text))
	})

	t.Run("known digest", func(t *testing.T) {
		t.Parallel()

		// sha256("hello") in hex.
		assert.Equal(t,
			"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
			HashSourceText("hello"))
	})

	t.Run("single character change changes the hash", func(t *testing.T) {
		t.Parallel()

		base := strings.Repeat("a", 1000)
		changed := base[:999] + "b"
		assert.NotEqual(t, HashSourceText(base), HashSourceText(changed))
	})

	t.Run("fixed length hex output", func(t *testing.T) {
		t.Parallel()

		for _, text := range []string{"", "x", strings.Repeat("y", 10000)} {
			hash := HashSourceText(text)
			assert.Len(t, hash, 64)
			assert.Regexp(t, "^[0-9a-f]{64}$", hash)
		}
	})
}
