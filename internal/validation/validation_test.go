package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	t.Run("accepts a compliant password", func(t *testing.T) {
		assert.NoError(t, ValidatePassword("Riverbank99?!"))
	})

	t.Run("length bounds count runes, not bytes", func(t *testing.T) {
		// 13 runes, more bytes than that
		require.NoError(t, ValidatePassword("Pässwörter12!"))

		long := "Aa1!" + strings.Repeat("x", 124)
		assert.NoError(t, ValidatePassword(long))
		assert.Error(t, ValidatePassword(long+"x"))
		assert.Error(t, ValidatePassword("Aa1!aaaa"))
	})

	t.Run("rejects a missing character class", func(t *testing.T) {
		for name, password := range map[string]string{
			"no uppercase": "riverbank99?!",
			"no lowercase": "RIVERBANK99?!",
			"no digit":     "Riverbankpass?!",
			"no special":   "Riverbank9900",
		} {
			t.Run(name, func(t *testing.T) {
				assert.Error(t, ValidatePassword(password))
			})
		}
	})
}

func TestValidateUsername(t *testing.T) {
	for _, ok := range []string{"riverfan", "Dee-Dee", "a_b_c99", "abc"} {
		assert.NoError(t, ValidateUsername(ok), ok)
	}

	for _, bad := range []string{
		"ab",                     // below the minimum length
		strings.Repeat("r", 31),  // above the maximum length
		"river fan",              // whitespace
		"river.fan",              // illegal character
		"_lurker",                // leading separator
		"lurker-",                // trailing separator
	} {
		assert.Error(t, ValidateUsername(bad), bad)
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("dee@ripple.dev"))

	oversized := strings.Repeat("d", 250) + "@r.io"
	assert.Error(t, ValidateEmail(oversized))

	for _, bad := range []string{
		"plainaddress",
		"@ripple.dev",
		"dee@",
		"dee@ripple",
		"dee ray@ripple.dev",
	} {
		assert.Error(t, ValidateEmail(bad), bad)
	}
}
