package form_test

import (
	"strings"
	"testing"

	"github.com/nfrund/authform/internal/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword_FirstFailingRule(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     string
	}{
		{"too short", "ab", form.MsgMinLength},
		{"empty", "", form.MsgMinLength},
		{"short but otherwise fine", "Ab1!", form.MsgMinLength},
		{"too long", strings.Repeat("Ab1!", 6), form.MsgMaxLength},
		{"lowercase only", "abcdefgh", form.MsgUppercase},
		{"uppercase only", "ABCDEFGH", form.MsgLowercase},
		{"no digit", "Abcdefgh", form.MsgDigit},
		{"no special", "Abcdefg1", form.MsgSpecial},
		{"special outside the set", "Abcdefg1-", form.MsgSpecial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := form.ValidatePassword(tt.password)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())

			var perr *form.PolicyError
			assert.ErrorAs(t, err, &perr)
		})
	}
}

func TestValidatePassword_Valid(t *testing.T) {
	valid := []string{
		"Abcdefg1!",
		"Abcdefg1_",
		"aB3$aB3$",
		"Zz9^Zz9^Zz9^Zz9^Zz9^",
		"Passw0rd#",
		"x*Y7&&&&",
	}
	for _, pw := range valid {
		assert.NoError(t, form.ValidatePassword(pw), "password %q should pass", pw)
	}
}

func TestValidatePassword_CountsCharacters(t *testing.T) {
	// Eight characters but more than eight bytes.
	assert.NoError(t, form.ValidatePassword("Äbcdef1!"))
	// Twenty-one characters.
	assert.Equal(t, form.MsgMaxLength, form.ValidatePassword("Äbcdef1!"+strings.Repeat("a", 13)).Error())
	// Characters outside the basic plane count once each, not as surrogate pairs.
	assert.Equal(t, form.MsgMinLength, form.ValidatePassword("Ab1!😀😀").Error())
	assert.NoError(t, form.ValidatePassword("Abcdef1!"+strings.Repeat("😀", 12)))
}
