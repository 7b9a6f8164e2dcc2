package form

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// User-facing password policy messages, in evaluation order.
const (
	MsgMinLength = "Minimum 8 characters!"
	MsgMaxLength = "Maximum 20 characters!"
	MsgUppercase = "At least one uppercase character!"
	MsgLowercase = "At least one lowercase character!"
	MsgDigit     = "At least one digit!"
	MsgSpecial   = "At least one special character from -[ ! @ # $ % ^ & * _ ]!"
)

const (
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	digitChars   = "0123456789"
	specialChars = "!@#$%^&*_"
)

// passwordRules is evaluated left to right and validator stops at the first
// failing tag, which gives the policy its short-circuit order.
const passwordRules = "min=8,max=20" +
	",containsany=" + upperChars +
	",containsany=" + lowerChars +
	",containsany=" + digitChars +
	",containsany=" + specialChars

var policyValidator = validator.New()

// PolicyError reports the first password rule a candidate failed.
type PolicyError struct {
	Rule    string
	Message string
}

func (e *PolicyError) Error() string { return e.Message }

// ValidatePassword checks password against the policy and returns nil when it
// is acceptable, or a *PolicyError naming the first unmet rule. Length is
// counted in characters, not bytes.
func ValidatePassword(password string) error {
	err := policyValidator.Var(password, passwordRules)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	first := verrs[0]
	switch first.Tag() {
	case "min":
		return &PolicyError{Rule: "min_length", Message: MsgMinLength}
	case "max":
		return &PolicyError{Rule: "max_length", Message: MsgMaxLength}
	}

	switch first.Param() {
	case upperChars:
		return &PolicyError{Rule: "uppercase", Message: MsgUppercase}
	case lowerChars:
		return &PolicyError{Rule: "lowercase", Message: MsgLowercase}
	case digitChars:
		return &PolicyError{Rule: "digit", Message: MsgDigit}
	default:
		return &PolicyError{Rule: "special", Message: MsgSpecial}
	}
}
