package user

import (
	"regexp"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email looks like an address.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidatePassword checks password strength: at least 8 characters with a
// lowercase letter, an uppercase letter and a digit. Returns a user-facing
// message describing the first failed rule.
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Passord må være minst 8 tegn langt"
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	if !lower {
		return false, "Passord må inneholde minst én liten bokstav"
	}
	if !upper {
		return false, "Passord må inneholde minst én stor bokstav"
	}
	if !digit {
		return false, "Passord må inneholde minst ett tall"
	}
	return true, ""
}
