package utils

import "golang.org/x/crypto/bcrypt"

// HashPasscode returns the bcrypt hash to store as the access passcode.
func HashPasscode(passcode string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasscode compares the bcrypt hash with its possible plaintext equivalent.
func CheckPasscode(hash, passcode string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(passcode)) == nil
}
