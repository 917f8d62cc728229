package auth

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// similarity at or above this ratio is rejected
const maxSimilarity = 0.7

var commonPasswords = map[string]struct{}{}

func init() {
	for _, pw := range []string{
		"password", "password1", "password123", "12345678", "123456789", "1234567890",
		"qwerty123", "qwertyuiop", "iloveyou", "sunshine", "princess", "football",
		"baseball", "welcome1", "welcome123", "letmein1", "admin123", "abc12345",
		"trustno1", "superman", "starwars", "whatever", "passw0rd", "dragon12",
		"monkey123", "master12", "michael1", "shadow12", "computer", "internet",
		"student1", "student123", "university", "campus123", "election", "vote2024",
		"changeme", "11111111", "00000000", "87654321", "asdfghjk", "zaq12wsx",
		"1q2w3e4r", "1qaz2wsx", "qwerty12", "aa123456", "password!", "p@ssw0rd",
	} {
		commonPasswords[pw] = struct{}{}
	}
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword returns every strength rule the password breaks, or nil.
func ValidatePassword(password, studentID string) []string {
	var problems []string

	if len(password) < minPasswordLength {
		problems = append(problems, fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength))
	}
	if password != "" && strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) == -1 {
		problems = append(problems, "This password is entirely numeric.")
	}
	if _, ok := commonPasswords[strings.ToLower(strings.TrimSpace(password))]; ok {
		problems = append(problems, "This password is too common.")
	}
	if studentID != "" && similarity(strings.ToLower(password), strings.ToLower(studentID)) >= maxSimilarity {
		problems = append(problems, "The password is too similar to the student id.")
	}
	return problems
}

// similarity is an upper bound on how much two strings overlap: twice the
// number of shared characters over the combined length.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 1
	}

	counts := make(map[rune]int)
	for _, r := range b {
		counts[r]++
	}
	matches := 0
	for _, r := range a {
		if counts[r] > 0 {
			counts[r]--
			matches++
		}
	}
	return 2 * float64(matches) / float64(len([]rune(a))+len([]rune(b)))
}
