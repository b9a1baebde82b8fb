package handlers

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Validation limits for form fields.
const (
	maxTitleLen    = 256
	maxPostLen     = 50_000
	maxCommentLen  = 5_000
	maxUsernameLen = 150
	maxNameLen     = 150
	maxEmailLen    = 254
	minPasswordLen = 8
)

// usernamePattern allows letters, digits, and @.+-_ like a typical
// registration form.
var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// pubDateLayout matches the value of an <input type="datetime-local">.
const pubDateLayout = "2006-01-02T15:04"

// validatePost checks post form inputs and returns the first error found.
func validatePost(title, text string) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 256 characters)."
	}
	if strings.TrimSpace(text) == "" {
		return "Text is required."
	}
	if utf8.RuneCountInString(text) > maxPostLen {
		return "Text is too long (max 50,000 characters)."
	}
	return ""
}

// parsePubDate parses the publication date from the form in server-local time.
func parsePubDate(value string) (time.Time, string) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, "Publication date is required."
	}
	t, err := time.ParseInLocation(pubDateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, "Publication date is not a valid date."
	}
	return t, ""
}

// validateComment checks a comment body.
func validateComment(text string) string {
	if strings.TrimSpace(text) == "" {
		return "Comment text is required."
	}
	if utf8.RuneCountInString(text) > maxCommentLen {
		return "Comment is too long (max 5,000 characters)."
	}
	return ""
}

// validateProfile checks the editable identity fields.
func validateProfile(username, email, firstName, lastName string) string {
	if strings.TrimSpace(username) == "" {
		return "Username is required."
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return "Username is too long (max 150 characters)."
	}
	if !usernamePattern.MatchString(username) {
		return "Username may only contain letters, digits, and @.+-_ characters."
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return "Email is too long."
	}
	if email != "" && !strings.Contains(email, "@") {
		return "Email does not look like an address."
	}
	if utf8.RuneCountInString(firstName) > maxNameLen || utf8.RuneCountInString(lastName) > maxNameLen {
		return "Name is too long (max 150 characters)."
	}
	return ""
}

// validateRegistration checks the registration form, including passwords.
func validateRegistration(username, email, firstName, lastName, password1, password2 string) string {
	if msg := validateProfile(username, email, firstName, lastName); msg != "" {
		return msg
	}
	if utf8.RuneCountInString(password1) < minPasswordLen {
		return "Password must be at least 8 characters."
	}
	if password1 != password2 {
		return "The two passwords do not match."
	}
	return ""
}
