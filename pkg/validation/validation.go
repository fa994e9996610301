package validation

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	artistNameRegex = regexp.MustCompile(`^[\p{L}\p{N} .,'&()!?-]+$`)
)

// ParsePositiveInt parses s, returning def when it is missing, malformed or
// not positive.
func ParsePositiveInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// ParsePagination reads page and limit, capping limit at max.
func ParsePagination(pageStr, limitStr string, defLimit, max int) (page, limit int) {
	page = ParsePositiveInt(pageStr, 1)
	limit = ParsePositiveInt(limitStr, defLimit)
	if limit > max {
		limit = max
	}
	return page, limit
}

// ParseBool accepts the usual truthy spellings.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// ValidateArtistName checks length and allowed characters.
func ValidateArtistName(name string) bool {
	name = strings.TrimSpace(name)
	if len(name) == 0 || len(name) > 255 {
		return false
	}
	return artistNameRegex.MatchString(name)
}

// SanitizeString removes potentially harmful characters
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")
	return input
}
