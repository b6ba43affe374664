package wordpress

import (
	"regexp"
	"strconv"
	"strings"

	wperrors "github.com/olgasafonova/wordpress-mcp-server/internal/errors"
)

// WordPress slugs are sanitized titles: lowercase letters, digits, dashes,
// underscores and percent-encoded UTF-8.
var slugRegex = regexp.MustCompile(`^[\p{L}\p{N}_%-]+$`)

// normalizeSlug trims and validates a slug.
func normalizeSlug(slug string) (string, error) {
	s := strings.TrimSpace(slug)
	if s == "" {
		return "", wperrors.NewValidationError("slug", "", "slug is required")
	}
	if !slugRegex.MatchString(s) {
		return "", wperrors.NewValidationError("slug", s, "may only contain letters, digits, '-', '_' and '%'")
	}
	return s, nil
}

// perPageOrDefault returns def for 0 and rejects values outside 1..MaxPerPage.
func perPageOrDefault(n, def int) (int, error) {
	if n == 0 {
		return def, nil
	}
	if n < 1 || n > MaxPerPage {
		return 0, wperrors.NewValidationError("per_page", strconv.Itoa(n), "must be between 1 and 100")
	}
	return n, nil
}

// validateIDs requires a non-empty list of positive term ids.
func validateIDs(field string, ids []int) error {
	if len(ids) == 0 {
		return wperrors.NewValidationError(field, "", "at least one id is required")
	}
	for _, id := range ids {
		if id <= 0 {
			return wperrors.NewValidationError(field, strconv.Itoa(id), "ids must be positive")
		}
	}
	return nil
}
