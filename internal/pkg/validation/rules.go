package validation

import (
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// AcademicYearPattern matches "YYYY-YYYY", e.g. "2025-2026".
	AcademicYearPattern = `^\d{4}-\d{4}$`

	// HexColorPattern matches "#RRGGBB".
	HexColorPattern = `^#[0-9A-Fa-f]{6}$`

	// PasswordMinLength is the minimum accepted password length.
	PasswordMinLength = 6
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	AcademicYear *regexp.Regexp
	HexColor     *regexp.Regexp
}{
	AcademicYear: regexp.MustCompile(AcademicYearPattern),
	HexColor:     regexp.MustCompile(HexColorPattern),
}

// IsAcademicYear reports whether s is a well-formed academic year whose
// second year follows the first.
func IsAcademicYear(s string) bool {
	if !CompiledPatterns.AcademicYear.MatchString(s) {
		return false
	}
	first, _ := strconv.Atoi(s[:4])
	second, _ := strconv.Atoi(s[5:])
	return second == first+1
}

// RegisterCustomValidators installs domain validation tags on v. The
// hexcolor tag is re-registered against the 6-digit form so subject
// colors stay in the one shape the frontend palette emits.
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("academic_year", func(fl validator.FieldLevel) bool {
		return IsAcademicYear(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("hexcolor", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.HexColor.MatchString(fl.Field().String())
	})
}
