package farmer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Cameroonian mobile number: optional 237 prefix, then a 9-digit subscriber
// number starting with 2 or 6.
var phonePattern = regexp.MustCompile(`^(\+?237)?[26]\d{8}$`)

var validRegions = []string{
	"Adamawa", "Centre", "East", "Far North", "Littoral",
	"North", "Northwest", "South", "Southwest", "West",
}

var validLanguages = []string{
	"English", "French", "Pidgin English", "Fulfulde",
	"Ewondo", "Duala", "Bamileke", "Other",
}

// Cameroon bounding box, degrees.
const (
	minLatitude  = 1.65
	maxLatitude  = 13.05
	minLongitude = 8.38
	maxLongitude = 16.19
)

// ValidatePhoneNumber checks a raw phone number and returns it in the
// canonical +237XXXXXXXXX form. Spaces and dashes are tolerated on input.
func ValidatePhoneNumber(raw string) (string, error) {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return "", fmt.Errorf("%w: phone number is required", ErrValidation)
	}
	if !phonePattern.MatchString(cleaned) {
		return "", fmt.Errorf("%w: invalid phone number format. Expected a Cameroonian number like +237612345678", ErrValidation)
	}
	digits := cleaned[len(cleaned)-9:]
	return "+237" + digits, nil
}

// ValidateLocation checks the "City, Region" format and returns the location
// with the region in its canonical spelling.
func ValidateLocation(raw string) (string, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: location must be in 'City, Region' format", ErrValidation)
	}

	city := strings.TrimSpace(parts[0])
	region := strings.TrimSpace(parts[1])
	if city == "" || region == "" {
		return "", fmt.Errorf("%w: location must be in 'City, Region' format", ErrValidation)
	}
	if utf8.RuneCountInString(city) < 2 {
		return "", fmt.Errorf("%w: city must be at least 2 characters", ErrValidation)
	}

	for _, valid := range validRegions {
		if strings.EqualFold(region, valid) {
			return city + ", " + valid, nil
		}
	}
	return "", fmt.Errorf("%w: invalid region '%s'. Must be one of: %s",
		ErrValidation, region, strings.Join(validRegions, ", "))
}

// ValidateLanguage checks the language against the supported set and returns
// its canonical spelling.
func ValidateLanguage(raw string) (string, error) {
	lang := strings.TrimSpace(raw)
	for _, valid := range validLanguages {
		if strings.EqualFold(lang, valid) {
			return valid, nil
		}
	}
	return "", fmt.Errorf("%w: invalid language '%s'. Must be one of: %s",
		ErrValidation, lang, strings.Join(validLanguages, ", "))
}

// ValidateCoordinates checks global bounds first, then that the point falls
// inside Cameroon.
func ValidateCoordinates(latitude, longitude float64) error {
	if latitude < -90 || latitude > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrValidation)
	}
	if longitude < -180 || longitude > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrValidation)
	}
	if latitude < minLatitude || latitude > maxLatitude ||
		longitude < minLongitude || longitude > maxLongitude {
		return fmt.Errorf("%w: coordinates are outside Cameroon", ErrValidation)
	}
	return nil
}
