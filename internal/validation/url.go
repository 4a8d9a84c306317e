package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// URLValidationError represents a URL validation failure
type URLValidationError struct {
	Field   string
	Message string
	URL     string
}

func (e URLValidationError) Error() string {
	return fmt.Sprintf("%s: %s (url: %s)", e.Field, e.Message, e.URL)
}

// ValidateURL validates that a URL is well-formed with an http(s) scheme
// and a host. Empty values are allowed; callers enforce required fields.
func ValidateURL(urlString, fieldName string) error {
	if urlString == "" {
		return nil
	}

	parsedURL, err := url.Parse(urlString)
	if err != nil {
		return URLValidationError{
			Field:   fieldName,
			Message: "invalid URL format",
			URL:     urlString,
		}
	}

	if parsedURL.Scheme == "" {
		return URLValidationError{
			Field:   fieldName,
			Message: "URL must include a scheme (http:// or https://)",
			URL:     urlString,
		}
	}

	if parsedURL.Host == "" {
		return URLValidationError{
			Field:   fieldName,
			Message: "URL must include a host",
			URL:     urlString,
		}
	}

	scheme := strings.ToLower(parsedURL.Scheme)
	if scheme != "http" && scheme != "https" {
		return URLValidationError{
			Field:   fieldName,
			Message: "URL scheme must be http or https",
			URL:     urlString,
		}
	}

	return nil
}
