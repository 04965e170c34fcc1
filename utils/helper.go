package utils

import "strings"

// StringPtr returns a pointer to the string value
func StringPtr(s string) *string {
	return &s
}

// BoolPtr returns a pointer to the bool value
func BoolPtr(b bool) *bool {
	return &b
}

// CleanQueryParam trims a query parameter and normalizes the frontend's
// "null"/"undefined" placeholders to an empty string.
func CleanQueryParam(param string) string {
	param = strings.TrimSpace(param)
	switch strings.ToLower(param) {
	case "", "null", "undefined":
		return ""
	}
	return param
}
