package utils

import (
	"net/url"
)

// IsValidUrl absolute http(s) url with a host
func IsValidUrl(str string) bool {
	u, err := url.Parse(str)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
