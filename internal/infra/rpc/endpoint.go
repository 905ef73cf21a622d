package rpc

import "strings"

// NormalizeEndpoint turns a user-supplied endpoint into the URL actually
// requested. Endpoints without a scheme get https://. When apiKey is set and
// the URL does not already carry it, key=<apiKey> is appended as a query
// parameter.
func NormalizeEndpoint(endpoint, apiKey string) string {
	url := strings.TrimSpace(endpoint)
	if url == "" {
		return ""
	}
	if !strings.HasPrefix(url, "http") {
		url = "https://" + url
	}

	if apiKey != "" && !strings.Contains(url, apiKey) {
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		url += sep + "key=" + apiKey
	}
	return url
}
