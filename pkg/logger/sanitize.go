package logger

import (
	"net/url"
	"strings"
)

const redacted = "[REDACTED]"

// sensitiveParams are query parameters whose values may carry personal data
// (patient and customer names) or credentials.
var sensitiveParams = map[string]bool{
	"searchparam":  true,
	"token":        true,
	"access_token": true,
	"secret":       true,
	"password":     true,
	"email":        true,
}

// RedactQuery returns rawQuery with the values of sensitive parameters
// replaced. Parameter names and order are kept so request logs stay useful.
// A query that cannot be parsed is redacted entirely.
func RedactQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	pairs := strings.Split(rawQuery, "&")
	for i, pair := range pairs {
		name, _, hasValue := strings.Cut(pair, "=")
		decoded, err := url.QueryUnescape(name)
		if err != nil {
			return redacted
		}
		if hasValue && sensitiveParams[strings.ToLower(decoded)] {
			pairs[i] = name + "=" + redacted
		}
	}
	return strings.Join(pairs, "&")
}
