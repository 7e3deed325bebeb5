package utils

import "strings"

// connectivitySubstrings are error fragments the MySQL driver and net stack
// produce when the store is unreachable rather than the query being wrong.
var connectivitySubstrings = []string{
	"connection refused",
	"connection reset",
	"bad connection",
	"broken pipe",
	"invalid connection",
	"i/o timeout",
	"timed out",
	"timeout",
	"dial tcp",
	"no such host",
	"too many connections",
}

// IsConnectivityError reports whether err looks like a store connectivity or
// timeout failure, which callers surface as 503 instead of 500.
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, s := range connectivitySubstrings {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
