package proxy

import (
	"net/http"
	"strings"
)

// isUpgradeRequest reports whether r carries a Connection: Upgrade header,
// the trigger for routing it through the WebSocket terminal filter instead
// of the plain HTTP one.
func isUpgradeRequest(r *http.Request) bool {
	for _, h := range r.Header["Connection"] {
		for _, token := range strings.Split(h, ",") {
			if strings.EqualFold(strings.TrimSpace(token), "upgrade") {
				return true
			}
		}
	}
	return false
}

// getUpgradeRequest returns the requested upgrade protocol, or "" if the
// request doesn't carry one.
func getUpgradeRequest(r *http.Request) string {
	if !isUpgradeRequest(r) {
		return ""
	}
	return r.Header.Get("Upgrade")
}
