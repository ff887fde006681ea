package http

import (
	stdhttp "net/http"
	"strings"
)

// ChatPath is the real-time endpoint accepting WebSocket upgrades.
const ChatPath = "/chat"

// accessTokenParam is the query parameter carrying the bearer token on
// upgrade requests. Browser WebSocket handshakes cannot set custom
// headers, so /chat accepts the token in the query string instead.
const accessTokenParam = "access_token"

// BearerToken extracts the raw credential from a request: the standard
// Authorization header for plain requests, or the access_token query
// parameter for requests targeting the chat endpoint. Pure function, no
// side effects.
func BearerToken(r *stdhttp.Request) (string, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
			return parts[1], true
		}
		return "", false
	}

	if strings.HasPrefix(r.URL.Path, ChatPath) {
		if token := r.URL.Query().Get(accessTokenParam); token != "" {
			return token, true
		}
	}

	return "", false
}
