package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

const tokenCookieName = "auth_token"

// requestToken returns the seat token from the auth_token cookie, falling
// back to the token query parameter.
func requestToken(r *http.Request) string {
	if c, err := r.Cookie(tokenCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return r.URL.Query().Get("token")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Warnf("failed to encode response: %v", err)
	}
}
