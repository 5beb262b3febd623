package httpx

import (
	"io"
	"net/http"
)

const (
	healthResponse   = `{"status":"ok"}`
	notReadyResponse = `{"status":"starting"}`
)

// healthHandler returns a simple 200 OK status for liveness checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, r, http.StatusOK, healthResponse)
}

// readyHandler reports 503 until ready returns true, so load balancers hold
// traffic while the identity provider is still being discovered.
func readyHandler(ready func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ready != nil && !ready() {
			w.Header().Set("Retry-After", "1")
			writeHealth(w, r, http.StatusServiceUnavailable, notReadyResponse)
			return
		}
		writeHealth(w, r, http.StatusOK, healthResponse)
	}
}

func writeHealth(w http.ResponseWriter, r *http.Request, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, body); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}
