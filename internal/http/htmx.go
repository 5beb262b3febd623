package httpx

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"
)

// IsHTMX reports whether the request was initiated by htmx (Hx-Request: true).
func IsHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-Request"), "true")
}

// IsHistoryRestore reports true when htmx is restoring history (Hx-History-Restore-Request: true).
func IsHistoryRestore(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-History-Restore-Request"), "true")
}

// WantsPartial returns true when the handler should return only the main fragment.
// History restores need the full layout.
func WantsPartial(r *http.Request) bool {
	return IsHTMX(r) && !IsHistoryRestore(r)
}

// Navigate sends the browser to target without keeping the current URL in history.
// Regular requests get 303 See Other. Hx-Redirect would push a history entry, so
// htmx requests get a 200 fragment appended to <body> that calls location.replace.
func Navigate(w http.ResponseWriter, r *http.Request, target string) {
	if IsHTMX(r) {
		h := w.Header()
		h.Set("Content-Type", "text/html; charset=utf-8")
		h.Set("Hx-Retarget", "body")
		h.Set("Hx-Reswap", "beforeend")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `<script>location.replace("%s")</script>`, template.JSEscapeString(target))
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
