package http

import (
	"net/http"
	"strings"

	"github.com/Jomkit/KitchenSync/pkg/httputil"
)

// ContentTypeJSON rejects body-carrying requests that do not declare a JSON
// content type. Routes without request bodies skip this middleware.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			contentType := r.Header.Get("Content-Type")
			if !strings.HasPrefix(strings.ToLower(contentType), "application/json") {
				httputil.WriteErrorBody(w, r, http.StatusUnsupportedMediaType,
					"UNSUPPORTED_MEDIA_TYPE", "Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
