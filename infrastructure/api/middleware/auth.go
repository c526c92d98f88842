package middleware

import "net/http"

// APIKeyAuth returns a middleware requiring a valid X-API-KEY header. With
// no keys configured all requests pass through.
func APIKeyAuth(apiKeys []string) func(http.Handler) http.Handler {
	keys := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys[k] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(keys) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := r.Header.Get("X-API-KEY")
			if apiKey == "" {
				writeAuthError(w, "X-API-KEY header is required")
				return
			}
			if _, ok := keys[apiKey]; !ok {
				writeAuthError(w, "invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WriteProtectAuth requires a valid X-API-KEY header for mutating methods
// only. GET, HEAD, and OPTIONS stay open.
func WriteProtectAuth(apiKeys []string) func(http.Handler) http.Handler {
	auth := APIKeyAuth(apiKeys)
	return func(next http.Handler) http.Handler {
		protected := auth(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
			default:
				protected.ServeHTTP(w, r)
			}
		})
	}
}

func writeAuthError(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"status":401,"title":"Unauthorized","detail":"` + detail + `"}}`))
}
