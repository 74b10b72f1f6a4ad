package middleware

import (
	"encoding/json"
	"net/http"
)

// RequireToken пропускает запрос только при непустом заголовке
// Authorization. Подпись и срок жизни токена здесь не проверяются,
// этим занимается внешний шлюз.
func RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{
				"message": "Access token is required",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
