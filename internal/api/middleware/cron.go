package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const (
	HeaderCronSecret = "X-Cron-Secret"

	msgInvalidCronSecret = "некорректный секрет планировщика"
)

// CronSecret пропускает только запросы с верным X-Cron-Secret.
// Пустой secret закрывает маршрут полностью.
func CronSecret(secret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(HeaderCronSecret)
			if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				handlers.RespondUnauthorized(w, msgInvalidCronSecret)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
