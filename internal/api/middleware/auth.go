package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
	HeaderDoctorID = "X-Doctor-ID"

	msgMissingUser   = "не указан пользователь"
	msgInvalidUser   = "некорректный ID пользователя"
	msgInvalidRole   = "некорректная роль пользователя"
	msgInvalidDoctor = "некорректный ID врача"
)

type actorKey struct{}

// Auth извлекает пользователя из заголовков, выставленных шлюзом.
// Для роли DOCTOR обязателен X-Doctor-ID.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := r.Header.Get(HeaderUserID)
		if rawID == "" {
			handlers.RespondUnauthorized(w, msgMissingUser)
			return
		}
		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidUser)
			return
		}

		role := domain.Role(r.Header.Get(HeaderUserRole))
		if !role.IsValid() {
			handlers.RespondUnauthorized(w, msgInvalidRole)
			return
		}

		actor := domain.Actor{UserID: userID, Role: role}
		if role == domain.RoleDoctor {
			doctorID, err := strconv.ParseInt(r.Header.Get(HeaderDoctorID), 10, 64)
			if err != nil || doctorID <= 0 {
				handlers.RespondUnauthorized(w, msgInvalidDoctor)
				return
			}
			actor.DoctorID = &doctorID
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// WithActor кладёт пользователя в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor возвращает пользователя, установленного Auth
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}

// GetUserID возвращает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	actor, ok := GetActor(ctx)
	if !ok {
		return 0, false
	}
	return actor.UserID, true
}
