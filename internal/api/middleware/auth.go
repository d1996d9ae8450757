package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-HallBooking/internal/api/handlers"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// Роли пользователей
const (
	RoleRequester = "requester"
	RoleStaff     = "staff"
	RoleAdmin     = "admin"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidUserID = "некорректный ID пользователя"
	msgInvalidRole   = "некорректная роль пользователя"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	userRoleKey
	requestIDKey
)

// Auth извлекает пользователя из заголовков X-User-ID и X-User-Role.
// Заголовки выставляет API gateway после аутентификации, сервис им доверяет.
// Без X-User-Role пользователь считается обычным заявителем.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if rawID == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}

		role := strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderUserRole)))
		switch role {
		case "":
			role = RoleRequester
		case RoleRequester, RoleStaff, RoleAdmin:
		default:
			handlers.RespondForbidden(w, msgInvalidRole)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, userRoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает ID пользователя, установленный Auth
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// GetUserRole возвращает роль пользователя, установленную Auth
func GetUserRole(ctx context.Context) string {
	role, ok := ctx.Value(userRoleKey).(string)
	if !ok {
		return RoleRequester
	}
	return role
}

// IsStaff true для сотрудников, рассматривающих заявки
func IsStaff(ctx context.Context) bool {
	switch GetUserRole(ctx) {
	case RoleStaff, RoleAdmin:
		return true
	}
	return false
}
