package middleware

import (
	"context"
	"net/http"
	"strings"

	"vigia/internal/config"
	"vigia/internal/logger"
	"vigia/internal/reqctx"
	helpers "vigia/internal/utils/helpers"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func JWTAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		cfg, _ := config.LoadConfig()
		authHeader := r.Header.Get("Authorization")

		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			logger.WithCtx(r.Context()).Warn("JWTAuth: access token ausente")
			helpers.ErrorRedirect(w, http.StatusUnauthorized, "Sessão ausente. Faça login", "/auth")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			logger.WithCtx(r.Context()).Warn("JWTAuth: token inválido ou expirado", zap.Error(err))
			helpers.ErrorRedirect(w, http.StatusUnauthorized, "Sessão inválida ou expirada. Faça login novamente", "/auth")
			return
		}

		userID, ok1 := claims["user_id"].(float64)
		email, ok2 := claims["email"].(string)
		tokenType, _ := claims["token_type"].(string)
		if !ok1 || !ok2 || tokenType != "access" {
			logger.WithCtx(r.Context()).Warn("JWTAuth: payload inválido", zap.Any("claims", claims))
			helpers.ErrorRedirect(w, http.StatusUnauthorized, "Sessão inválida. Faça login novamente", "/auth")
			return
		}

		ctx := context.WithValue(r.Context(), ContextUserID, int(userID))
		ctx = context.WithValue(ctx, ContextEmail, email)
		ctx = reqctx.WithUserID(ctx, int(userID))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
