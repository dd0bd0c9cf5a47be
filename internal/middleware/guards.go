package middleware

import (
	"context"
	"net/http"

	"vigia/internal/logger"
	helpers "vigia/internal/utils/helpers"
)

// Authorizer é o recorte do AuthService que as guardas de rota usam.
type Authorizer interface {
	IsAdmin(ctx context.Context, userID int, email string) bool
	IsApproved(ctx context.Context, userID int) bool
}

// DEVE vir depois de JWTAuth — user_id/email já precisam estar no contexto.

// OnlyAdmin libera só quem tem papel admin (ou e-mail na lista de fallback).
// A flag de aprovação não é consultada aqui.
func OnlyAdmin(auth Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok1 := r.Context().Value(ContextUserID).(int)
			email, ok2 := r.Context().Value(ContextEmail).(string)
			if !ok1 || !ok2 || !auth.IsAdmin(r.Context(), userID, email) {
				logger.WithCtx(r.Context()).Warn("Acesso admin negado")
				helpers.ErrorRedirect(w, http.StatusForbidden, "Acesso restrito à administração", "/admin-login")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// OnlyApproved libera só morador aprovado. Erro na consulta conta como não
// aprovado (fail-closed) e manda para a página de pagamento.
func OnlyApproved(auth Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := r.Context().Value(ContextUserID).(int)
			if !ok || !auth.IsApproved(r.Context(), userID) {
				helpers.ErrorRedirect(w, http.StatusForbidden,
					"Seu cadastro ainda não foi aprovado. Conclua o pagamento da taxa de adesão", "/initial-payment")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
