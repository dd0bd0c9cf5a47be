package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"sem linha", pgx.ErrNoRows, MsgNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, MsgDuplicate},
		{"fk violation", &pgconn.PgError{Code: "23503"}, MsgConstraint},
		{"deadline", context.DeadlineExceeded, MsgNetwork},
		{"cancelado", context.Canceled, MsgNetwork},
		{"token", errors.New("invalid token signature"), MsgUnauthorized},
		{"conexão", errors.New("connection refused"), MsgNetwork},
		{"rate limit", errors.New("too many requests"), MsgRateLimited},
		{"genérico", errors.New("algo deu errado"), MsgInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MapError(tc.err); got != tc.want {
				t.Fatalf("MapError(%v) = %q, esperado %q", tc.err, got, tc.want)
			}
		})
	}
}

func TestMapError_WrappedPgError(t *testing.T) {
	wrapped := errors.Join(errors.New("insert payments"), &pgconn.PgError{Code: "23505"})
	if got := MapError(wrapped); got != MsgDuplicate {
		t.Fatalf("erro embrulhado deveria mapear para duplicado, veio %q", got)
	}
}
