package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"vigia/internal/config"
	"vigia/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Mensagens fixas para o usuário final. O erro cru nunca sai daqui — vai só
// para o log.
const (
	MsgNotFound        = "Registro não encontrado"
	MsgDuplicate       = "Já existe um registro com esses dados"
	MsgConstraint      = "Operação não permitida pelos dados informados"
	MsgUnauthorized    = "Sessão inválida ou expirada. Faça login novamente"
	MsgForbidden       = "Você não tem permissão para esta ação"
	MsgNetwork         = "Falha de conexão. Tente novamente em instantes"
	MsgRateLimited     = "Muitas tentativas. Aguarde um momento"
	MsgInternal        = "Erro interno. Tente novamente mais tarde"
	MsgInvalidInput    = "Dados inválidos. Confira os campos e tente de novo"
	MsgPaymentRequired = "Seu cadastro ainda não foi aprovado. Conclua o pagamento da taxa de adesão"
)

// devMode é lido uma vez só: MapError roda em todo caminho de erro e não pode
// reler o .env a cada chamada.
var devMode = sync.OnceValue(func() bool {
	cfg, err := config.LoadConfig()
	return err == nil && cfg.Env == "dev"
})

// MapError traduz um erro interno numa mensagem fixa em português. Em modo dev
// o erro cru também vai para o log em nível debug.
func MapError(err error) string {
	if err == nil {
		return ""
	}

	if devMode() {
		logger.Log.Debug("Erro original antes do mapeamento", zap.Error(err))
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505": // unique_violation
			return MsgDuplicate
		case strings.HasPrefix(pgErr.Code, "23"): // demais violações de integridade
			return MsgConstraint
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return MsgNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return MsgNetwork
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "token"), strings.Contains(msg, "jwt"), strings.Contains(msg, "senha"):
		return MsgUnauthorized
	case strings.Contains(msg, "permission"), strings.Contains(msg, "permissão"):
		return MsgForbidden
	case strings.Contains(msg, "rate limit"), strings.Contains(msg, "too many"):
		return MsgRateLimited
	case strings.Contains(msg, "connection"), strings.Contains(msg, "timeout"), strings.Contains(msg, "refused"):
		return MsgNetwork
	case strings.Contains(msg, "invalid"), strings.Contains(msg, "inválid"):
		return MsgInvalidInput
	}

	return MsgInternal
}
