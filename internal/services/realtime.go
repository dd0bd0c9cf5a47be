package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vigia/internal/logger"
	"vigia/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RealtimeService faz o transporte dos eventos de chat e alerta via Pub/Sub do
// redis. Canais: msg:user:<id>, msg:group:<id> e alerts:all (broadcast).
// Não há fila offline — quem não está inscrito no momento do publish não
// recebe; o catch-up é feito pelo banco (mensagens sem delivered_at).
type RealtimeService struct {
	rdb *redis.Client
}

func NewRealtimeService(rdb *redis.Client) *RealtimeService {
	return &RealtimeService{rdb: rdb}
}

func userChannel(userID int) string   { return fmt.Sprintf("msg:user:%d", userID) }
func groupChannel(groupID int) string { return fmt.Sprintf("msg:group:%d", groupID) }

const broadcastChannel = "alerts:all"

func (s *RealtimeService) publish(ctx context.Context, channel string, ev *models.RealtimeEvent) {
	if s.rdb == nil {
		return
	}
	ev.SentAt = time.Now()
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Log.Error("Erro ao serializar evento realtime", zap.Error(err))
		return
	}
	// publish é best-effort: o dado durável já está no banco
	if err := s.rdb.Publish(context.WithoutCancel(ctx), channel, payload).Err(); err != nil {
		logger.Log.Warn("Publish realtime falhou (best-effort)", zap.Error(err), zap.String("channel", channel))
	}
}

func (s *RealtimeService) PublishToUser(ctx context.Context, userID int, ev *models.RealtimeEvent) {
	s.publish(ctx, userChannel(userID), ev)
}

func (s *RealtimeService) PublishToGroup(ctx context.Context, groupID int, ev *models.RealtimeEvent) {
	s.publish(ctx, groupChannel(groupID), ev)
}

func (s *RealtimeService) PublishBroadcast(ctx context.Context, ev *models.RealtimeEvent) {
	s.publish(ctx, broadcastChannel, ev)
}

// Subscribe inscreve o usuário no seu canal pessoal, nos canais dos grupos
// informados e no broadcast de alertas. O canal devolvido fecha quando o
// contexto é cancelado (desconexão do cliente).
func (s *RealtimeService) Subscribe(ctx context.Context, userID int, groupIDs []int) (<-chan *models.RealtimeEvent, error) {
	channels := []string{userChannel(userID), broadcastChannel}
	for _, gid := range groupIDs {
		channels = append(channels, groupChannel(gid))
	}

	sub := s.rdb.Subscribe(ctx, channels...)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan *models.RealtimeEvent, 16)
	go func() {
		defer close(out)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev models.RealtimeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					logger.Log.Warn("Evento realtime malformado", zap.Error(err))
					continue
				}
				select {
				case out <- &ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
