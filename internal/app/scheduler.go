package app

import (
	"context"
	"time"

	"vigia/internal/config"
	"vigia/internal/logger"
	"vigia/internal/services"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler concentra as rotinas periódicas do serviço: ingestão de alertas
// climáticos, marcação de cobranças vencidas e geração das mensalidades.
type Scheduler struct {
	cron     *cron.Cron
	cfg      *config.Config
	weather  *services.WeatherService
	payments *services.PaymentService
}

func NewScheduler(cfg *config.Config, weather *services.WeatherService, payments *services.PaymentService) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		cfg:      cfg,
		weather:  weather,
		payments: payments,
	}
}

func (s *Scheduler) Start() error {
	// clima a cada hora
	if _, err := s.cron.AddFunc("@hourly", s.runWeatherIngest); err != nil {
		return err
	}
	// inadimplência uma vez por dia, de madrugada
	if _, err := s.cron.AddFunc("30 3 * * *", s.runMarkOverdue); err != nil {
		return err
	}
	// mensalidades no primeiro dia do mês
	if _, err := s.cron.AddFunc("0 4 1 * *", s.runGenerateMonthly); err != nil {
		return err
	}

	s.cron.Start()
	logger.Log.Info("Tarefas agendadas iniciadas")
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) runWeatherIngest() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.weather.IngestAlerts(ctx)
	if err != nil {
		logger.Log.Error("Ingestão de alertas climáticos falhou", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Log.Info("Alertas climáticos atualizados", zap.Int("count", n))
	}
}

func (s *Scheduler) runMarkOverdue() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.payments.MarkOverdueCharges(ctx)
	if err != nil {
		logger.Log.Error("Marcação de cobranças vencidas falhou", zap.Error(err))
		return
	}
	logger.Log.Info("Cobranças vencidas marcadas", zap.Int64("count", n))
}

func (s *Scheduler) runGenerateMonthly() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.payments.GenerateMonthlyCharges(ctx, s.cfg.MonthlyFeeValue(), s.cfg.MonthlyDueDay)
	if err != nil {
		logger.Log.Error("Geração de mensalidades falhou", zap.Error(err))
		return
	}
	logger.Log.Info("Mensalidades geradas", zap.Int64("count", n))
}
