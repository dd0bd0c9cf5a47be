package app

import (
	"vigia/internal/config"
	"vigia/internal/db"
	"vigia/internal/handlers"
	"vigia/internal/logger"
	"vigia/internal/repository"
	"vigia/internal/routes"
	"vigia/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}

	rdb, err := db.NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	// Repositórios
	userRepo := repository.NewUserRepository(conn)
	roleRepo := repository.NewRoleRepository(conn)
	paymentRepo := repository.NewPaymentRepository(conn)
	messageRepo := repository.NewMessageRepository(conn)
	groupRepo := repository.NewGroupRepository(conn)
	cameraRepo := repository.NewCameraRepository(conn)
	weatherRepo := repository.NewWeatherAlertRepository(conn)
	emergencyRepo := repository.NewEmergencyAlertRepository(conn)
	petRepo := repository.NewSosPetRepository(conn)
	reportRepo := repository.NewReportRepository(conn)
	contactRepo := repository.NewContactRepository(conn)
	adminLogRepo := repository.NewAdminLogRepository(conn)
	notificationRepo := repository.NewNotificationRepository(conn)

	// Serviços
	notifier := services.NewNotifier(notificationRepo)
	pixService := services.NewPixService(cfg.PixKey, cfg.PixMerchantName, cfg.PixMerchantCity)
	realtimeService := services.NewRealtimeService(rdb)

	authService := services.NewAuthService(userRepo, roleRepo, paymentRepo, notifier,
		cfg.FallbackAdminEmails(), cfg.InitialFeeValue())
	onboardingService := services.NewOnboardingService(userRepo, paymentRepo, adminLogRepo, notifier, pixService)
	paymentService := services.NewPaymentService(paymentRepo, pixService)
	messageService := services.NewMessageService(messageRepo, groupRepo, realtimeService)
	cameraService := services.NewCameraService(cameraRepo)
	emergencyService := services.NewEmergencyService(emergencyRepo, realtimeService, notifier)
	weatherService := services.NewWeatherService(weatherRepo, cfg.WeatherAPIURL, cfg.WeatherAPIKey, cfg.WeatherCity)
	communityService := services.NewCommunityService(petRepo, reportRepo, contactRepo)
	cepService := services.NewCEPService(cfg.CEPAPIURL)
	adminService := services.NewAdminService(notificationRepo, adminLogRepo)

	backupService, err := services.NewBackupService(cfg, adminLogRepo)
	if err != nil {
		// backup é opcional: sem MinIO configurado o endpoint devolve erro,
		// mas o resto do serviço sobe normalmente
		logger.Log.Warn("Backup indisponível", zap.Error(err))
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	onboardingHandler := handlers.NewOnboardingHandler(onboardingService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	webhookHandler := handlers.NewWebhookHandler(onboardingService, paymentService, notifier, cfg.WebhookToken)
	messageHandler := handlers.NewMessageHandler(messageService, realtimeService)
	cameraHandler := handlers.NewCameraHandler(cameraService)
	alertHandler := handlers.NewAlertHandler(emergencyService, weatherService)
	communityHandler := handlers.NewCommunityHandler(communityService)
	adminHandler := handlers.NewAdminHandler(authService, onboardingService, adminService, backupService)
	cepHandler := handlers.NewCEPHandler(cepService)

	// Tarefas agendadas: ingestão de clima, inadimplência, mensalidades
	scheduler := NewScheduler(cfg, weatherService, paymentService)
	if err := scheduler.Start(); err != nil {
		return nil, err
	}

	router := mux.NewRouter()
	routes.InitRoutes(router, authService,
		authHandler, onboardingHandler, paymentHandler, webhookHandler,
		messageHandler, cameraHandler, alertHandler, communityHandler,
		adminHandler, cepHandler)

	return router, nil
}
