package main

import (
	"net/http"

	_ "vigia/docs"
	"vigia/internal/app"
	"vigia/internal/config"
	"vigia/internal/logger"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title Vigia API
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @version 1.0
// @description API do portal de segurança comunitária: cadastro e aprovação de moradores, cobranças via PIX, mensagens em tempo real, câmeras e alertas.
// @BasePath /
func main() {
	cfg, err := config.LoadConfig()
	logger.InitLogger()
	defer logger.Log.Sync()

	if err != nil {
		logger.Log.Fatal("Erro ao carregar configuração", zap.Error(err))
	}

	warnings, err := cfg.Validate()
	if err != nil {
		logger.Log.Fatal("Configuração inválida", zap.Error(err))
	}
	for _, warning := range warnings {
		logger.Log.Warn("Configuração incompleta", zap.String("aviso", warning))
	}

	router, err := app.InitApp(cfg)
	if err != nil {
		logger.Log.Fatal("Erro ao inicializar a aplicação", zap.Error(err))
	}

	logger.Log.Info("Servidor iniciado", zap.String("port", cfg.Port), zap.String("db", cfg.GetDSNSafe()))

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   corsOrigins(cfg),
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
	})

	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	if err := http.ListenAndServe(":"+cfg.Port, corsMiddleware.Handler(router)); err != nil {
		logger.Log.Fatal("Erro ao subir o servidor", zap.Error(err))
	}
}

func corsOrigins(cfg *config.Config) []string {
	if cfg.FrontendURL != "" {
		return []string{cfg.FrontendURL}
	}
	return []string{"*"}
}
