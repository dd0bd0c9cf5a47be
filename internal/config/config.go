package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string

	JWTSecret       string
	AccessTokenTTL  string
	RefreshTokenTTL string

	Log      string
	LogLevel string
	Env      string // dev|prod

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	BackupBucket   string

	WeatherAPIURL string
	WeatherAPIKey string
	WeatherCity   string
	CEPAPIURL     string

	WebhookToken string
	AdminEmails  string // lista separada por vírgula (fallback de admin)

	PixKey          string
	PixMerchantName string
	PixMerchantCity string
	InitialFee      string // valor da taxa de adesão, ex: "132.00"
	MonthlyFee      string // mensalidade recorrente
	MonthlyDueDay   int    // dia do vencimento das mensalidades (1-28)

	FrontendURL string
}

// LoadConfig carrega o .env, lê as variáveis de ambiente e aplica defaults.
// Não loga nada — para não criar dependência do logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	redisDB, _ := strconv.Atoi(def(os.Getenv("REDIS_DB"), "0"))

	monthlyDueDay, _ := strconv.Atoi(def(os.Getenv("MONTHLY_DUE_DAY"), "10"))
	if monthlyDueDay < 1 || monthlyDueDay > 28 {
		monthlyDueDay = 10
	}

	cfg := &Config{
		Port:      def(os.Getenv("PORT"), "8080"),
		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),

		JWTSecret:       os.Getenv("JWT_SECRET"),
		AccessTokenTTL:  def(os.Getenv("ACCESS_TOKEN_EXPIRY"), "15m"),
		RefreshTokenTTL: def(os.Getenv("REFRESH_TOKEN_EXPIRY"), "720h"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		RedisAddr:     def(os.Getenv("REDIS_ADDR"), "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioUseSSL:    def(os.Getenv("MINIO_USE_SSL"), "false") == "true",
		BackupBucket:   def(os.Getenv("BACKUP_BUCKET"), "vigia-backups"),

		WeatherAPIURL: def(os.Getenv("WEATHER_API_URL"), "https://api.openweathermap.org/data/2.5"),
		WeatherAPIKey: os.Getenv("WEATHER_API_KEY"),
		WeatherCity:   def(os.Getenv("WEATHER_CITY"), "Sao Paulo,BR"),
		CEPAPIURL:     def(os.Getenv("CEP_API_URL"), "https://viacep.com.br/ws"),

		WebhookToken: os.Getenv("WEBHOOK_TOKEN"),
		AdminEmails:  os.Getenv("ADMIN_EMAILS"),

		PixKey:          os.Getenv("PIX_KEY"),
		PixMerchantName: def(os.Getenv("PIX_MERCHANT_NAME"), "ASSOC VIGIA"),
		PixMerchantCity: def(os.Getenv("PIX_MERCHANT_CITY"), "SAO PAULO"),
		InitialFee:      def(os.Getenv("INITIAL_FEE"), "132.00"),
		MonthlyFee:      def(os.Getenv("MONTHLY_FEE"), "132.00"),
		MonthlyDueDay:   monthlyDueDay,

		FrontendURL: os.Getenv("FRONTEND_URL"),
	}

	return cfg, nil
}

// Validate retorna avisos e um erro fatal (se for crítico).
func (c *Config) Validate() (warnings []string, err error) {
	// Críticos: banco
	if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
		return nil, fmt.Errorf("configuração do banco incompleta (DB_HOST/DB_USER/DB_NAME)")
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		warnings = append(warnings, "JWT_SECRET está vazio")
	}

	if c.WebhookToken == "" {
		warnings = append(warnings, "WEBHOOK_TOKEN não configurado — webhook de pagamento ficará inacessível")
	}

	if c.PixKey == "" {
		warnings = append(warnings, "PIX_KEY não configurada")
	}

	if c.MinioEndpoint == "" {
		warnings = append(warnings, "MinIO não configurado — gatilho de backup desabilitado")
	}

	if c.WeatherAPIKey == "" {
		warnings = append(warnings, "WEATHER_API_KEY não configurada — ingestão de alertas climáticos desabilitada")
	}

	return warnings, nil
}

// FallbackAdminEmails devolve a lista de e-mails com acesso admin garantido.
func (c *Config) FallbackAdminEmails() []string {
	if strings.TrimSpace(c.AdminEmails) == "" {
		return nil
	}
	parts := strings.Split(c.AdminEmails, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// InitialFeeValue converte a taxa de adesão para número. Valor inválido cai
// no default para não travar o boot.
func (c *Config) InitialFeeValue() float64 {
	v, err := strconv.ParseFloat(c.InitialFee, 64)
	if err != nil || v <= 0 {
		return 132.00
	}
	return v
}

// MonthlyFeeValue converte a mensalidade para número.
func (c *Config) MonthlyFeeValue() float64 {
	v, err := strconv.ParseFloat(c.MonthlyFee, 64)
	if err != nil || v <= 0 {
		return 132.00
	}
	return v
}

// GetDSN — DSN completa (com senha)
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe — DSN sem senha (para logs)
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}
