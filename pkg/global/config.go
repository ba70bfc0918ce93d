package global

import (
	"errors"
	"strings"
)

type GatewayCredentials struct {
	ID     string
	Secret string
	Env    string
}

func (g GatewayCredentials) Configured() bool {
	return g.ID != "" && g.Secret != ""
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type AIConfig struct {
	Endpoint   string
	APIKey     string
	Deployment string
}

// Config is read once at startup; see LoadConfig for the variables it uses.
type Config struct {
	Port           string
	Env            string
	LogLevel       string
	MongoURI       string
	MongoDatabase  string
	RedisAddress   string
	RedisPassword  string
	JWTSecret      string
	StoreState     string
	Currency       string
	CORSOrigins    []string
	Razorpay       GatewayCredentials
	Cashfree       GatewayCredentials
	PayPal         GatewayCredentials
	PayPalCurrency string
	PayPalFXRate   float64
	SMTP           SMTPConfig
	ContactEmail   string
	KafkaBrokers   []string
	KafkaTopic     string
	GoogleClientID string
	AI             AIConfig
	RateLimit      int
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:          GetEnvOrDefault("PORT", "5000"),
		Env:           GetEnvOrDefault("ENV", "development"),
		LogLevel:      GetEnvOrDefault("LOG_LEVEL", "info"),
		MongoURI:      GetEnvOrDefault("MONGODB_URI", ""),
		MongoDatabase: GetEnvOrDefault("MONGODB_DATABASE", "isvaryam"),
		RedisAddress:  GetEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword: GetEnvOrDefault("REDIS_PASSWORD", ""),
		JWTSecret:     GetEnvOrDefault("JWT_SECRET", ""),
		StoreState:    GetEnvOrDefault("STORE_STATE", "Tamil Nadu"),
		Currency:      GetEnvOrDefault("STORE_CURRENCY", "INR"),
		CORSOrigins:   GetEnvList("CORS_ORIGINS", "http://localhost:3000"),
		Razorpay: GatewayCredentials{
			ID:     GetEnvOrDefault("RAZORPAY_KEY_ID", ""),
			Secret: GetEnvOrDefault("RAZORPAY_KEY_SECRET", ""),
		},
		Cashfree: GatewayCredentials{
			ID:     GetEnvOrDefault("CASHFREE_CLIENT_ID", ""),
			Secret: GetEnvOrDefault("CASHFREE_CLIENT_SECRET", ""),
			Env:    GetEnvOrDefault("CASHFREE_ENV", "sandbox"),
		},
		PayPal: GatewayCredentials{
			ID:     GetEnvOrDefault("PAYPAL_CLIENT_ID", ""),
			Secret: GetEnvOrDefault("PAYPAL_CLIENT_SECRET", ""),
			Env:    GetEnvOrDefault("PAYPAL_ENV", "sandbox"),
		},
		PayPalCurrency: GetEnvOrDefault("PAYPAL_CURRENCY", "USD"),
		PayPalFXRate:   GetEnvFloat("PAYPAL_FX_RATE", 0.012),
		SMTP: SMTPConfig{
			Host:     GetEnvOrDefault("SMTP_HOST", ""),
			Port:     GetEnvOrDefault("SMTP_PORT", "587"),
			Username: GetEnvOrDefault("SMTP_USERNAME", ""),
			Password: GetEnvOrDefault("SMTP_PASSWORD", ""),
			From:     GetEnvOrDefault("MAIL_FROM", "no-reply@isvaryam.com"),
		},
		ContactEmail:   GetEnvOrDefault("CONTACT_EMAIL", "contact@isvaryam.com"),
		KafkaBrokers:   GetEnvList("KAFKA_BROKERS", ""),
		KafkaTopic:     GetEnvOrDefault("KAFKA_ORDER_TOPIC", "orders"),
		GoogleClientID: GetEnvOrDefault("GOOGLE_CLIENT_ID", ""),
		AI: AIConfig{
			Endpoint:   GetEnvOrDefault("AZURE_OPENAI_ENDPOINT", ""),
			APIKey:     GetEnvOrDefault("AZURE_OPENAI_API_KEY", ""),
			Deployment: GetEnvOrDefault("AZURE_OPENAI_DEPLOYMENT_NAME", ""),
		},
		RateLimit: GetEnvInt("RATE_LIMIT_PER_MINUTE", 20),
	}

	if cfg.MongoURI == "" {
		return nil, errors.New("MONGODB_URI is not set in environment variables")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set in environment variables")
	}
	return cfg, nil
}
