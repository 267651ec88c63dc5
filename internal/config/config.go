package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/latinum-ai/mercator/pkg/validation"
)

type Config struct {
	Development bool
	// API configuration
	APIPort int
	// Postgres configuration
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     int
	PostgresDB       string

	// Payment configuration
	SellerWallet   string
	FacilitatorURL string
	WalletUUID     string
	ExplorerTxURL  string

	// Flight search configuration
	FlightAPIURL string

	// SMTP configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPSender   string

	// Notification configuration
	AdminEmails         []string
	TelegramBotToken    string
	TelegramAdminChatID string

	// HTTPTimeout bounds all outbound HTTP calls (facilitator, images, flights).
	HTTPTimeout time.Duration
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Development:      getEnvAsBool("DEVELOPMENT", false),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnvAsInt("POSTGRES_PORT", 5432),
		PostgresDB:       getEnv("POSTGRES_DB", "mercator"),

		SellerWallet:   getEnv("SELLER_WALLET", ""),
		FacilitatorURL: getEnv("FACILITATOR_URL", "http://localhost:3000/api/base_facilitator"),
		WalletUUID:     getEnv("WALLET_UUID", ""),
		ExplorerTxURL:  getEnv("EXPLORER_TX_URL", "https://sepolia.basescan.org/tx/%s"),

		FlightAPIURL: getEnv("FLIGHT_API_URL", ""),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.example.com"),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPSender:   getEnv("SMTP_SENDER", "orders@latinum.ai"),

		AdminEmails:         getEnvAsList("ADMIN_EMAILS", nil),
		TelegramBotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAdminChatID: getEnv("TELEGRAM_ADMIN_CHAT_ID", ""),

		HTTPTimeout: time.Duration(getEnvAsInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,

		APIPort: getEnvAsInt("API_PORT", 6532),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are properly set
func (c *Config) Validate() error {
	if c.SellerWallet == "" {
		return fmt.Errorf("SELLER_WALLET is required")
	}

	// Validate seller wallet address format
	if err := validation.ValidateAddress(c.SellerWallet); err != nil {
		return fmt.Errorf("invalid SELLER_WALLET format: %w", err)
	}

	if c.FacilitatorURL == "" {
		return fmt.Errorf("FACILITATOR_URL is required")
	}

	if c.WalletUUID == "" {
		return fmt.Errorf("WALLET_UUID is required")
	}

	if !strings.Contains(c.ExplorerTxURL, "%s") {
		return fmt.Errorf("EXPLORER_TX_URL must contain a %%s placeholder for the transaction hash")
	}

	if c.PostgresDB == "" {
		return fmt.Errorf("POSTGRES_DB is required")
	}

	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}

	return nil
}

// ExplorerLink substitutes the transaction hash into the explorer URL template.
func (c *Config) ExplorerLink(txHash string) string {
	if txHash == "" {
		return ""
	}
	return fmt.Sprintf(c.ExplorerTxURL, txHash)
}

// Helper functions to read environment variables
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsList(name string, defaultValue []string) []string {
	if valueStr, exists := os.LookupEnv(name); exists {
		var values []string
		for _, v := range strings.Split(valueStr, ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		if len(values) > 0 {
			return values
		}
	}
	return defaultValue
}
