package config

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

const (
	StorageBolt     = "bolt"
	StoragePostgres = "postgres"
)

type Config struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	PrivateKeyPath string        `env:"PRIVATE_KEY_PATH" envDefault:"/etc/certs/private.pem"`
	PublicKeyPath  string        `env:"PUBLIC_KEY_PATH" envDefault:"/etc/certs/public.pem"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"8h"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"bolt"`
	DatabaseURL   string `env:"DB_CONNECTION_STRING"`
	BoltPath      string `env:"BOLT_PATH" envDefault:"classbank.db"`

	RedisAddress  string `env:"REDIS_ADDRESS" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	Broker BrokerConfig

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	TimeZone               string `env:"TIME_ZONE" envDefault:"America/Chicago"`
	StartingBalance        string `env:"STARTING_BALANCE" envDefault:"100"`
	StrictOrderTransitions bool   `env:"STRICT_ORDER_TRANSITIONS" envDefault:"false"`

	AdminUsername     string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword     string `env:"ADMIN_PASSWORD,notEmpty"`
	DeveloperUsername string `env:"DEVELOPER_USERNAME" envDefault:"developer"`
	DeveloperPassword string `env:"DEVELOPER_PASSWORD,notEmpty"`

	ExportRoot string `env:"EXPORT_ROOT" envDefault:"."`
	LogFile    string `env:"LOG_FILE"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	Version    string `env:"APP_VERSION" envDefault:"unknown"`

	// Resolved by Load; unexported so the env parser leaves them alone.
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	location   *time.Location
	balance    decimal.Decimal
}

func (c *Config) JWTPrivateKey() *rsa.PrivateKey { return c.privateKey }
func (c *Config) JWTPublicKey() *rsa.PublicKey   { return c.publicKey }
func (c *Config) Location() *time.Location       { return c.location }

// InitialBalance is the balance given to newly enrolled students.
func (c *Config) InitialBalance() decimal.Decimal { return c.balance }

// Load reads the API configuration from the environment and resolves the
// values that need parsing: RSA keys, time zone and starting balance.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}

	privateKey, err := loadPrivateKey(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("load private key: %w", err)
	}
	publicKey, err := loadPublicKey(cfg.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("load public key: %w", err)
	}
	cfg.privateKey = privateKey
	cfg.publicKey = publicKey
	return &cfg, nil
}

func (c *Config) resolve() error {
	switch c.StorageDriver {
	case StorageBolt:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DB_CONNECTION_STRING is required for the postgres storage driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return fmt.Errorf("load time zone %q: %w", c.TimeZone, err)
	}
	c.location = loc

	balance, err := decimal.NewFromString(c.StartingBalance)
	if err != nil || balance.IsNegative() {
		return fmt.Errorf("invalid STARTING_BALANCE %q", c.StartingBalance)
	}
	c.balance = balance
	return nil
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(keyData)
	if err != nil {
		return nil, err
	}
	return privateKey, nil
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(keyData)
	if err != nil {
		return nil, err
	}
	return publicKey, nil
}
