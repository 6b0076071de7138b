package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port        string        `envconfig:"PORT" default:"8080"`
	GinMode     string        `envconfig:"GIN_MODE" default:"release"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
	CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	JWTSecret   string        `envconfig:"JWT_SECRET" required:"true"`
	Shutdown    time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	Postgres PostgresConfig `envconfig:"DB"`
	Redis    RedisConfig    `envconfig:"REDIS"`
	Elastic  ElasticConfig  `envconfig:"ELASTIC"`
	MinIO    MinIOConfig    `envconfig:"MINIO"`
	Scylla   ScyllaConfig   `envconfig:"SCYLLA"`
	SMTP     SMTPConfig     `envconfig:"SMTP"`
}

type PostgresConfig struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"5432"`
	User     string `envconfig:"USERNAME" default:"postgres"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME" default:"storefront"`
	SSLMode  string `envconfig:"SSLMODE" default:"disable"`
	MaxConns int    `envconfig:"MAX_CONNS" default:"20"`
}

// DSN au format clé=valeur attendu par lib/pq
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Name, p.SSLMode)
}

// Redis, Elastic, MinIO, Scylla et SMTP sont optionnels : une adresse vide les désactive.
type RedisConfig struct {
	Host     string `envconfig:"HOST"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0"`
}

type ElasticConfig struct {
	URL      string `envconfig:"URL"`
	User     string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Index    string `envconfig:"INDEX" default:"products"`
}

type MinIOConfig struct {
	Endpoint  string        `envconfig:"ENDPOINT"`
	AccessKey string        `envconfig:"ACCESS_KEY"`
	SecretKey string        `envconfig:"SECRET_KEY"`
	Bucket    string        `envconfig:"BUCKET" default:"storefront-images"`
	UseSSL    bool          `envconfig:"USE_SSL" default:"false"`
	URLExpiry time.Duration `envconfig:"URL_EXPIRY" default:"24h"`
}

type ScyllaConfig struct {
	Hosts    []string `envconfig:"HOSTS"`
	Keyspace string   `envconfig:"KEYSPACE" default:"storefront_audit"`
	Username string   `envconfig:"USERNAME"`
	Password string   `envconfig:"PASSWORD"`
}

type SMTPConfig struct {
	Host     string `envconfig:"HOST"`
	Port     int    `envconfig:"PORT" default:"587"`
	Username string `envconfig:"USERNAME"`
	Password string `envconfig:"PASSWORD"`
	From     string `envconfig:"FROM" default:"noreply@storefront.local"`
}

// Load lit le fichier .env (s'il existe) puis les variables d'environnement.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn().Msg("⚠️  Aucun fichier .env trouvé, on continue avec les variables d'environnement du système")
	} else {
		log.Info().Msg("✅ Fichier .env chargé avec succès")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("configuration invalide: %w", err)
	}
	return &cfg, nil
}
