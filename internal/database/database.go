package database

import (
	"context"
	"fmt"
	"time"

	"storefront_back_end/internal/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// --- Variables Globales ---
// Postgres est obligatoire ; les autres restent nil quand ils ne sont pas configurés.
var (
	Postgres *sqlx.DB
	Redis    *redis.Client
	Elastic  *elasticsearch.Client
	MinIO    *minio.Client
	Scylla   *gocql.Session
)

// --- Initialisation ---
func ConnectDatabases(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 1. PostgreSQL (catalogue, paniers, commandes)
	if err := ConnectPostgres(ctx, cfg.Postgres); err != nil {
		return err
	}

	// 2. Redis
	if err := connectRedis(ctx, cfg.Redis); err != nil {
		return err
	}

	// 3. Elasticsearch
	if err := connectElastic(cfg.Elastic); err != nil {
		return err
	}

	// 4. MinIO
	if err := connectMinIO(ctx, cfg.MinIO); err != nil {
		return err
	}

	// 5. ScyllaDB (audit)
	if err := connectScylla(cfg.Scylla); err != nil {
		return err
	}

	log.Info().Msg("✅ Toutes les bases de données sont connectées")
	return nil
}

// =============================================
// POSTGRESQL
// =============================================
func ConnectPostgres(ctx context.Context, cfg config.PostgresConfig) error {
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return fmt.Errorf("erreur ouverture PostgreSQL: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns / 2)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("erreur connexion PostgreSQL: %w", err)
	}

	Postgres = db
	log.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("✅ Connecté à PostgreSQL")
	return nil
}

// =============================================
// REDIS
// =============================================
func connectRedis(ctx context.Context, cfg config.RedisConfig) error {
	if cfg.Host == "" {
		log.Warn().Msg("⚠️ Redis non configuré : cache, notifications panier et rate limit désactivés")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Host,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("erreur connexion Redis: %w", err)
	}

	Redis = client
	log.Info().Msg("✅ Connecté à Redis")
	return nil
}

// =============================================
// ELASTICSEARCH
// =============================================
func connectElastic(cfg config.ElasticConfig) error {
	if cfg.URL == "" {
		log.Warn().Msg("⚠️ Elasticsearch non configuré : recherche SQL uniquement")
		return nil
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return fmt.Errorf("erreur création client Elasticsearch: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		// La recherche retombe sur SQL via le disjoncteur, on ne bloque pas le démarrage.
		log.Error().Err(err).Msg("❌ Elasticsearch injoignable au démarrage")
	} else {
		res.Body.Close()
		log.Info().Msg("✅ Connecté à Elasticsearch")
	}

	Elastic = client
	return nil
}

// =============================================
// MINIO
// =============================================
func connectMinIO(ctx context.Context, cfg config.MinIOConfig) error {
	if cfg.Endpoint == "" {
		log.Warn().Msg("⚠️ MinIO non configuré : upload d'images désactivé")
		return nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("erreur connexion MinIO: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return fmt.Errorf("erreur vérification bucket MinIO: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("erreur création bucket MinIO: %w", err)
		}
		log.Info().Str("bucket", cfg.Bucket).Msg("🪣 Bucket créé")
	}

	MinIO = client
	log.Info().Str("endpoint", cfg.Endpoint).Msg("✅ Connecté à MinIO")
	return nil
}

// =============================================
// SCYLLA DB (journal d'audit)
// =============================================
func connectScylla(cfg config.ScyllaConfig) error {
	if len(cfg.Hosts) == 0 {
		log.Warn().Msg("⚠️ ScyllaDB non configuré : journal d'audit désactivé")
		return nil
	}

	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Keyspace = cfg.Keyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = 5 * time.Second
	cluster.NumConns = 4
	cluster.ReconnectInterval = 1 * time.Second
	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())

	session, err := cluster.CreateSession()
	if err != nil {
		return fmt.Errorf("erreur création session ScyllaDB: %w", err)
	}

	if err := EnsureAuditTables(session); err != nil {
		session.Close()
		return err
	}

	Scylla = session
	log.Info().Str("keyspace", cfg.Keyspace).Msg("✅ Nouvelle session ScyllaDB")
	return nil
}

// Close ferme toutes les connexions ouvertes.
func Close() {
	if Scylla != nil {
		Scylla.Close()
	}
	if Redis != nil {
		Redis.Close()
	}
	if Postgres != nil {
		Postgres.Close()
	}
	log.Info().Msg("🔌 Connexions fermées")
}
