package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"lorve_back_end/internal/config"
	"lorve_back_end/pkg/retry"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
)

// Connections groups the clients of every backing service. Elastic and
// MinIO are nil when not configured.
type Connections struct {
	Scylla  *gocql.Session
	Redis   *redis.Client
	Elastic *elasticsearch.Client
	MinIO   *minio.Client
}

var connectRetry = retry.Config{
	MaxAttempts: 5,
	Backoff:     retry.ExponentialBackoff(500 * time.Millisecond),
}

func ConnectDatabases(ctx context.Context, cfg config.Config) (*Connections, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	conns := &Connections{}

	// 1. ScyllaDB
	session, err := retry.DoWithResult(ctx, connectRetry, func() (*gocql.Session, error) {
		return connectScylla(cfg.Scylla)
	})
	if err != nil {
		return nil, fmt.Errorf("scylla: %w", err)
	}
	conns.Scylla = session

	// 2. Redis
	conns.Redis, err = connectRedis(ctx, cfg.Redis)
	if err != nil {
		conns.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	// 3. Elasticsearch
	if cfg.Elastic.URL != "" {
		conns.Elastic, err = connectElastic(cfg.Elastic)
		if err != nil {
			log.Printf("⚠️ Elasticsearch unavailable, search falls back to catalog scan: %v", err)
		}
	}

	// 4. MinIO
	if cfg.MinIO.Endpoint != "" {
		conns.MinIO, err = connectMinIO(ctx, cfg.MinIO)
		if err != nil {
			conns.Close()
			return nil, fmt.Errorf("minio: %w", err)
		}
	}

	log.Println("✅ All databases connected")
	return conns, nil
}

func (c *Connections) Close() {
	if c.Scylla != nil {
		c.Scylla.Close()
		log.Println("🔌 ScyllaDB session closed")
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}

// =============================================
// SCYLLA DB
// =============================================

func newScyllaCluster(cfg config.ScyllaConfig) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Keyspace = cfg.Keyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = cfg.Timeout
	cluster.NumConns = cfg.NumConns
	cluster.ReconnectInterval = time.Second
	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	return cluster
}

func connectScylla(cfg config.ScyllaConfig) (*gocql.Session, error) {
	session, err := newScyllaCluster(cfg).CreateSession()
	if err != nil {
		log.Printf("⚠️ ScyllaDB not ready (%s): %v", cfg.Keyspace, err)
		return nil, err
	}
	log.Printf("✅ ScyllaDB session for keyspace '%s'", cfg.Keyspace)
	return session, nil
}

// =============================================
// REDIS
// =============================================

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	err := retry.Do(ctx, connectRetry, func() error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	log.Println("✅ Connected to Redis")
	return client, nil
}

// =============================================
// ELASTICSEARCH
// =============================================

func connectElastic(cfg config.ElasticConfig) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, err
	}

	res, err := client.Info()
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("info: %s", res.Status())
	}

	log.Println("✅ Connected to Elasticsearch")
	return client, nil
}

// =============================================
// MINIO
// =============================================

func connectMinIO(ctx context.Context, cfg config.MinIOConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		log.Println("🪣 Bucket created:", cfg.Bucket)
	}

	log.Println("✅ Connected to MinIO:", cfg.Endpoint)
	return client, nil
}
