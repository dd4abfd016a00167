package config

import (
	"strings"
	"time"
)

// RedisConfig is the Redis connection used when view state is kept in Redis
// (BOARD_STATE_STORE=redis). Exactly one of direct URI, sentinel or cluster mode applies.
type RedisConfig struct {
	URI      string `env:"URI"      envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	// DB selects the logical database for direct and sentinel connections.
	DB int `env:"DB" envDefault:"0"`

	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`

	ClusterNodes []string `env:"CLUSTER_NODES" envDefault:""`
	UseCluster   bool     `env:"USE_CLUSTER"   envDefault:"false"`

	// PoolSize caps connections per node; 0 keeps the go-redis default.
	PoolSize    int           `env:"POOL_SIZE"    envDefault:"0"`
	DialTimeout time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
}

// Sanitize trims node lists and clamps negative values.
func (r *RedisConfig) Sanitize() {
	r.URI = strings.TrimSpace(r.URI)
	r.SentinelNodes = trimList(r.SentinelNodes)
	r.ClusterNodes = trimList(r.ClusterNodes)
	if r.DB < 0 {
		r.DB = 0
	}
	if r.PoolSize < 0 {
		r.PoolSize = 0
	}
	if r.DialTimeout <= 0 {
		r.DialTimeout = 5 * time.Second
	}
}

func trimList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
