package rankdestinations

import (
	"time"

	"destination-recommender/internal/common/config"
)

type Config struct {
	Timeout        time.Duration
	ResultCacheTTL time.Duration
	DefaultLimit   int // 0 returns the full ranking
}

func LoadConfig(cfg *config.Config) *Config {
	wcfg := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout:        config.GetDuration(wcfg.Timeout),
		ResultCacheTTL: time.Duration(cfg.Recommendation.ResultCacheTTL) * time.Second,
		DefaultLimit:   cfg.Recommendation.DefaultLimit,
	}
}
