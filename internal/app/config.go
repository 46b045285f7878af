package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
	"github.com/skillforge/skillforge-backend/internal/services"
	"github.com/skillforge/skillforge-backend/internal/utils"
)

type Config struct {
	Port   string
	Engine services.EngineConfig
}

// engineFileConfig is the YAML schema for the optional tuning file. Every
// field is optional; durations are Go duration strings ("24h", "5m").
type engineFileConfig struct {
	ActionWeights         map[domain.ActionType]float64 `yaml:"action_weights"`
	HalfLifeDays          *float64                      `yaml:"half_life_days"`
	NeighborK             *int                          `yaml:"neighbor_k"`
	MinInteractionCourses *int                          `yaml:"min_interaction_courses"`
	SimilarityTTL         string                        `yaml:"similarity_ttl"`
	CacheTTL              string                        `yaml:"cache_ttl"`
	TrendingWindow        string                        `yaml:"trending_window"`
	TrendingMemoTTL       string                        `yaml:"trending_memo_ttl"`
	FallbackDamping       *float64                      `yaml:"fallback_damping"`
	DefaultLimit          *int                          `yaml:"default_limit"`
	MaxLimit              *int                          `yaml:"max_limit"`
	IncludeCompleted      *bool                         `yaml:"include_completed"`
}

// LoadConfig builds the runtime configuration. Engine tunables start from
// the code defaults, then an optional YAML file (ENGINE_CONFIG_PATH), then
// individual environment variables. Env wins so one knob can be flipped in a
// deployment without editing the file.
func LoadConfig(log *logger.Logger) (Config, error) {
	engine := services.DefaultEngineConfig()

	if path := utils.GetEnv("ENGINE_CONFIG_PATH", "", log); path != "" {
		if err := applyEngineFile(&engine, path); err != nil {
			return Config{}, err
		}
		log.Info("Engine config loaded from file", "path", path)
	}

	engine.HalfLifeDays = utils.GetEnvAsFloat("ENGINE_HALF_LIFE_DAYS", engine.HalfLifeDays, log)
	engine.NeighborK = utils.GetEnvAsInt("ENGINE_NEIGHBOR_K", engine.NeighborK, log)
	engine.MinInteractionCourses = utils.GetEnvAsInt("ENGINE_MIN_INTERACTION_COURSES", engine.MinInteractionCourses, log)
	engine.SimilarityTTL = envDuration("ENGINE_SIMILARITY_TTL", engine.SimilarityTTL, log)
	engine.CacheTTL = envDuration("ENGINE_CACHE_TTL", engine.CacheTTL, log)
	engine.TrendingWindow = envDuration("ENGINE_TRENDING_WINDOW", engine.TrendingWindow, log)
	engine.TrendingMemoTTL = envDuration("ENGINE_TRENDING_MEMO_TTL", engine.TrendingMemoTTL, log)
	engine.FallbackDamping = utils.GetEnvAsFloat("ENGINE_FALLBACK_DAMPING", engine.FallbackDamping, log)
	engine.DefaultLimit = utils.GetEnvAsInt("ENGINE_DEFAULT_LIMIT", engine.DefaultLimit, log)
	engine.MaxLimit = utils.GetEnvAsInt("ENGINE_MAX_LIMIT", engine.MaxLimit, log)
	engine.IncludeCompleted = utils.GetEnvAsBool("ENGINE_INCLUDE_COMPLETED", engine.IncludeCompleted, log)

	return Config{
		Port:   utils.GetEnv("PORT", "8080", log),
		Engine: engine,
	}, nil
}

func applyEngineFile(engine *services.EngineConfig, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read engine config %s: %w", path, err)
	}
	var file engineFileConfig
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse engine config %s: %w", path, err)
	}

	if len(file.ActionWeights) > 0 {
		engine.ActionWeights = file.ActionWeights
	}
	if file.HalfLifeDays != nil {
		engine.HalfLifeDays = *file.HalfLifeDays
	}
	if file.NeighborK != nil {
		engine.NeighborK = *file.NeighborK
	}
	if file.MinInteractionCourses != nil {
		engine.MinInteractionCourses = *file.MinInteractionCourses
	}
	if file.FallbackDamping != nil {
		engine.FallbackDamping = *file.FallbackDamping
	}
	if file.DefaultLimit != nil {
		engine.DefaultLimit = *file.DefaultLimit
	}
	if file.MaxLimit != nil {
		engine.MaxLimit = *file.MaxLimit
	}
	if file.IncludeCompleted != nil {
		engine.IncludeCompleted = *file.IncludeCompleted
	}
	for _, d := range []struct {
		raw  string
		into *time.Duration
	}{
		{file.SimilarityTTL, &engine.SimilarityTTL},
		{file.CacheTTL, &engine.CacheTTL},
		{file.TrendingWindow, &engine.TrendingWindow},
		{file.TrendingMemoTTL, &engine.TrendingMemoTTL},
	} {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("parse engine config %s: bad duration %q: %w", path, d.raw, err)
		}
		*d.into = parsed
	}
	return nil
}

func envDuration(key string, defaultVal time.Duration, log *logger.Logger) time.Duration {
	raw := utils.GetEnv(key, "", log)
	if raw == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		if log != nil {
			log.Debug("Environment variable could not be parsed as duration, using default", "env_var", key, "providedVal", raw, "default", defaultVal, "error", err)
		}
		return defaultVal
	}
	return d
}
