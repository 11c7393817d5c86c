package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	CORS   CORSConfig
	Log    LogConfig
	Engine EngineConfig
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// EngineConfig carries the generator defaults applied when a request omits a
// setting, plus the operational caps that bound a single run.
type EngineConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
	SeedAttempts   int
	RepairAttempts int
	Workers        int

	MinHours int
	MaxHours int

	MaxCourseDailyHours   int
	MaxLecturerDailyHours int

	WorkloadBalanceWeight float64
	GapPenaltyWeight      float64
	RoomPreferenceWeight  float64
	WorkloadBoundsWeight  float64
	DailyLoadWeight       float64

	SoftScoreTarget  float64
	StallGenerations int
	MaxRunDuration   time.Duration
	MaxTotalSessions int
	RunTTL           time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Engine = EngineConfig{
		PopulationSize: v.GetInt("ENGINE_POPULATION_SIZE"),
		Generations:    v.GetInt("ENGINE_GENERATIONS"),
		MutationRate:   v.GetFloat64("ENGINE_MUTATION_RATE"),
		TournamentSize: v.GetInt("ENGINE_TOURNAMENT_SIZE"),
		EliteCount:     v.GetInt("ENGINE_ELITE_COUNT"),
		SeedAttempts:   v.GetInt("ENGINE_SEED_ATTEMPTS"),
		RepairAttempts: v.GetInt("ENGINE_REPAIR_ATTEMPTS"),
		Workers:        v.GetInt("ENGINE_WORKERS"),

		MinHours: v.GetInt("ENGINE_MIN_HOURS"),
		MaxHours: v.GetInt("ENGINE_MAX_HOURS"),

		MaxCourseDailyHours:   v.GetInt("ENGINE_MAX_COURSE_DAILY_HOURS"),
		MaxLecturerDailyHours: v.GetInt("ENGINE_MAX_LECTURER_DAILY_HOURS"),

		WorkloadBalanceWeight: v.GetFloat64("ENGINE_WEIGHT_WORKLOAD_BALANCE"),
		GapPenaltyWeight:      v.GetFloat64("ENGINE_WEIGHT_GAP_PENALTY"),
		RoomPreferenceWeight:  v.GetFloat64("ENGINE_WEIGHT_ROOM_PREFERENCE"),
		WorkloadBoundsWeight:  v.GetFloat64("ENGINE_WEIGHT_WORKLOAD_BOUNDS"),
		DailyLoadWeight:       v.GetFloat64("ENGINE_WEIGHT_DAILY_LOAD"),

		SoftScoreTarget:  v.GetFloat64("ENGINE_SOFT_SCORE_TARGET"),
		StallGenerations: v.GetInt("ENGINE_STALL_GENERATIONS"),
		MaxRunDuration:   parseDuration(v.GetString("ENGINE_MAX_RUN_DURATION"), 2*time.Minute),
		MaxTotalSessions: v.GetInt("ENGINE_MAX_TOTAL_SESSIONS"),
		RunTTL:           parseDuration(v.GetString("ENGINE_RUN_TTL"), 30*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENGINE_POPULATION_SIZE", 200)
	v.SetDefault("ENGINE_GENERATIONS", 1000)
	v.SetDefault("ENGINE_MUTATION_RATE", 0.15)
	v.SetDefault("ENGINE_TOURNAMENT_SIZE", 5)
	v.SetDefault("ENGINE_ELITE_COUNT", 1)
	v.SetDefault("ENGINE_SEED_ATTEMPTS", 50)
	v.SetDefault("ENGINE_REPAIR_ATTEMPTS", 20)
	v.SetDefault("ENGINE_WORKERS", 0)

	v.SetDefault("ENGINE_MIN_HOURS", 4)
	v.SetDefault("ENGINE_MAX_HOURS", 20)

	v.SetDefault("ENGINE_MAX_COURSE_DAILY_HOURS", 2)
	v.SetDefault("ENGINE_MAX_LECTURER_DAILY_HOURS", 4)

	v.SetDefault("ENGINE_WEIGHT_WORKLOAD_BALANCE", 1.0)
	v.SetDefault("ENGINE_WEIGHT_GAP_PENALTY", 2.0)
	v.SetDefault("ENGINE_WEIGHT_ROOM_PREFERENCE", 5.0)
	v.SetDefault("ENGINE_WEIGHT_WORKLOAD_BOUNDS", 3.0)
	v.SetDefault("ENGINE_WEIGHT_DAILY_LOAD", 2.0)

	v.SetDefault("ENGINE_SOFT_SCORE_TARGET", 0.0)
	v.SetDefault("ENGINE_STALL_GENERATIONS", 100)
	v.SetDefault("ENGINE_MAX_RUN_DURATION", "2m")
	v.SetDefault("ENGINE_MAX_TOTAL_SESSIONS", 5000)
	v.SetDefault("ENGINE_RUN_TTL", "30m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
