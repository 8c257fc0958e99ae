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

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Roster    RosterConfig
	Schedule  ScheduleConfig
	Optimizer OptimizerConfig
	Runs      RunsConfig
	Exports   ExportConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig covers token signing and the single operator account.
type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	Issuer            string
	AdminUsername     string
	AdminPasswordHash string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// RosterConfig points at the questionnaire CSV exports.
type RosterConfig struct {
	ClientFile     string
	InstructorFile string
}

// ScheduleConfig holds the default grid dimensions and economics. Individual
// runs may override any of these through the API payload.
type ScheduleConfig struct {
	Classrooms      int
	Days            int
	Slots           int
	MaxParticipants int
	TicketPrice     float64
	HourlyPay       float64
	PresenceBonus   float64
	RentalCost      float64
}

// OptimizerConfig holds the default annealing parameters.
type OptimizerConfig struct {
	Alpha             float64
	InitialTemp       float64
	IterationsPerTemp int
	MinTemp           float64
	Epsilon           float64
	MaxStagnantEpochs int
	GreedyPlacement   bool
}

// ExportConfig governs where rendered timetables land and how long their
// signed download links stay valid.
type ExportConfig struct {
	Dir    string
	URLTTL time.Duration
}

// RunsConfig governs the optimization worker pool and result retention.
type RunsConfig struct {
	Workers     int
	QueueSize   int
	ResultTTL   time.Duration
	CacheTTL    time.Duration
	PersistRuns bool
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

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:            v.GetString("JWT_ISSUER"),
		AdminUsername:     v.GetString("ADMIN_USERNAME"),
		AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Roster = RosterConfig{
		ClientFile:     v.GetString("ROSTER_CLIENT_FILE"),
		InstructorFile: v.GetString("ROSTER_INSTRUCTOR_FILE"),
	}

	cfg.Schedule = ScheduleConfig{
		Classrooms:      v.GetInt("SCHEDULE_CLASSROOMS"),
		Days:            v.GetInt("SCHEDULE_DAYS"),
		Slots:           v.GetInt("SCHEDULE_SLOTS"),
		MaxParticipants: v.GetInt("SCHEDULE_MAX_PARTICIPANTS"),
		TicketPrice:     v.GetFloat64("SCHEDULE_TICKET_PRICE"),
		HourlyPay:       v.GetFloat64("SCHEDULE_HOURLY_PAY"),
		PresenceBonus:   v.GetFloat64("SCHEDULE_PRESENCE_BONUS"),
		RentalCost:      v.GetFloat64("SCHEDULE_RENTAL_COST"),
	}

	cfg.Optimizer = OptimizerConfig{
		Alpha:             v.GetFloat64("OPTIMIZER_ALPHA"),
		InitialTemp:       v.GetFloat64("OPTIMIZER_INITIAL_TEMP"),
		IterationsPerTemp: v.GetInt("OPTIMIZER_ITERATIONS_PER_TEMP"),
		MinTemp:           v.GetFloat64("OPTIMIZER_MIN_TEMP"),
		Epsilon:           v.GetFloat64("OPTIMIZER_EPSILON"),
		MaxStagnantEpochs: v.GetInt("OPTIMIZER_MAX_STAGNANT_EPOCHS"),
		GreedyPlacement:   v.GetBool("OPTIMIZER_GREEDY_PLACEMENT"),
	}

	cfg.Runs = RunsConfig{
		Workers:     v.GetInt("RUNS_WORKERS"),
		QueueSize:   v.GetInt("RUNS_QUEUE_SIZE"),
		ResultTTL:   parseDuration(v.GetString("RUNS_RESULT_TTL"), 24*time.Hour),
		CacheTTL:    parseDuration(v.GetString("RUNS_CACHE_TTL"), 10*time.Minute),
		PersistRuns: v.GetBool("RUNS_PERSIST"),
	}

	cfg.Exports = ExportConfig{
		Dir:    v.GetString("EXPORT_DIR"),
		URLTTL: parseDuration(v.GetString("EXPORT_URL_TTL"), 15*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "studio_planner")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "studio-api")
	v.SetDefault("ADMIN_USERNAME", "admin")
	// bcrypt hash of "admin", for local development only.
	v.SetDefault("ADMIN_PASSWORD_HASH", "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ROSTER_CLIENT_FILE", "./data/form_answers.csv")
	v.SetDefault("ROSTER_INSTRUCTOR_FILE", "./data/instructors_info.csv")

	v.SetDefault("SCHEDULE_CLASSROOMS", 1)
	v.SetDefault("SCHEDULE_DAYS", 6)
	v.SetDefault("SCHEDULE_SLOTS", 6)
	v.SetDefault("SCHEDULE_MAX_PARTICIPANTS", 5)
	v.SetDefault("SCHEDULE_TICKET_PRICE", 40)
	v.SetDefault("SCHEDULE_HOURLY_PAY", 50)
	v.SetDefault("SCHEDULE_PRESENCE_BONUS", 50)
	v.SetDefault("SCHEDULE_RENTAL_COST", 200)

	v.SetDefault("OPTIMIZER_ALPHA", 0.9999)
	v.SetDefault("OPTIMIZER_INITIAL_TEMP", 1000)
	v.SetDefault("OPTIMIZER_ITERATIONS_PER_TEMP", 50)
	v.SetDefault("OPTIMIZER_MIN_TEMP", 0.1)
	v.SetDefault("OPTIMIZER_EPSILON", 0.01)
	v.SetDefault("OPTIMIZER_MAX_STAGNANT_EPOCHS", 1000)
	v.SetDefault("OPTIMIZER_GREEDY_PLACEMENT", false)

	v.SetDefault("RUNS_WORKERS", 1)
	v.SetDefault("RUNS_QUEUE_SIZE", 8)
	v.SetDefault("RUNS_RESULT_TTL", "24h")
	v.SetDefault("RUNS_CACHE_TTL", "10m")
	v.SetDefault("RUNS_PERSIST", false)

	v.SetDefault("EXPORT_DIR", "./exports")
	v.SetDefault("EXPORT_URL_TTL", "15m")
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
