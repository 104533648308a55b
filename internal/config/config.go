package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Scheduler  SchedulerConfig
	Admin      AdminConfig
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	Timezone           string
	CORSAllowedOrigins []string
	RateLimitPerMinute int
}

// AttendanceConfig holds the initial attendance rules. They can be changed at
// runtime through Runtime.
type AttendanceConfig struct {
	AbsenceCutoff attendance.TimeOfDay
	MinWorkHours  int
}

type SchedulerConfig struct {
	Enabled      bool
	PollInterval time.Duration
	AbsentTime   attendance.TimeOfDay
	ReportTime   attendance.TimeOfDay
}

// AdminConfig is the account ensured at startup when no admin exists.
type AdminConfig struct {
	Username string
	Password string
}

func Load() (*Config, error) {
	// .env is optional; the process environment wins either way.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:   strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	rateLimit, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "200"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Timezone:           getEnv("APP_TIMEZONE", "Local"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		RateLimitPerMinute: rateLimit,
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	// Attendance rules
	cutoff, err := getTimeOfDay("ATTENDANCE_ABSENCE_CUTOFF", attendance.DefaultSettings.AbsenceCutoff)
	if err != nil {
		return nil, err
	}

	minHours, err := strconv.Atoi(getEnv("ATTENDANCE_MIN_WORK_HOURS", strconv.Itoa(attendance.DefaultSettings.MinWorkHours)))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_MIN_WORK_HOURS: %w", err)
	}

	config.Attendance = AttendanceConfig{
		AbsenceCutoff: cutoff,
		MinWorkHours:  minHours,
	}

	// Scheduler configuration
	absentTime, err := getTimeOfDay("SCHEDULER_ABSENT_TIME", attendance.NewTimeOfDay(17, 0, 0))
	if err != nil {
		return nil, err
	}

	reportTime, err := getTimeOfDay("SCHEDULER_REPORT_TIME", attendance.NewTimeOfDay(23, 59, 0))
	if err != nil {
		return nil, err
	}

	config.Scheduler = SchedulerConfig{
		Enabled:      getBool("SCHEDULER_ENABLED", true),
		PollInterval: getDuration("SCHEDULER_POLL_INTERVAL", 30*time.Second),
		AbsentTime:   absentTime,
		ReportTime:   reportTime,
	}

	config.Admin = AdminConfig{
		Username: getEnv("DEFAULT_ADMIN_USERNAME", "admin"),
		Password: getEnv("DEFAULT_ADMIN_PASSWORD", ""),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q", DriverPostgres, DriverMemory)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Attendance.MinWorkHours < 0 || c.Attendance.MinWorkHours > 24 {
		return fmt.Errorf("ATTENDANCE_MIN_WORK_HOURS must be between 0 and 24")
	}
	if c.Scheduler.PollInterval <= 0 {
		return fmt.Errorf("SCHEDULER_POLL_INTERVAL must be positive")
	}
	if c.App.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location is the wall-clock zone used for "today" and for every schedule.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.Timezone)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		// Support seconds as integer without suffix.
		if secs, convErr := strconv.Atoi(val); convErr == nil {
			return time.Duration(secs) * time.Second
		}
		return fallback
	}
	return d
}

func getTimeOfDay(key string, fallback attendance.TimeOfDay) (attendance.TimeOfDay, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	t, err := attendance.ParseTimeOfDay(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return t, nil
}
