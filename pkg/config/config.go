package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	DebugMode   bool
	FrontendURL string

	DBDriver     string // "sqlite" or "postgres"
	DatabaseURL  string
	DatabasePath string

	JWTSecret       string
	JWTAccessExpiry time.Duration
	AuthRequired    bool

	GoogleClientID        string
	GoogleClientSecret    string
	GoogleRedirectURI     string
	GoogleCredentialsPath string

	AIProvider    string
	GeminiApiKey  string
	GeminiModel   string
	OllamaBaseURL string
	OllamaModel   string
	OpenAIApiKey  string
	OpenAIModel   string

	CalendarTimeZone string // IANA name, empty means the server's local zone

	// Agent run tuning
	RequestDelay      time.Duration
	FetchDelay        time.Duration
	DefaultMaxEmails  int
	DefaultTimeRange  string
	SchedulerEnabled  bool
	SchedulerInterval time.Duration
	SchedulerWorkers  int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "5000"),
		Environment: getEnv("APP_ENV", "development"),
		DebugMode:   getBool("DEBUG_MODE", false),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		DBDriver:     getEnv("DB_DRIVER", "sqlite"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		DatabasePath: getEnv("DATABASE_PATH", "./database/mail_calendar.db"),

		JWTSecret:       getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry: getDuration("JWT_ACCESS_EXPIRY", 24*time.Hour),
		AuthRequired:    getBool("AUTH_REQUIRED", false),

		GoogleClientID:        getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:    getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:     getEnv("GOOGLE_REDIRECT_URI", "http://localhost:5000/auth/google/callback"),
		GoogleCredentialsPath: getEnv("GOOGLE_CREDENTIALS_PATH", ""),

		AIProvider:    getEnv("AI_PROVIDER", "gemini"),
		GeminiApiKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "llama3"),
		OpenAIApiKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		CalendarTimeZone: getEnv("CALENDAR_TIMEZONE", ""),

		RequestDelay:      getDuration("AGENT_REQUEST_DELAY", 200*time.Millisecond),
		FetchDelay:        getDuration("AGENT_FETCH_DELAY", 100*time.Millisecond),
		DefaultMaxEmails:  getInt("AGENT_DEFAULT_MAX_EMAILS", 10),
		DefaultTimeRange:  getEnv("AGENT_DEFAULT_TIME_RANGE", "1d"),
		SchedulerEnabled:  getBool("AGENT_SCHEDULER_ENABLED", false),
		SchedulerInterval: getDuration("AGENT_SCHEDULER_INTERVAL", 15*time.Minute),
		SchedulerWorkers:  getInt("AGENT_SCHEDULER_WORKERS", 2),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Location resolves CalendarTimeZone, falling back to the local zone when it
// is empty or unknown.
func (c *Config) Location() *time.Location {
	if c.CalendarTimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.CalendarTimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}
