package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Storage    StorageConfig
	JWT        JWTConfig
	GigaChat   GigaChatConfig
	Enrichment EnrichmentConfig
	Lifecycle  LifecycleConfig
	Upload     UploadConfig
	Logger     LoggerConfig
}

type LoggerConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	Port         string
	PublicURL    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig selects the metadata store. Driver is "postgres" or "sqlite".
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
}

type StorageConfig struct {
	UploadDir  string
	SigningKey string
	URLTTL     time.Duration
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	RefreshExp time.Duration
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	Model              string
	InsecureSkipVerify bool
}

type EnrichmentConfig struct {
	Workers             int
	QueueSize           int
	Timeout             time.Duration
	SweepInterval       time.Duration
	TranslationLanguage string
	MaxPromptChars      int
}

// LifecycleConfig bounds every call the document service makes to a collaborator.
type LifecycleConfig struct {
	CollaboratorTimeout time.Duration
	StorageRetries      int
	StorageBackoff      time.Duration
}

type UploadConfig struct {
	MaxBytes int64
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work for Docker/K8s
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			PublicURL:    strings.TrimRight(getEnv("SERVER_PUBLIC_URL", "http://localhost:8080"), "/"),
			ReadTimeout:  getSeconds("SERVER_READ_TIMEOUT", 30),
			WriteTimeout: getSeconds("SERVER_WRITE_TIMEOUT", 30),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", "postgres"),
			DBName:     getEnv("DB_NAME", "docportal"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("DB_SQLITE_PATH", "docportal.db"),
		},
		Storage: StorageConfig{
			UploadDir:  getEnv("STORAGE_UPLOAD_DIR", "uploads"),
			SigningKey: getEnv("STORAGE_SIGNING_KEY", "change-me-storage-signing-key"),
			URLTTL:     getMinutes("STORAGE_URL_TTL_MINUTES", 15),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Expiration: getHours("JWT_EXPIRATION_HOURS", 24),
			RefreshExp: getHours("JWT_REFRESH_EXPIRATION_HOURS", 168),
		},
		GigaChat: GigaChatConfig{
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			Model:              getEnv("GIGACHAT_MODEL", "GigaChat"),
			InsecureSkipVerify: getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "true") == "true",
		},
		Enrichment: EnrichmentConfig{
			Workers:             getInt("ENRICH_WORKERS", 2),
			QueueSize:           getInt("ENRICH_QUEUE_SIZE", 64),
			Timeout:             getSeconds("ENRICH_TIMEOUT", 60),
			SweepInterval:       getSeconds("ENRICH_SWEEP_INTERVAL", 120),
			TranslationLanguage: getEnv("ENRICH_TRANSLATION_LANGUAGE", "Malayalam"),
			MaxPromptChars:      getInt("ENRICH_MAX_PROMPT_CHARS", 8000),
		},
		Lifecycle: LifecycleConfig{
			CollaboratorTimeout: getSeconds("COLLABORATOR_TIMEOUT", 10),
			StorageRetries:      getInt("STORAGE_RETRIES", 3),
			StorageBackoff:      time.Duration(getInt("STORAGE_BACKOFF_MS", 200)) * time.Millisecond,
		},
		Upload: UploadConfig{
			MaxBytes: int64(getInt("UPLOAD_MAX_MB", 10)) * 1024 * 1024,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getSeconds(key string, def int) time.Duration {
	return time.Duration(getInt(key, def)) * time.Second
}

func getMinutes(key string, def int) time.Duration {
	return time.Duration(getInt(key, def)) * time.Minute
}

func getHours(key string, def int) time.Duration {
	return time.Duration(getInt(key, def)) * time.Hour
}
