package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	OCR       OCRConfig
	ASR       ASRConfig
	Structure StructureConfig
	Translate TranslateConfig
	Ingest    IngestConfig
}

// ServerConfig holds the processing server configuration
type ServerConfig struct {
	Addr string
}

// StoreConfig holds the sqlite job store configuration
type StoreConfig struct {
	Path string
}

// OCRConfig holds PDF extraction / OCR configuration
type OCRConfig struct {
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	DPI           int
}

// ASRConfig holds speech recognition configuration
type ASRConfig struct {
	Endpoint     string
	APIKey       string
	LanguageCode string
	ChunkSeconds int
	Timeout      time.Duration
}

// StructureConfig holds generative structuring configuration
type StructureConfig struct {
	Model       string
	APIKey      string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// TranslateConfig holds translation provider configuration
type TranslateConfig struct {
	BaseURL  string
	APIKey   string
	MaxChars int
	Timeout  time.Duration
}

// IngestConfig holds the drop-folder watcher configuration. An empty Dir
// disables ingestion.
type IngestConfig struct {
	Dir     string
	Workers int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: getEnv("PROC_ADDR", ":8000"),
		},
		Store: StoreConfig{
			Path: getEnv("JOBSTORE_PATH", "data/jobs.db"),
		},
		OCR: OCRConfig{
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng+hin"),
			DPI:           getEnvAsInt("OCR_DPI", 300),
		},
		ASR: ASRConfig{
			Endpoint:     getEnv("SPEECH_ENDPOINT", "https://speech.googleapis.com/v1/speech:recognize"),
			APIKey:       getEnv("SPEECH_API_KEY", ""),
			LanguageCode: getEnv("SPEECH_LANGUAGE", "en-IN"),
			ChunkSeconds: getEnvAsInt("SPEECH_CHUNK_SECONDS", 58),
			Timeout:      getEnvAsDuration("SPEECH_TIMEOUT", 120*time.Second),
		},
		Structure: StructureConfig{
			Model:       getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Temperature: getEnvAsFloat("GEMINI_TEMPERATURE", 0.1),
			MaxTokens:   getEnvAsInt("GEMINI_MAX_TOKENS", 8192),
			Timeout:     getEnvAsDuration("GEMINI_TIMEOUT", 60*time.Second),
		},
		Translate: TranslateConfig{
			BaseURL:  getEnv("LIBRETRANSLATE_URL", "https://libretranslate.com"),
			APIKey:   getEnv("LIBRETRANSLATE_API_KEY", ""),
			MaxChars: getEnvAsInt("TRANSLATE_MAX_CHARS", 4500),
			Timeout:  getEnvAsDuration("TRANSLATE_TIMEOUT", 60*time.Second),
		},
		Ingest: IngestConfig{
			Dir:     getEnv("INGEST_DIR", ""),
			Workers: getEnvAsInt("INGEST_WORKERS", 4),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
