package config

import (
	"os"
	"strconv"

	"github.com/haulworks/gradient-backend-go/internal/gradient"
)

// Config holds the application configuration
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string

	// Analysis defaults, overridable per run request
	DefaultSegmentLength float64 // linear units of the input CRS
	SlopeThreshold       float64 // half-width of the acceptable band
	BufferOffset         float64 // footprint half-width for drawing output
}

// Load reads the configuration from the environment
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/gradient/runs.db"
	}

	return &Config{
		Port:                 port,
		DBPath:               dbPath,
		JWTSecret:            os.Getenv("JWT_SECRET"),
		DefaultSegmentLength: envFloat("DEFAULT_SEGMENT_LENGTH", 25),
		SlopeThreshold:       envFloat("SLOPE_THRESHOLD", gradient.DefaultThreshold),
		BufferOffset:         envFloat("BUFFER_OFFSET", 5),
	}
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
