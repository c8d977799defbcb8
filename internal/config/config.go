package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	ProjectID      string
	Port           string
	AllowedOrigins []string
	StorageBucket  string

	// AppEnv selects the geofence radius policy: development uses the wide
	// testing radius, production the strict one.
	AppEnv string

	SignedURLServiceAccountEmail string
}

func Load() Config {
	// Optional .env for local development; ignored when absent.
	_ = godotenv.Load()

	// FIREBASE_PROJECT_ID or GOOGLE_CLOUD_PROJECT
	projectID := getenv("FIREBASE_PROJECT_ID", "")
	if projectID == "" {
		projectID = getenv("GOOGLE_CLOUD_PROJECT", "")
	}

	port := getenv("PORT", "8080")
	origins := getenv("ALLOWED_ORIGINS", "http://localhost:3000")
	storageBucket := getenv("FIREBASE_STORAGE_BUCKET", "")
	if storageBucket == "" && projectID != "" {
		storageBucket = projectID + ".appspot.com"
	}

	appEnv := strings.ToLower(getenv("APP_ENV", EnvDevelopment))
	if appEnv != EnvProduction {
		appEnv = EnvDevelopment
	}

	signedURLServiceAccountEmail := getenv("SIGNED_URL_SERVICE_ACCOUNT_EMAIL", "")

	allowed := []string{}
	for _, o := range strings.Split(origins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			allowed = append(allowed, o)
		}
	}

	return Config{
		ProjectID:                    projectID,
		Port:                         port,
		AllowedOrigins:               allowed,
		StorageBucket:                storageBucket,
		AppEnv:                       appEnv,
		SignedURLServiceAccountEmail: signedURLServiceAccountEmail,
	}
}

// IsProduction reports whether the strict production policies apply.
func (c Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
