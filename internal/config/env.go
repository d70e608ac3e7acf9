package config

import (
	"fmt"
	"os"
	"strings"
)

type Env struct {
	AppAddr     string
	GinMode     string
	CORSOrigins []string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
}

func LoadEnv() (Env, error) {
	env := Env{
		AppAddr:    getenv("APP_ADDR", ":8080"),
		GinMode:    strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBUser:     strings.TrimSpace(os.Getenv("DB_USER")),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     strings.TrimSpace(os.Getenv("DB_HOST")),
		DBPort:     getenv("DB_PORT", "3306"),
		DBName:     strings.TrimSpace(os.Getenv("DB_NAME")),
	}

	if cors := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); cors != "" {
		for _, o := range strings.Split(cors, ",") {
			if o = strings.TrimSpace(o); o != "" {
				env.CORSOrigins = append(env.CORSOrigins, o)
			}
		}
	}

	if env.DBUser == "" || env.DBHost == "" || env.DBName == "" {
		return env, fmt.Errorf("database environment variables are not fully set (need DB_USER, DB_HOST, DB_NAME)")
	}
	return env, nil
}

// DSN renders the MySQL connection string. The charset/collation parameters
// keep comparisons against accented custom-field values correct.
func (e Env) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci&timeout=5s&readTimeout=30s&writeTimeout=30s",
		e.DBUser, e.DBPassword, e.DBHost, e.DBPort, e.DBName)
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
