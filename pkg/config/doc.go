// Package config provides application configuration management from environment variables.
//
// Every setting is read from a PERMS_ prefixed variable and has a default:
//
//	PERMS_HOST="0.0.0.0"
//	PERMS_PORT="8080"
//	PERMS_METRICS_PORT="9090"
//	PERMS_LOG_LEVEL="info"          # trace, debug, info, warn, error
//	PERMS_LOG_FILE=""               # rotate into this file instead of stdout
//	PERMS_FIXTURES_PATH=""          # empty uses the embedded seed data
//	PERMS_WATCH_FIXTURES="false"
//	PERMS_SESSION_CACHE_SIZE="128"
//	PERMS_SESSION_TTL="30m"
//	PERMS_REPORT_SCHEDULE="@every 1m"
//	PERMS_RATE_LIMIT="300"
//	PERMS_RATE_WINDOW="1m"
//	PERMS_ALLOWED_ORIGINS="*"
//
// Load and validate:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
package config
