// Package config manages application configuration for the Gatherly API.
//
// The config package loads and validates configuration from environment variables.
// All configuration is centralized here to provide a single source of truth.
//
// # Configuration Loading
//
// Configuration is loaded from environment variables:
//
//	cfg, err := config.Load()
//
// # Configuration Groups
//
// Configuration is organized into logical groups:
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - DatabaseConfig: SurrealDB connection settings
//   - AuthConfig: token verification settings
//   - StorageConfig: object storage settings for event images
//   - EmailConfig: RSVP confirmation email settings
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_PORT         - HTTP server port (default: 8080)
//	DB_HOST             - SurrealDB host
//	DB_NAMESPACE        - Database namespace
//	AUTH_JWT_SECRET     - Shared secret for verifying session tokens
//	STORAGE_BASE_URL    - Object storage endpoint
//	STORAGE_BUCKET      - Bucket holding event images
//	RESEND_API_KEY      - API key for outbound email
//
// # Default Values
//
// Sensible defaults are provided for development:
//
//	func getEnv(key, defaultValue string) string {
//	    if value := os.Getenv(key); value != "" {
//	        return value
//	    }
//	    return defaultValue
//	}
package config
