// Package config manages application configuration for the sign-up API.
//
// Configuration is loaded from environment variables with development
// defaults, then validated once at startup:
//
//	cfg, _ := config.Load()
//	if err := cfg.Validate(); err != nil { ... }
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS)
//   - DatabaseConfig: SurrealDB connection settings
//   - JWTConfig: access token validation settings
//   - EmailConfig: SendGrid confirmation and reminder settings
//   - JobsConfig: background job scheduling
//
// # Key Environment Variables
//
//	SERVER_PORT           - HTTP server port (default: 8080)
//	SERVER_ENV            - development, production or test
//	DB_HOST / DB_PORT     - SurrealDB endpoint
//	DB_NAMESPACE / DB_DATABASE
//	JWT_SECRET            - HS256 signing secret (required in production)
//	SENDGRID_API_KEY      - required when EMAIL_ENABLED is true
//	REMINDER_CRON         - reminder scan schedule (default: */15 * * * *)
package config
