// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like ports, TLS,
// logging level and request limits. Everything specific to the approval
// service lives here.
type AppConfig struct {
	// Relational store holding sessions, signups, users and capabilities.
	SQLitePath string // Path to the SQLite database file

	// MongoDB holds the audit event trail. A blank URI disables audit
	// persistence; audit events are then only written to the log.
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: facetoface-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Email/SMTP configuration for booking notices
	MailEnabled  bool   // When false notices are logged instead of sent
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address
	MailFromName string // From display name

	// Site identity used in page titles and notice e-mails.
	SiteName string
	BaseURL  string // e.g., "https://training.example.org" or "http://localhost:3000"

	// Audit logging: "all" (db+log), "db", "log", or "off"
	AuditLogAuth       string
	AuditLogFacetoface string
}
