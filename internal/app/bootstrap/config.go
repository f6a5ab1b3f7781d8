// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// minSessionKeyLen is the shortest session signing key accepted in prod.
const minSessionKeyLen = 32

// appConfigKeys defines the configuration keys for the approval service.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: sqlite_path, mongo_uri, session_name, etc.
//   - Environment variables: FACETOFACE_SQLITE_PATH, FACETOFACE_MONGO_URI, etc.
//   - Command-line flags: --sqlite_path, --mongo_uri, etc.
var appConfigKeys = []config.AppKey{
	{Name: "sqlite_path", Default: "./data/facetoface.db", Desc: "SQLite database file for sessions, signups and users"},
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI for the audit trail (blank disables audit persistence)"},
	{Name: "mongo_database", Default: "facetoface", Desc: "MongoDB database name"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "facetoface-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime (e.g., 8h, 24h)"},

	// Email/SMTP configuration
	{Name: "mail_enabled", Default: false, Desc: "Send booking notices over SMTP (false logs them instead)"},
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@example.org", Desc: "From email address"},
	{Name: "mail_from_name", Default: "Face-to-face", Desc: "From display name"},

	{Name: "site_name", Default: "Face-to-face", Desc: "Site name shown in page titles and e-mails"},
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for links in e-mails"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_facetoface", Default: "all", Desc: "Approval event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, FACETOFACE_* for app) and
// command-line flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "FACETOFACE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		SQLitePath:    appValues.String("sqlite_path"),
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),
		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		// Email/SMTP
		MailEnabled:  appValues.Bool("mail_enabled"),
		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		SiteName: appValues.String("site_name"),
		BaseURL:  appValues.String("base_url"),

		// Audit logging
		AuditLogAuth:       appValues.String("audit_log_auth"),
		AuditLogFacetoface: appValues.String("audit_log_facetoface"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if strings.TrimSpace(appCfg.SQLitePath) == "" {
		return fmt.Errorf("sqlite_path must be set")
	}

	if appCfg.MongoURI != "" {
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if appCfg.MongoDatabase == "" {
			return fmt.Errorf("mongo_database must be set when mongo_uri is set")
		}
	}

	if appCfg.SessionKey == "" {
		return fmt.Errorf("session_key must be set")
	}
	if coreCfg != nil && coreCfg.Env == "prod" && len(appCfg.SessionKey) < minSessionKeyLen {
		return fmt.Errorf("session_key must be at least %d characters in prod", minSessionKeyLen)
	}

	for name, mode := range map[string]string{
		"audit_log_auth":       appCfg.AuditLogAuth,
		"audit_log_facetoface": appCfg.AuditLogFacetoface,
	} {
		switch mode {
		case "all", "db", "log", "off":
		default:
			return fmt.Errorf("%s must be one of all, db, log, off (got %q)", name, mode)
		}
	}

	if appCfg.MailEnabled && appCfg.MailSMTPHost == "" {
		return fmt.Errorf("mail_smtp_host must be set when mail_enabled is true")
	}

	return nil
}
