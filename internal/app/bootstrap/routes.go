// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	approvefeature "github.com/dalemusser/facetoface/internal/app/features/approve"
	errorsfeature "github.com/dalemusser/facetoface/internal/app/features/errors"
	healthfeature "github.com/dalemusser/facetoface/internal/app/features/health"
	homefeature "github.com/dalemusser/facetoface/internal/app/features/home"
	loginfeature "github.com/dalemusser/facetoface/internal/app/features/login"
	logoutfeature "github.com/dalemusser/facetoface/internal/app/features/logout"
	"github.com/dalemusser/facetoface/internal/app/policy/approvalpolicy"
	"github.com/dalemusser/facetoface/internal/app/store/audit"
	facetofacestore "github.com/dalemusser/facetoface/internal/app/store/facetoface"
	userstore "github.com/dalemusser/facetoface/internal/app/store/users"
	"github.com/dalemusser/facetoface/internal/app/system/approvals"
	"github.com/dalemusser/facetoface/internal/app/system/auditlog"
	"github.com/dalemusser/facetoface/internal/app/system/auth"
	"github.com/dalemusser/facetoface/internal/app/system/mailer"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It initializes the template engine,
// applies session middleware, builds the approval service with its
// collaborators and mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser fetches fresh user data on each request so suspended
	// accounts lose access immediately.
	users := userstore.New(deps.SQL)
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.SQL))

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)

	var auditStore *audit.Store
	if deps.MongoDatabase != nil {
		auditStore = audit.New(deps.MongoDatabase)
	}
	auditLog := auditlog.New(auditStore, logger, auditlog.Config{
		Auth:       appCfg.AuditLogAuth,
		Facetoface: appCfg.AuditLogFacetoface,
	})

	mailCfg := mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
		SiteName: appCfg.SiteName,
		BaseURL:  appCfg.BaseURL,
	}
	var mail *mailer.Mailer
	if appCfg.MailEnabled {
		mail = mailer.New(mailCfg, logger)
	} else {
		mail = mailer.NewWithSender(mailCfg, mailer.LogSender(logger), logger)
	}

	ffStore := facetofacestore.New(deps.SQL)
	policy := approvalpolicy.New(users)
	approver := approvals.New(ffStore, policy, mailer.NewNotices(mail), logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.SQL, deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	homeHandler := homefeature.NewHandler(ffStore, errLog, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(users, sessionMgr, errLog, auditLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)

	// Session request approval
	approveHandler := approvefeature.NewHandler(ffStore, policy, approver, auditLog, errLog, logger)
	if auditStore != nil {
		approveHandler.History = auditStore
	}
	r.Mount("/facetoface", approvefeature.Routes(approveHandler, sessionMgr))

	return r, nil
}
