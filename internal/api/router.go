package api

import (
	"fangemeinschaft/internal/auth"       // Sessions
	"fangemeinschaft/internal/middleware" // Authentication and logging middleware
	"fangemeinschaft/internal/store"      // Data access

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// Deps are the services the HTTP layer needs
type Deps struct {
	Store        *store.Store
	Sessions     *auth.Service
	SecureCookie bool               // Mark the session cookie Secure
	Logger       logrus.FieldLogger // Request log, defaults to the standard logger
}

// NewRouter builds the gin engine with every route. Reads are public, every
// mutation requires a session and user management requires the admin role.
func NewRouter(d Deps) *gin.Engine {
	registerValidators()
	if d.Logger == nil {
		d.Logger = logrus.StandardLogger()
	}
	s := d.Store

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Logger), middleware.Authenticate(d.Sessions))
	r.GET("/health", HealthHandler(s.DB())) // Liveness and database check

	public := r.Group("/api")
	private := r.Group("/api", middleware.RequireAuth())
	admin := r.Group("/api", middleware.RequireAuth(), middleware.AdminOnly(s.DB()))

	// Auth routes
	public.POST("/auth/login", LoginHandler(d.Sessions, d.SecureCookie))
	public.POST("/auth/logout", LogoutHandler(d.SecureCookie))

	// Content routes
	registerResource(public, private, "news", s.News, CreateNewsHandler(s), UpdateNewsHandler(s))
	registerResource(public, private, "matches", s.Matches, CreateMatchHandler(s), UpdateMatchHandler(s))
	registerResource(public, private, "team", s.Players, CreatePlayerHandler(s), UpdatePlayerHandler(s))
	registerResource(public, private, "staff", s.Staff, CreateStaffHandler(s), UpdateStaffHandler(s))
	registerResource(public, private, "fanclubs", s.Fanclubs, CreateFanclubHandler(s), UpdateFanclubHandler(s))

	// Formation routes
	public.GET("/formations/active", ActiveFormationHandler(s))
	private.POST("/formations/activate", ActivateFormationHandler(s))
	private.GET("/formations/:id/editor", FormationEditorHandler(s))
	registerResource(public, private, "formations", s.Formations.Repository, CreateFormationHandler(s), UpdateFormationHandler(s))

	// Next match routes
	public.GET("/next-match", ActiveNextMatchHandler(s))
	public.GET("/next-match/history", NextMatchHistoryHandler(s))
	private.POST("/next-match", SaveNextMatchHandler(s))
	private.POST("/next-match/activate", ActivateNextMatchHandler(s))

	// Settings routes
	public.GET("/settings", GetSettingsHandler(s))
	private.POST("/settings", UpdateSettingsHandler(s))

	// Asset routes
	public.GET("/assets", ListAssetsHandler(s))
	public.GET("/assets/:id", ServeAssetHandler(s))
	private.POST("/assets/upload", UploadAssetHandler(s))
	private.POST("/assets/:id/delete", DeleteHandler(s.Assets, "/admin/assets"))

	// Audit trail
	private.GET("/audit", ListAuditHandler(s))

	// Admin routes (admin only)
	admin.GET("/users", ListHandler(s.Users.Repository))
	admin.POST("/users", CreateUserHandler(s))
	admin.POST("/users/:id", UpdateUserHandler(s))
	admin.POST("/users/:id/delete", DeleteUserHandler(s))
	admin.POST("/users/:id/restore", RestoreHandler(s.Users.Repository, "/admin/users"))
	admin.GET("/admin/metrics", MetricsHandler(s))

	return r
}
