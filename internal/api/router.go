package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/marketplace-api/marketplace/internal/api/handler"
	"github.com/marketplace-api/marketplace/internal/api/middleware"
	"github.com/marketplace-api/marketplace/internal/core/domain"
	"github.com/marketplace-api/marketplace/internal/core/ports"
)

// Dependencies holds everything the router needs; it is built once in main.
type Dependencies struct {
	Log    zerolog.Logger
	Tokens middleware.TokenValidator

	Accounts      ports.AccountService
	Cards         ports.CardService
	Publications  ports.PublicationService
	Photos        ports.PhotoService
	Cart          ports.CartService
	Transactions  ports.TransactionService
	Notifications ports.NotificationService
	Visits        ports.VisitService
	Catalog       ports.CatalogService

	// VisitTracker receives publication views from authenticated readers.
	// Nil disables history recording on reads.
	VisitTracker handler.VisitTracker

	// Health maps dependency names to readiness checks.
	Health map[string]handler.Check

	CORSOrigins   []string
	EnableSwagger bool
	// EnableMetrics registers the echoprometheus middleware and /metrics.
	EnableMetrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	if d.EnableMetrics {
		e.Use(echoprometheus.NewMiddleware("marketplace"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Health checks (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewHealthDependenciesHandler(d.Health).Readiness)

	if d.EnableSwagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	auth := middleware.Auth(d.Tokens)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	api := e.Group("/api")

	// --- Accounts ---
	accounts := handler.NewAccountHandler(d.Accounts)
	acc := api.Group("/account")
	acc.POST("/register", accounts.Register)
	acc.POST("/login", accounts.Login)
	acc.GET("/me", accounts.Me, auth)
	acc.PUT("/update", accounts.Update, auth)
	acc.GET("/users", accounts.ListUsers, auth, adminOnly)
	acc.GET("/roles", accounts.ListRoles, auth, adminOnly)
	acc.POST("/role", accounts.CreateRole, auth, adminOnly)
	acc.POST("/assign-role", accounts.AssignRole, auth, adminOnly)
	acc.GET("/users/:id/roles", accounts.UserRoles, auth, middleware.RBAC(domain.RoleAdmin, domain.RoleUser))

	// --- Cards ---
	cards := handler.NewCardHandler(d.Cards)
	cg := api.Group("/cards", auth)
	cg.GET("", cards.List)
	cg.POST("", cards.Create)
	cg.GET("/:id", cards.Get)
	cg.PUT("/:id", cards.Update)
	cg.DELETE("/:id", cards.Delete)

	// --- Publications ---
	pubs := handler.NewPublicationHandler(d.Publications, d.VisitTracker)
	pg := api.Group("/publications")
	pg.GET("", pubs.List)
	pg.GET("/by-category", pubs.ByCategory)
	pg.GET("/mine", pubs.Mine, auth)
	pg.GET("/:id", pubs.Get, middleware.OptionalAuth(d.Tokens))
	pg.POST("", pubs.Create, auth)
	pg.PUT("/:id", pubs.Update, auth)
	pg.DELETE("/:id", pubs.Delete, auth)

	// --- Photos ---
	photos := handler.NewPhotoHandler(d.Photos)
	phg := api.Group("/photos", auth)
	phg.GET("", photos.List)
	phg.POST("", photos.Create)
	phg.GET("/:id", photos.Get)
	phg.DELETE("/:id", photos.Delete)
	pg.GET("/:id/photos", photos.ListForPublication)
	pg.POST("/:id/photos", photos.Attach, auth)
	pg.DELETE("/:id/photos/:photoId", photos.Detach, auth)

	// --- Shopping cart ---
	cart := handler.NewCartHandler(d.Cart)
	sc := api.Group("/cart", auth)
	sc.GET("", cart.List)
	sc.POST("", cart.Add)
	sc.DELETE("", cart.Clear)
	sc.PUT("/:id", cart.Update)
	sc.DELETE("/:id", cart.Remove)

	// --- Transactions ---
	txs := handler.NewTransactionHandler(d.Transactions)
	tg := api.Group("/transactions", auth)
	tg.GET("", txs.List)
	tg.POST("", txs.Create)
	tg.GET("/:id", txs.Get)
	tg.PUT("/:id", txs.Update)
	tg.DELETE("/:id", txs.Delete)

	// --- Notifications ---
	notes := handler.NewNotificationHandler(d.Notifications)
	ng := api.Group("/notifications", auth)
	ng.GET("", notes.List)
	ng.POST("", notes.Create, adminOnly)
	ng.GET("/:id", notes.Get)
	ng.PUT("/:id", notes.Update, adminOnly)
	ng.DELETE("/:id", notes.Delete)

	// --- Visit history ---
	visits := handler.NewVisitHandler(d.Visits)
	hg := api.Group("/history", auth)
	hg.GET("", visits.List)
	hg.POST("", visits.Record)
	hg.GET("/:id", visits.Get)
	hg.DELETE("/:id", visits.Delete)

	// --- Catalogs ---
	catalog := handler.NewCatalogHandler(d.Catalog)
	api.GET("/catalog/:kind", catalog.List)
	api.POST("/catalog/:kind", catalog.Create, auth, adminOnly)

	return e
}

// requestLogger logs one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= http.StatusInternalServerError {
				evt = log.Error().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
