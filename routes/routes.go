package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/JBE10/lifeops/cache"
	"github.com/JBE10/lifeops/config"
	"github.com/JBE10/lifeops/db"
	"github.com/JBE10/lifeops/handlers"
	"github.com/JBE10/lifeops/middleware"
	"github.com/JBE10/lifeops/services"
	"github.com/JBE10/lifeops/utils"
)

// Deps is everything the HTTP layer needs, built once in main.
type Deps struct {
	Config       *config.Config
	Logger       *zap.Logger
	Metrics      *utils.Metrics
	Gatherer     prometheus.Gatherer
	Store        *db.Store
	Cache        cache.Cache
	CacheEnabled bool

	Accounts *services.AccountService
	Habits   *services.HabitService
	Ledger   *services.HabitLedger
	Stats    *services.StatsService
	Journal  *services.JournalService

	Tasks     *services.TaskService
	OKRs      *services.OKRService
	Finance   *services.FinanceService
	Portfolio *services.PortfolioService
	Fitness   *services.FitnessService
}

// Setup builds the engine. Middleware order: recovery, request logging,
// security headers, CORS, then CSRF on the API group when configured.
func Setup(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(d.Logger, d.Metrics))
	r.Use(middleware.RequestLogger(d.Logger, d.Metrics))
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Content-Length", "X-CSRF-Token", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.NewHealthHandler(d.Store, d.Cache, d.CacheEnabled).Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	if d.Config.CSRFKey != "" {
		api.Use(middleware.CSRFProtection([]byte(d.Config.CSRFKey), d.Config.CSRFSecure))
	}

	RegisterAuthRoutes(api, d)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(d.Accounts, d.Logger))
	protected.GET("/profile", handlers.NewAuthHandler(d.Accounts, d.Logger, d.Metrics).Profile)
	RegisterHabitRoutes(protected, d)
	RegisterJournalRoutes(protected, d)
	RegisterTaskRoutes(protected, d)
	RegisterOKRRoutes(protected, d)
	RegisterFinanceRoutes(protected, d)
	RegisterFitnessRoutes(protected, d)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found", "code": handlers.CodeNotFound})
	})

	return r
}
