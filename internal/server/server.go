package server

import (
	"context"
	"net/http"
	"time"

	"github.com/brokerbase/polisdesk/internal/audit"
	auditdomain "github.com/brokerbase/polisdesk/internal/audit/domain"
	"github.com/brokerbase/polisdesk/internal/auth"
	authdomain "github.com/brokerbase/polisdesk/internal/auth/domain"
	"github.com/brokerbase/polisdesk/internal/blob"
	"github.com/brokerbase/polisdesk/internal/clock"
	"github.com/brokerbase/polisdesk/internal/company"
	companydomain "github.com/brokerbase/polisdesk/internal/company/domain"
	"github.com/brokerbase/polisdesk/internal/config"
	"github.com/brokerbase/polisdesk/internal/customer"
	customerdomain "github.com/brokerbase/polisdesk/internal/customer/domain"
	"github.com/brokerbase/polisdesk/internal/observability"
	obsmiddleware "github.com/brokerbase/polisdesk/internal/observability/logger"
	obsmetrics "github.com/brokerbase/polisdesk/internal/observability/metrics"
	obstracing "github.com/brokerbase/polisdesk/internal/observability/tracing"
	"github.com/brokerbase/polisdesk/internal/property"
	propertydomain "github.com/brokerbase/polisdesk/internal/property/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	audit.Module,
	auth.Module,
	company.Module,
	customer.Module,
	property.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	log         *zap.Logger
	authSvc     authdomain.Service
	customerSvc customerdomain.Service
	propertySvc propertydomain.Service
	companySvc  companydomain.Service
	auditSvc    auditdomain.Service
	blobStore   blob.Store
	clk         clock.Clock
	obsMetrics  *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	AuthSvc     authdomain.Service
	CustomerSvc customerdomain.Service
	PropertySvc propertydomain.Service
	CompanySvc  companydomain.Service
	AuditSvc    auditdomain.Service
	BlobStore   blob.Store
	Clock       clock.Clock
	ObsMetrics  *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("server"),
		authSvc:     p.AuthSvc,
		customerSvc: p.CustomerSvc,
		propertySvc: p.PropertySvc,
		companySvc:  p.CompanySvc,
		auditSvc:    p.AuditSvc,
		blobStore:   p.BlobStore,
		clk:         p.Clock,
		obsMetrics:  p.ObsMetrics,
	}

	s.registerUserRoutes()
	s.registerCustomerRoutes()
	s.registerPropertyRoutes()
	s.registerCompanyRoutes()
	s.registerAuditRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerUserRoutes() {
	users := s.engine.Group("/api/users")

	users.POST("/signup", s.SignUp)
	users.POST("/login", s.Login)
	users.GET("/profile", s.AuthRequired(), s.GetProfile)
	users.PUT("/profile", s.AuthRequired(), s.UpdateProfile)
	users.PUT("/change-password", s.AuthRequired(), s.ChangePassword)
}

// Record routes belong to tenants. Admin accounts have no record tree
// of their own and are kept out on purpose.
func (s *Server) registerCustomerRoutes() {
	customers := s.engine.Group("/api/customers")
	customers.Use(s.AuthRequired())
	customers.Use(s.RequireRole(authdomain.RoleUser, authdomain.RolePaidUser))

	// Static segments before /:id so gin matches them first.
	customers.GET("/search", s.SearchCustomers)
	customers.GET("/stats", s.GetCustomerStats)
	customers.GET("/check-expired", s.CheckExpiredCustomers)

	customers.GET("", s.ListCustomers)
	customers.POST("", s.CreateCustomer)
	customers.GET("/:id", s.GetCustomerByID)
	customers.PUT("/:id", s.UpdateCustomer)
	customers.DELETE("/:id", s.DeleteCustomer)

	customers.POST("/:id/upload-photos", s.UploadCarPhotos)
	customers.POST("/:id/upload-ktp", s.UploadKtpPhoto)
	customers.POST("/:id/upload-documents", s.UploadCustomerDocuments)
}

func (s *Server) registerPropertyRoutes() {
	properties := s.engine.Group("/api/properties")
	properties.Use(s.AuthRequired())
	properties.Use(s.RequireRole(authdomain.RoleUser, authdomain.RolePaidUser))

	properties.GET("/search", s.SearchProperties)
	properties.GET("/stats", s.GetPropertyStats)
	properties.GET("/check-expired", s.CheckExpiredProperties)
	properties.GET("/status/:status", s.GetPropertiesByStatus)

	properties.GET("", s.ListProperties)
	properties.POST("", s.CreateProperty)
	properties.GET("/:id", s.GetPropertyByID)
	properties.PUT("/:id", s.UpdateProperty)
	properties.DELETE("/:id", s.DeleteProperty)

	properties.POST("/:id/upload-photos", s.UploadPropertyPhotos)
	properties.POST("/:id/upload-documents", s.UploadPropertyDocuments)
}

func (s *Server) registerCompanyRoutes() {
	companies := s.engine.Group("/api/company")
	companies.Use(s.AuthRequired())
	companies.Use(s.RequireRole(authdomain.RoleUser, authdomain.RolePaidUser))

	companies.POST("/profile", s.CreateCompanyProfile)
	companies.GET("/profile", s.GetCompanyProfile)
	companies.PUT("/profile", s.UpdateCompanyProfile)
	companies.POST("/logo", s.UploadCompanyLogo)
	companies.DELETE("/logo", s.DeleteCompanyLogo)
}

// Audit history is tenant-scoped: every account lists only its own
// actions.
func (s *Server) registerAuditRoutes() {
	s.engine.GET("/api/audit-logs", s.AuthRequired(), s.ListAuditLogs)
}
