package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	authdomain "github.com/ledgerpad/ledgerpad/internal/auth/domain"
	"github.com/ledgerpad/ledgerpad/internal/clock"
	"github.com/ledgerpad/ledgerpad/internal/config"
	"github.com/ledgerpad/ledgerpad/internal/document"
	"github.com/ledgerpad/ledgerpad/internal/export"
	"github.com/ledgerpad/ledgerpad/internal/observability"
	obsmiddleware "github.com/ledgerpad/ledgerpad/internal/observability/logger"
	obsmetrics "github.com/ledgerpad/ledgerpad/internal/observability/metrics"
	settingsdomain "github.com/ledgerpad/ledgerpad/internal/settings/domain"
	storedomain "github.com/ledgerpad/ledgerpad/internal/store/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug: obsCfg.Debug(),
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
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
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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
	store       storedomain.Service
	settingsSvc settingsdomain.Service
	authSvc     authdomain.Service
	renderer    *document.Renderer
	exporter    *export.Exporter
	clock       clock.Clock
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Store       storedomain.Service
	SettingsSvc settingsdomain.Service
	AuthSvc     authdomain.Service
	Renderer    *document.Renderer
	Exporter    *export.Exporter
	Clock       clock.Clock
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		store:       p.Store,
		settingsSvc: p.SettingsSvc,
		authSvc:     p.AuthSvc,
		renderer:    p.Renderer,
		exporter:    p.Exporter,
		clock:       p.Clock,
	}

	s.registerAuthRoutes()
	s.registerAPIRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.GET("/state", s.AuthState)
	auth.POST("/setup", s.SetupCredentials)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.POST("/change-password", s.AuthRequired(), s.ChangePassword)
	auth.POST("/forgot", s.Forgot)
	auth.POST("/reset", s.ResetPassword)
	auth.GET("/me", s.AuthRequired(), s.Me)
	auth.POST("/wipe", s.AuthRequired(), s.WipeAuth)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.AuthRequired())

	// -------- Clients --------
	api.GET("/clients", s.ListClients)
	api.POST("/clients", s.CreateClient)
	api.GET("/clients/:id", s.GetClientByID)
	api.PATCH("/clients/:id", s.UpdateClient)
	api.DELETE("/clients/:id", s.DeleteClient)
	api.GET("/clients/:id/next-invoice-number", s.NextInvoiceNumber)

	// -------- Invoices --------
	api.GET("/invoices", s.ListInvoices)
	api.POST("/invoices", s.CreateInvoice)
	api.GET("/invoices/counts", s.InvoiceCounts)
	api.GET("/invoices/summary/:year", s.YearlySummary)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.PATCH("/invoices/:id", s.UpdateInvoice)
	api.DELETE("/invoices/:id", s.DeleteInvoice)
	api.POST("/invoices/:id/receipts", s.AddReceipt)
	api.DELETE("/invoices/:id/receipts/:receiptId", s.RemoveReceipt)

	// -------- Documents / exports --------
	api.GET("/invoices/:id/document", s.PreviewDocument)
	api.POST("/invoices/:id/export/pdf", s.ExportPDF)
	api.POST("/invoices/:id/export/email", s.EmailInvoice)
	api.POST("/exports/csv", s.ExportCSV)

	// -------- Settings --------
	api.GET("/settings", s.GetSettings)
	api.PATCH("/settings", s.UpdateSettings)
	api.DELETE("/settings/logo", s.RemoveLogo)
	api.GET("/settings/notification", s.NotificationState)
	api.POST("/settings/notification/seen", s.NotificationSeen)
}
