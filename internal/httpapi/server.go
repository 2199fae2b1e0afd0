package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"voucherbot/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger checks the database connection
type Pinger interface {
	PingContext(ctx context.Context) error
}

// StatsCollector gathers ledger statistics
type StatsCollector interface {
	Collect(ctx context.Context) (domain.Stats, error)
}

type statsResponse struct {
	Chats      int        `json:"chats"`
	Vouchers   int        `json:"vouchers"`
	TotalValue int        `json:"total_value"`
	LastSale   *time.Time `json:"last_sale"`
}

// NewRouter builds the ops endpoints
func NewRouter(db Pinger, stats StatsCollector, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logger.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/stats", func(c *gin.Context) {
		s, err := stats.Collect(c.Request.Context())
		if err != nil {
			logger.Error("Failed to collect statistics", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "statistics unavailable"})
			return
		}
		c.JSON(http.StatusOK, statsResponse{
			Chats:      s.Chats,
			Vouchers:   s.Vouchers,
			TotalValue: s.TotalValue,
			LastSale:   s.LastSale,
		})
	})

	return r
}

// Server runs the ops endpoint next to the bot
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

// NewServer creates a server listening on addr
func NewServer(addr string, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start serves in the background
func (s *Server) Start() {
	go func() {
		s.logger.Info("Ops endpoint listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Ops endpoint stopped", zap.Error(err))
		}
	}()
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
