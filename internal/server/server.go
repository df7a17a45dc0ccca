package server

import (
	"log/slog"
	"net/http"

	"github.com/agenthands/causalgraph/internal/core"
	"github.com/agenthands/causalgraph/internal/metrics"
	"github.com/agenthands/causalgraph/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/agenthands/causalgraph/internal/server"

// Server exposes the validator over HTTP. Validation endpoints never write;
// only the commit endpoint goes through the Committer.
type Server struct {
	Validator *core.Validator
	Store     store.LinkStore
	Committer *store.Committer
	Metrics   *metrics.Recorder

	gatherer prometheus.Gatherer
	tracer   trace.Tracer
	log      *slog.Logger
}

type Options struct {
	// Registry receives the server metrics and backs GET /metrics.
	Registry *prometheus.Registry
	// Tracer defaults to the global otel tracer provider.
	Tracer trace.Tracer
	Logger *slog.Logger
}

func NewServer(v *core.Validator, s store.LinkStore, opts Options) *Server {
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Server{
		Validator: v,
		Store:     s,
		Committer: store.NewCommitter(s, v, opts.Logger),
		Metrics:   metrics.NewRecorder(opts.Registry),
		gatherer:  opts.Registry,
		tracer:    opts.Tracer,
		log:       opts.Logger,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(s.log))

	r.GET("/health", s.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api/v1")
	api.POST("/links/validate", s.ValidateLink)
	api.POST("/links", s.CommitLink)
	api.POST("/bio-evolution/validate", s.ValidateBioEvolution)
	api.POST("/human-legacy/validate", s.ValidateHumanLegacy)
	api.POST("/checkpoint/requirement", s.CheckpointRequirement)
	api.GET("/dates/parse", s.ParseDate)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
