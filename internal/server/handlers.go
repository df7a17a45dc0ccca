package server

import (
	"net/http"
	"time"

	"github.com/agenthands/causalgraph/internal/core"
	"github.com/agenthands/causalgraph/internal/core/model"
	"github.com/agenthands/causalgraph/internal/core/temporal"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	opValidateLink = "validate_link"
	opCommitLink   = "commit_link"
	opBioEvolution = "validate_bio_evolution"
	opHumanLegacy  = "validate_human_legacy"
)

type LinkRequest struct {
	Trigger model.NodeRef `json:"trigger"`
	Result  model.NodeRef `json:"result"`
	// ExistingLinks replaces the stored snapshot when present. Omit it to
	// validate against the store.
	ExistingLinks []model.Link `json:"existing_links"`
	ApprovalToken string       `json:"approval_token"`
}

type BioEvolutionRequest struct {
	Record        model.BioEvolutionRecord `json:"record"`
	ApprovalToken string                   `json:"approval_token"`
}

type HumanLegacyRequest struct {
	Record        model.HumanLegacyRecord `json:"record"`
	ApprovalToken string                  `json:"approval_token"`
}

type CheckpointRequest struct {
	Kind   string         `json:"kind" binding:"required"`
	Fields map[string]any `json:"fields"`
}

// verdictStatus maps a verdict to its HTTP status: hard errors are 422 and a
// pending checkpoint is 423.
func verdictStatus(v model.Verdict) int {
	switch {
	case !v.IsValid:
		return http.StatusUnprocessableEntity
	case v.RequiresCheckpoint:
		return http.StatusLocked
	default:
		return http.StatusOK
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "request_id": c.GetString("request_id")})
}

func (s *Server) bindLink(c *gin.Context) (LinkRequest, bool) {
	var req LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return req, false
	}
	if req.Trigger.ID == "" || req.Result.ID == "" {
		badRequest(c, "trigger.id and result.id are required")
		return req, false
	}
	return req, true
}

func (s *Server) observe(span trace.Span, op string, v model.Verdict, start time.Time) {
	s.Metrics.ObserveVerdict(op, v, time.Since(start))
	if core.CycleSearchTruncated(v) {
		s.Metrics.CycleSearchTruncated()
	}
	span.SetAttributes(
		attribute.Bool("verdict.valid", v.IsValid),
		attribute.Bool("verdict.requires_checkpoint", v.RequiresCheckpoint),
		attribute.Int("verdict.errors", len(v.Errors)),
		attribute.Int("verdict.warnings", len(v.Warnings)),
	)
}

func (s *Server) ValidateLink(c *gin.Context) {
	req, ok := s.bindLink(c)
	if !ok {
		return
	}

	ctx, span := s.tracer.Start(c.Request.Context(), "ValidateLink", trace.WithAttributes(
		attribute.String("link.trigger_id", req.Trigger.ID),
		attribute.String("link.result_id", req.Result.ID),
	))
	defer span.End()

	existing := req.ExistingLinks
	if existing == nil {
		links, err := s.Store.Links(ctx)
		if err != nil {
			s.log.Error("failed to load link snapshot", "request_id", c.GetString("request_id"), "error", err)
			span.SetStatus(codes.Error, err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load link snapshot"})
			return
		}
		existing = links
	}

	start := time.Now()
	verdict := s.Validator.ValidateNewLink(req.Trigger, req.Result, existing, req.ApprovalToken)
	s.observe(span, opValidateLink, verdict, start)

	c.JSON(verdictStatus(verdict), verdict)
}

func (s *Server) CommitLink(c *gin.Context) {
	req, ok := s.bindLink(c)
	if !ok {
		return
	}

	ctx, span := s.tracer.Start(c.Request.Context(), "CommitLink", trace.WithAttributes(
		attribute.String("link.trigger_id", req.Trigger.ID),
		attribute.String("link.result_id", req.Result.ID),
	))
	defer span.End()

	start := time.Now()
	verdict, rec, err := s.Committer.Commit(ctx, req.Trigger, req.Result, req.ApprovalToken)
	if err != nil {
		s.log.Error("failed to commit link", "request_id", c.GetString("request_id"), "error", err)
		span.SetStatus(codes.Error, err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit link"})
		return
	}
	s.observe(span, opCommitLink, verdict, start)

	if rec == nil {
		c.JSON(verdictStatus(verdict), gin.H{"verdict": verdict})
		return
	}
	span.SetAttributes(attribute.String("link.uuid", rec.UUID))
	c.JSON(http.StatusCreated, gin.H{"verdict": verdict, "record": rec})
}

func (s *Server) ValidateBioEvolution(c *gin.Context) {
	var req BioEvolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	_, span := s.tracer.Start(c.Request.Context(), "ValidateBioEvolution",
		trace.WithAttributes(attribute.String("record.name", req.Record.Name)))
	defer span.End()

	start := time.Now()
	verdict := s.Validator.ValidateBioEvolution(req.Record, req.ApprovalToken)
	s.observe(span, opBioEvolution, verdict, start)

	c.JSON(verdictStatus(verdict), verdict)
}

func (s *Server) ValidateHumanLegacy(c *gin.Context) {
	var req HumanLegacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	_, span := s.tracer.Start(c.Request.Context(), "ValidateHumanLegacy",
		trace.WithAttributes(attribute.String("record.name", req.Record.Name)))
	defer span.End()

	start := time.Now()
	verdict := s.Validator.ValidateHumanLegacy(req.Record, req.ApprovalToken)
	s.observe(span, opHumanLegacy, verdict, start)

	c.JSON(verdictStatus(verdict), verdict)
}

func (s *Server) CheckpointRequirement(c *gin.Context) {
	var req CheckpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	required, reason := s.Validator.RequiresCheckpoint(req.Kind, req.Fields)
	c.JSON(http.StatusOK, gin.H{"kind": req.Kind, "required": required, "reason": reason})
}

func (s *Server) ParseDate(c *gin.Context) {
	text, ok := c.GetQuery("text")
	if !ok {
		badRequest(c, "text query parameter is required")
		return
	}

	year, ok := temporal.ParseDateToInt(text)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"text": text, "ok": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text, "ok": true, "year": year, "display": temporal.FormatYear(year)})
}
