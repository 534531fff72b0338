package http

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/contact-sync/internal/application/contactsync"
	"github.com/jhoicas/contact-sync/internal/application/dto"
	"github.com/jhoicas/contact-sync/internal/domain"
)

// syncRunner es el contrato que necesita el handler. Lo implementa *contactsync.SyncUseCase.
type syncRunner interface {
	Run(ctx context.Context, opts contactsync.RunOptions) (*dto.SyncReport, error)
	ListRuns(ctx context.Context, limit, offset int) (*dto.SyncRunListResponse, error)
	GetRun(ctx context.Context, id string) (*dto.SyncRunDetailResponse, error)
}

var _ syncRunner = (*contactsync.SyncUseCase)(nil)

// SyncHandler dispara corridas y expone su historial (protegido, solo admin).
type SyncHandler struct {
	uc            syncRunner
	defaultDryRun bool
	log           zerolog.Logger
}

// NewSyncHandler construye el handler. defaultDryRun aplica cuando no viene ?dry_run.
func NewSyncHandler(uc syncRunner, defaultDryRun bool, log zerolog.Logger) *SyncHandler {
	return &SyncHandler{uc: uc, defaultDryRun: defaultDryRun, log: log}
}

// Run POST /api/sync/runs?dry_run=true
func (h *SyncHandler) Run(c *fiber.Ctx) error {
	opts := contactsync.RunOptions{DryRun: c.QueryBool("dry_run", h.defaultDryRun)}
	h.log.Info().Str("subject", GetSubject(c)).Bool("dry_run", opts.DryRun).Msg("corrida solicitada por HTTP")

	report, err := h.uc.Run(c.UserContext(), opts)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RUN_IN_PROGRESS", Message: "ya hay una sincronización en curso"})
		case errors.Is(err, domain.ErrUpstream):
			return c.Status(fiber.StatusBadGateway).JSON(dto.SyncFailureResponse{
				ErrorResponse: dto.ErrorResponse{Code: "UPSTREAM_ERROR", Message: err.Error()},
				Report:        report,
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.SyncFailureResponse{
				ErrorResponse: dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()},
				Report:        report,
			})
		}
	}
	return c.JSON(report)
}

// List GET /api/sync/runs?limit=20&offset=0
func (h *SyncHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit > 100 {
		limit = 100
	}
	list, err := h.uc.ListRuns(c.UserContext(), limit, offset)
	if err != nil {
		return auditError(c, err)
	}
	return c.JSON(list)
}

// GetByID GET /api/sync/runs/:id
func (h *SyncHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	run, err := h.uc.GetRun(c.UserContext(), id)
	if err != nil {
		return auditError(c, err)
	}
	if run == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "corrida no encontrada"})
	}
	return c.JSON(run)
}

func auditError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrAuditDisabled) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "AUDIT_DISABLED", Message: "auditoría deshabilitada: configure DATABASE_URL o DB_HOST"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
