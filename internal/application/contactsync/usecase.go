package contactsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/contact-sync/internal/application/dto"
	"github.com/jhoicas/contact-sync/internal/domain"
	"github.com/jhoicas/contact-sync/internal/domain/entity"
	"github.com/jhoicas/contact-sync/internal/domain/repository"
)

// RunOptions opciones de una corrida.
type RunOptions struct {
	DryRun bool
}

// SyncUseCase orquesta la corrida completa:
//
//	Octadesk (GET contactos) → validación CPF/CNPJ → Omie (ListarClientes → merge → AlterarCliente)
//
// Los contactos se procesan uno a la vez. Un *domain.UpstreamError detiene la corrida y lo ya
// escrito en Omie no se revierte.
type SyncUseCase struct {
	source     ContactSource
	validator  *Validator
	reconciler *Reconciler
	runs       repository.SyncRunRepository // nil = auditoría deshabilitada
	log        zerolog.Logger

	mu  sync.Mutex
	now func() time.Time
}

// NewSyncUseCase construye el caso de uso. runs puede ser nil.
func NewSyncUseCase(
	source ContactSource,
	validator *Validator,
	reconciler *Reconciler,
	runs repository.SyncRunRepository,
	log zerolog.Logger,
) *SyncUseCase {
	return &SyncUseCase{
		source:     source,
		validator:  validator,
		reconciler: reconciler,
		runs:       runs,
		log:        log,
		now:        time.Now,
	}
}

// Run ejecuta una pasada. Con error fatal devuelve también el reporte parcial (estado failed).
// Si ya hay una corrida en curso en este proceso devuelve domain.ErrConflict.
func (uc *SyncUseCase) Run(ctx context.Context, opts RunOptions) (*dto.SyncReport, error) {
	if !uc.mu.TryLock() {
		return nil, domain.ErrConflict
	}
	defer uc.mu.Unlock()

	run := &entity.SyncRun{
		ID:        uuid.NewString(),
		StartedAt: uc.now(),
		Status:    entity.SyncRunStatusRunning,
		DryRun:    opts.DryRun,
	}
	log := uc.log.With().Str("run_id", run.ID).Logger()
	log.Info().Bool("dry_run", opts.DryRun).Msg("iniciando sincronización Octadesk → Omie")
	uc.record(ctx, log, func(ctx context.Context) error { return uc.runs.CreateRun(ctx, run) })

	contacts, err := uc.source.ListContacts(ctx)
	if err != nil {
		return uc.finish(ctx, log, run, fmt.Errorf("obtener contactos: %w", err))
	}
	run.Fetched = len(contacts)
	log.Info().Int("contacts", run.Fetched).Msg("contactos obtenidos de Octadesk")

	for _, contact := range contacts {
		if contact == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return uc.finish(ctx, log, run, err)
		}

		if err := uc.validator.Validate(contact); err != nil {
			if !errors.Is(err, domain.ErrValidation) {
				return uc.finish(ctx, log, run, err)
			}
			log.Warn().Str("contact_id", contact.ID).Err(err).Msg("sincronización ignorada")
			run.Rejected++
			uc.addEvent(ctx, log, run, &entity.SyncEvent{
				ContactID: contact.ID,
				Outcome:   entity.OutcomeRejected,
				Reason:    err.Error(),
			})
			continue
		}

		res, err := uc.reconciler.Reconcile(ctx, contact, opts.DryRun)
		if err != nil {
			return uc.finish(ctx, log, run, err)
		}
		switch res.Outcome {
		case entity.OutcomeNotFound:
			run.NotFound++
		case entity.OutcomeUpdated:
			run.Updated++
		case entity.OutcomeSkipped:
			run.Skipped++
		}
		uc.addEvent(ctx, log, run, &entity.SyncEvent{
			ContactID:       contact.ID,
			IntegrationCode: res.IntegrationCode,
			Outcome:         res.Outcome,
			Reason:          res.Reason,
			Changes:         res.Changes,
		})
	}

	return uc.finish(ctx, log, run, nil)
}

// finish cierra la corrida, la persiste (si hay auditoría) y registra el resumen.
func (uc *SyncUseCase) finish(ctx context.Context, log zerolog.Logger, run *entity.SyncRun, runErr error) (*dto.SyncReport, error) {
	finished := uc.now()
	run.FinishedAt = &finished
	run.Status = entity.SyncRunStatusSucceeded
	if runErr != nil {
		run.Status = entity.SyncRunStatusFailed
		run.Error = runErr.Error()
	}
	uc.record(ctx, log, func(ctx context.Context) error { return uc.runs.FinishRun(ctx, run) })

	ev := log.Info()
	if runErr != nil {
		ev = log.Error().Err(runErr)
	}
	ev.Int("fetched", run.Fetched).
		Int("rejected", run.Rejected).
		Int("not_found", run.NotFound).
		Int("updated", run.Updated).
		Int("skipped", run.Skipped).
		Dur("elapsed", finished.Sub(run.StartedAt)).
		Msg("sincronización finalizada")

	return runToReport(run), runErr
}

func (uc *SyncUseCase) addEvent(ctx context.Context, log zerolog.Logger, run *entity.SyncRun, ev *entity.SyncEvent) {
	ev.RunID = run.ID
	ev.CreatedAt = uc.now()
	uc.record(ctx, log, func(ctx context.Context) error { return uc.runs.AddEvent(ctx, ev) })
}

// record ejecuta una escritura de auditoría. Sus fallos se registran pero no abortan la corrida,
// y se ejecuta aunque ctx ya esté cancelado para no perder el cierre de la corrida.
func (uc *SyncUseCase) record(ctx context.Context, log zerolog.Logger, fn func(context.Context) error) {
	if uc.runs == nil {
		return
	}
	if err := fn(context.WithoutCancel(ctx)); err != nil {
		log.Warn().Err(err).Msg("auditoría de sincronización")
	}
}

// ListRuns historial de corridas.
func (uc *SyncUseCase) ListRuns(ctx context.Context, limit, offset int) (*dto.SyncRunListResponse, error) {
	if uc.runs == nil {
		return nil, domain.ErrAuditDisabled
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.runs.ListRuns(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SyncReport, 0, len(list))
	for _, r := range list {
		items = append(items, *runToReport(r))
	}
	return &dto.SyncRunListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// GetRun devuelve la corrida con sus eventos, o nil, nil si no existe.
func (uc *SyncUseCase) GetRun(ctx context.Context, id string) (*dto.SyncRunDetailResponse, error) {
	if uc.runs == nil {
		return nil, domain.ErrAuditDisabled
	}
	run, err := uc.runs.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, nil
	}
	events, err := uc.runs.ListEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &dto.SyncRunDetailResponse{
		SyncReport: *runToReport(run),
		Events:     make([]dto.SyncEventResponse, 0, len(events)),
	}
	for _, e := range events {
		out.Events = append(out.Events, dto.SyncEventResponse{
			ContactID:       e.ContactID,
			IntegrationCode: e.IntegrationCode,
			Outcome:         e.Outcome,
			Reason:          e.Reason,
			Changes:         e.Changes,
			CreatedAt:       e.CreatedAt,
		})
	}
	return out, nil
}

func runToReport(r *entity.SyncRun) *dto.SyncReport {
	return &dto.SyncReport{
		RunID:      r.ID,
		Status:     r.Status,
		DryRun:     r.DryRun,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Fetched:    r.Fetched,
		Rejected:   r.Rejected,
		NotFound:   r.NotFound,
		Updated:    r.Updated,
		Skipped:    r.Skipped,
		Error:      r.Error,
	}
}
