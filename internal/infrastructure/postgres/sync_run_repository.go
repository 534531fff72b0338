package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/contact-sync/internal/domain"
	"github.com/jhoicas/contact-sync/internal/domain/entity"
	"github.com/jhoicas/contact-sync/internal/domain/repository"
)

var _ repository.SyncRunRepository = (*SyncRunRepo)(nil)

// SyncRunRepo implementación de SyncRunRepository (usable con pool o tx).
type SyncRunRepo struct {
	q Querier
}

// NewSyncRunRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSyncRunRepository(q Querier) *SyncRunRepo {
	return &SyncRunRepo{q: q}
}

const selectRunColumns = `
	SELECT id, started_at, finished_at, status, dry_run, fetched, rejected, not_found, updated, skipped, error
	FROM sync_runs`

// CreateRun persiste el inicio de una corrida.
func (r *SyncRunRepo) CreateRun(ctx context.Context, run *entity.SyncRun) error {
	query := `
		INSERT INTO sync_runs (id, started_at, finished_at, status, dry_run, fetched, rejected, not_found, updated, skipped, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		run.ID, run.StartedAt, run.FinishedAt, run.Status, run.DryRun,
		run.Fetched, run.Rejected, run.NotFound, run.Updated, run.Skipped, run.Error,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert sync run: %w", err)
	}
	return nil
}

// FinishRun actualiza estado, contadores y error de la corrida.
func (r *SyncRunRepo) FinishRun(ctx context.Context, run *entity.SyncRun) error {
	query := `
		UPDATE sync_runs
		SET finished_at = $2, status = $3, fetched = $4, rejected = $5, not_found = $6,
		    updated = $7, skipped = $8, error = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		run.ID, run.FinishedAt, run.Status, run.Fetched, run.Rejected, run.NotFound,
		run.Updated, run.Skipped, run.Error,
	)
	if err != nil {
		return fmt.Errorf("update sync run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddEvent registra el resultado de un contacto. Asigna ev.ID.
func (r *SyncRunRepo) AddEvent(ctx context.Context, ev *entity.SyncEvent) error {
	changes := ev.Changes
	if changes == nil {
		changes = []string{}
	}
	query := `
		INSERT INTO sync_events (run_id, contact_id, integration_code, outcome, reason, changes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		ev.RunID, ev.ContactID, ev.IntegrationCode, ev.Outcome, ev.Reason, changes, ev.CreatedAt,
	).Scan(&ev.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("sync event de corrida %s: %w", ev.RunID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert sync event: %w", err)
	}
	return nil
}

// GetRun obtiene una corrida por ID. Devuelve nil, nil si no existe o si id no es un UUID.
func (r *SyncRunRepo) GetRun(ctx context.Context, id string) (*entity.SyncRun, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	run, err := scanRun(r.q.QueryRow(ctx, selectRunColumns+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sync run: %w", err)
	}
	return run, nil
}

// ListRuns lista corridas, la más reciente primero.
func (r *SyncRunRepo) ListRuns(ctx context.Context, limit, offset int) ([]*entity.SyncRun, error) {
	rows, err := r.q.Query(ctx, selectRunColumns+` ORDER BY started_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	defer rows.Close()
	var list []*entity.SyncRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sync run: %w", err)
		}
		list = append(list, run)
	}
	return list, rows.Err()
}

// ListEvents lista los eventos de una corrida en orden de registro.
func (r *SyncRunRepo) ListEvents(ctx context.Context, runID string) ([]*entity.SyncEvent, error) {
	query := `
		SELECT id, run_id, contact_id, integration_code, outcome, reason, changes, created_at
		FROM sync_events WHERE run_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list sync events: %w", err)
	}
	defer rows.Close()
	var list []*entity.SyncEvent
	for rows.Next() {
		var e entity.SyncEvent
		if err := rows.Scan(&e.ID, &e.RunID, &e.ContactID, &e.IntegrationCode, &e.Outcome, &e.Reason, &e.Changes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sync event: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

func scanRun(row pgx.Row) (*entity.SyncRun, error) {
	var run entity.SyncRun
	err := row.Scan(
		&run.ID, &run.StartedAt, &run.FinishedAt, &run.Status, &run.DryRun,
		&run.Fetched, &run.Rejected, &run.NotFound, &run.Updated, &run.Skipped, &run.Error,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
