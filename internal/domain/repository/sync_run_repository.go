package repository

import (
	"context"

	"github.com/jhoicas/contact-sync/internal/domain/entity"
)

// SyncRunRepository define el puerto de persistencia para la auditoría de corridas.
type SyncRunRepository interface {
	CreateRun(ctx context.Context, run *entity.SyncRun) error
	// FinishRun persiste estado final, contadores y error de la corrida.
	FinishRun(ctx context.Context, run *entity.SyncRun) error
	AddEvent(ctx context.Context, ev *entity.SyncEvent) error

	// GetRun devuelve nil, nil si la corrida no existe.
	GetRun(ctx context.Context, id string) (*entity.SyncRun, error)
	ListRuns(ctx context.Context, limit, offset int) ([]*entity.SyncRun, error)
	ListEvents(ctx context.Context, runID string) ([]*entity.SyncEvent, error)
}
