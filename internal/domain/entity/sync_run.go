package entity

import "time"

// Estados de una corrida de sincronización.
const (
	SyncRunStatusRunning   = "running"
	SyncRunStatusSucceeded = "succeeded"
	SyncRunStatusFailed    = "failed"
)

// Resultados por contacto.
const (
	OutcomeRejected = "rejected"  // sin CPF/CNPJ utilizable
	OutcomeNotFound = "not_found" // sin cliente en Omie con el código de integración
	OutcomeUpdated  = "updated"   // AlterarCliente enviado
	OutcomeSkipped  = "skipped"   // encontrado, sin escritura (dry-run o sin cambios)
)

// SyncRun una pasada completa Octadesk -> Omie.
type SyncRun struct {
	ID         string
	StartedAt  time.Time
	FinishedAt *time.Time
	Status     string
	DryRun     bool
	Fetched    int
	Rejected   int
	NotFound   int
	Updated    int
	Skipped    int
	Error      string
}

// SyncEvent resultado de un contacto dentro de una corrida.
type SyncEvent struct {
	ID              int64
	RunID           string
	ContactID       string
	IntegrationCode string
	Outcome         string
	Reason          string
	Changes         []string // campos modificados: razao_social, email
	CreatedAt       time.Time
}
