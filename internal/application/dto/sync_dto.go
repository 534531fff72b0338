package dto

import "time"

// SyncReport resumen de una corrida para el CLI y para POST /api/sync/runs.
type SyncReport struct {
	RunID      string     `json:"run_id"`
	Status     string     `json:"status"` // running|succeeded|failed
	DryRun     bool       `json:"dry_run"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Fetched    int        `json:"fetched"`
	Rejected   int        `json:"rejected"`
	NotFound   int        `json:"not_found"`
	Updated    int        `json:"updated"`
	Skipped    int        `json:"skipped"`
	Error      string     `json:"error,omitempty"`
}

// SyncEventResponse resultado de un contacto dentro de una corrida.
type SyncEventResponse struct {
	ContactID       string    `json:"contact_id"`
	IntegrationCode string    `json:"codigo_cliente_integracao,omitempty"`
	Outcome         string    `json:"outcome"`
	Reason          string    `json:"reason,omitempty"`
	Changes         []string  `json:"changes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// SyncRunDetailResponse corrida con sus eventos, para GET /api/sync/runs/:id.
type SyncRunDetailResponse struct {
	SyncReport
	Events []SyncEventResponse `json:"events"`
}

// SyncRunListResponse historial paginado de corridas.
type SyncRunListResponse struct {
	Items []SyncReport `json:"items"`
	Page  PageResponse `json:"page"`
}

// SyncFailureResponse error de una corrida que alcanzó a iniciar; incluye el reporte parcial.
type SyncFailureResponse struct {
	ErrorResponse
	Report *SyncReport `json:"report,omitempty"`
}
