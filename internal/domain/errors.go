package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrConflict      = errors.New("conflicto con el estado actual")
	ErrAuditDisabled = errors.New("auditoría de sincronización deshabilitada")

	// ErrValidation agrupa los rechazos de contacto; nunca aborta el lote.
	ErrValidation   = errors.New("contacto rechazado")
	ErrMissingTaxID = fmt.Errorf("%w: no posee CPF ni CNPJ", ErrValidation)
	ErrInvalidTaxID = fmt.Errorf("%w: CPF o CNPJ inválido", ErrValidation)

	// ErrUpstream identifica cualquier respuesta no exitosa de una API externa.
	ErrUpstream = errors.New("falla en API externa")
)

// UpstreamError describe una respuesta HTTP no exitosa de Octadesk u Omie.
// Es fatal: la corrida de sincronización se detiene al recibirla.
type UpstreamError struct {
	System     string // "octadesk" | "omie"
	Operation  string // p.ej. "ListarClientes"
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.System, e.Operation, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s: %v", e.System, e.Operation, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrUpstream).
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
