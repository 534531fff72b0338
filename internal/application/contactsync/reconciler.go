package contactsync

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/contact-sync/internal/domain/entity"
)

// Campos que la integración compara y puede modificar en Omie.
const (
	FieldRazaoSocial = "razao_social"
	FieldEmail       = "email"
)

// ReconcilerConfig parámetros del reconciliador.
type ReconcilerConfig struct {
	IntegrationPrefix string // vacío = entity.DefaultIntegrationPrefix
	// SkipUnchanged evita AlterarCliente cuando ningún campo cambió.
	// Por defecto (false) se escribe siempre.
	SkipUnchanged bool
}

// ReconcileResult resultado de un contacto.
type ReconcileResult struct {
	IntegrationCode string
	Outcome         string // entity.Outcome*
	Reason          string
	Changes         []string
	Customer        *entity.LedgerCustomer // registro fusionado; nil si no se encontró
}

// Reconciler busca el cliente en Omie por código de integración, fusiona razón social y
// email, y escribe el registro de vuelta.
type Reconciler struct {
	ledger LedgerClient
	cfg    ReconcilerConfig
	log    zerolog.Logger
}

// NewReconciler construye el reconciliador.
func NewReconciler(ledger LedgerClient, cfg ReconcilerConfig, log zerolog.Logger) *Reconciler {
	if cfg.IntegrationPrefix == "" {
		cfg.IntegrationPrefix = entity.DefaultIntegrationPrefix
	}
	return &Reconciler{ledger: ledger, cfg: cfg, log: log}
}

// Reconcile procesa un contacto ya validado. Cualquier error devuelto es fatal para la corrida.
func (r *Reconciler) Reconcile(ctx context.Context, contact *entity.Contact, dryRun bool) (*ReconcileResult, error) {
	code := entity.IntegrationCode(r.cfg.IntegrationPrefix, contact.ID)
	log := r.log.With().Str("contact_id", contact.ID).Str("codigo_cliente_integracao", code).Logger()
	res := &ReconcileResult{IntegrationCode: code}

	log.Info().Msg("consultando cliente en Omie")
	matches, err := r.ledger.ListCustomers(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("buscar cliente %s: %w", code, err)
	}
	if len(matches) == 0 || matches[0] == nil {
		log.Info().Msg("cliente no encontrado en Omie, ninguna acción tomada")
		res.Outcome = entity.OutcomeNotFound
		return res, nil
	}

	// Solo se considera el primer elemento, aunque Omie devuelva más.
	existing := matches[0]
	log.Info().Str("codigo_cliente_omie", existing.CodigoClienteOmie).Msg("cliente encontrado en Omie")

	res.Changes = Merge(existing, contact)
	res.Customer = existing

	if dryRun {
		log.Info().Strs("changes", res.Changes).Msg("dry-run: AlterarCliente omitido")
		res.Outcome = entity.OutcomeSkipped
		res.Reason = "dry-run"
		return res, nil
	}
	if !r.shouldWrite(res.Changes) {
		log.Info().Msg("sin cambios, AlterarCliente omitido")
		res.Outcome = entity.OutcomeSkipped
		res.Reason = "sin cambios"
		return res, nil
	}

	if err := r.ledger.UpdateCustomer(ctx, existing); err != nil {
		return nil, fmt.Errorf("actualizar cliente %s: %w", code, err)
	}
	log.Info().Strs("changes", res.Changes).Msg("cliente actualizado en Omie")
	res.Outcome = entity.OutcomeUpdated
	return res, nil
}

// shouldWrite es el único punto de decisión sobre la escritura de un cliente encontrado.
// Sin SkipUnchanged se escribe aunque no haya cambios (fuerza el recálculo del lado de Omie).
func (r *Reconciler) shouldWrite(changes []string) bool {
	if r.cfg.SkipUnchanged {
		return len(changes) > 0
	}
	return true
}

// Merge aplica los datos del contacto sobre el cliente de Omie y devuelve los campos cambiados.
//   - razao_social distinta: se sobrescribe con la del contacto.
//   - email distinto: se acumula como "<actual>;<nuevo>", nunca se reemplaza.
//
// Los valores vacíos del contacto no se comparan.
func Merge(customer *entity.LedgerCustomer, contact *entity.Contact) []string {
	var changes []string
	if contact.LegalName != "" && customer.RazaoSocial != contact.LegalName {
		customer.RazaoSocial = contact.LegalName
		changes = append(changes, FieldRazaoSocial)
	}
	if contact.Email != "" && customer.Email != contact.Email {
		customer.Email = customer.Email + ";" + contact.Email
		changes = append(changes, FieldEmail)
	}
	return changes
}
