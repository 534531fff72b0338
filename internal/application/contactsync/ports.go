package contactsync

import (
	"context"

	"github.com/jhoicas/contact-sync/internal/domain/entity"
)

// ContactSource puerto de salida hacia el CRM (Octadesk).
type ContactSource interface {
	// ListContacts devuelve el conjunto completo de contactos en una sola respuesta.
	// Un estado HTTP distinto de 200 se devuelve como *domain.UpstreamError.
	ListContacts(ctx context.Context) ([]*entity.Contact, error)
}

// LedgerClient puerto de salida hacia el ERP (Omie).
type LedgerClient interface {
	// ListCustomers busca por codigo_cliente_integracao. Una lista vacía no es error.
	ListCustomers(ctx context.Context, integrationCode string) ([]*entity.LedgerCustomer, error)
	// UpdateCustomer envía el registro completo (AlterarCliente).
	UpdateCustomer(ctx context.Context, customer *entity.LedgerCustomer) error
}
