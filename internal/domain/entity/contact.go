package entity

import "github.com/jhoicas/contact-sync/pkg/taxid"

// Contact representa un contacto obtenido de Octadesk. Es efímero: se obtiene en cada corrida
// y nunca se persiste.
type Contact struct {
	ID           string
	LegalName    string // razão social; vacía si el contacto no la trae
	Email        string
	CustomFields []CustomField
	TaxID        string // CPF/CNPJ solo dígitos; lo asigna el validador
}

// CustomField par clave/valor libre de Octadesk.
type CustomField struct {
	Key   string
	Value string
}

// TaxIDKind devuelve cpf o cnpj según el documento ya validado.
func (c *Contact) TaxIDKind() taxid.Kind {
	return taxid.KindOf(c.TaxID)
}

// DefaultIntegrationPrefix prefijo del código de integración en Omie.
const DefaultIntegrationPrefix = "CodigoInterno"

// IntegrationCode deriva la clave de cruce entre sistemas: prefijo + ID del contacto.
// Es la única clave de búsqueda; no hay coincidencia aproximada ni clave alternativa.
func IntegrationCode(prefix, contactID string) string {
	return prefix + contactID
}
