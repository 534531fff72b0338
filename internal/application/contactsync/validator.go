package contactsync

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/contact-sync/internal/domain"
	"github.com/jhoicas/contact-sync/internal/domain/entity"
	"github.com/jhoicas/contact-sync/pkg/taxid"
)

// Subcadenas que identifican el custom field con el documento fiscal.
var taxIDKeyNeedles = []string{"cpf", "cnpj"}

// Validator extrae y normaliza el CPF/CNPJ de los custom fields de un contacto.
type Validator struct {
	strict bool
}

// NewValidator construye el validador. strict=true exige además dígitos verificadores válidos.
func NewValidator(strict bool) *Validator {
	return &Validator{strict: strict}
}

// Validate asigna contact.TaxID si el contacto tiene un documento utilizable.
// Devuelve domain.ErrMissingTaxID o domain.ErrInvalidTaxID en caso contrario; el contacto
// rechazado no debe llegar al reconciliador.
func (v *Validator) Validate(contact *entity.Contact) error {
	raw, ok := findTaxIDValue(contact.CustomFields)
	if !ok || raw == "" {
		return domain.ErrMissingTaxID
	}

	digits, err := taxid.Normalize(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidTaxID, err)
	}
	if v.strict {
		if err := taxid.ValidateCheckDigits(digits); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidTaxID, err)
		}
	}

	contact.TaxID = digits
	return nil
}

// findTaxIDValue recorre los campos en orden y devuelve el valor del primero cuya clave
// contenga "cpf" o "cnpj" sin distinguir mayúsculas. El primero gana aunque esté vacío.
func findTaxIDValue(fields []entity.CustomField) (string, bool) {
	fold := cases.Fold()
	for _, f := range fields {
		if f.Key == "" {
			continue
		}
		key := fold.String(f.Key)
		for _, needle := range taxIDKeyNeedles {
			if strings.Contains(key, needle) {
				return f.Value, true
			}
		}
	}
	return "", false
}
