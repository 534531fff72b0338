package entity

import "encoding/json"

// LedgerCustomer cliente registrado en Omie.
// Fields conserva el registro completo tal como llegó, para que los campos que esta
// integración no conoce se reenvíen sin modificar en AlterarCliente.
type LedgerCustomer struct {
	CodigoClienteOmie       string
	CodigoClienteIntegracao string
	RazaoSocial             string
	Email                   string
	Fields                  map[string]json.RawMessage
}
