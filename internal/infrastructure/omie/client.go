package omie

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/contact-sync/internal/application/contactsync"
	"github.com/jhoicas/contact-sync/internal/domain"
	"github.com/jhoicas/contact-sync/internal/domain/entity"
)

// Verificar en tiempo de compilación que Client implementa LedgerClient.
var _ contactsync.LedgerClient = (*Client)(nil)

const (
	systemName = "omie"

	CallListarClientes = "ListarClientes"
	CallAlterarCliente = "AlterarCliente"

	keyCodigoOmie       = "codigo_cliente_omie"
	keyCodigoIntegracao = "codigo_cliente_integracao"
	keyRazaoSocial      = "razao_social"
	keyEmail            = "email"

	maxResponseBytes = 4 << 20
)

// Client adaptador HTTP para el endpoint de clientes de Omie.
// Usa net/http de la stdlib: la API es un único endpoint JSON-RPC sobre POST.
type Client struct {
	url        string
	appKey     string
	appSecret  string
	httpClient *http.Client
}

// NewClient construye el cliente. timeout <= 0 usa 30 s.
func NewClient(url, appKey, appSecret string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		url:        url,
		appKey:     appKey,
		appSecret:  appSecret,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ── Estructuras del protocolo ────────────────────────────────────────────────

type listRequest struct {
	Call      string       `json:"call"`
	AppKey    string       `json:"app_key"`
	AppSecret string       `json:"app_secret"`
	Param     []listFilter `json:"param"`
}

type listFilter struct {
	CodigoClienteIntegracao string `json:"codigo_cliente_integracao"`
}

type listResponse struct {
	ClienteCadastro []map[string]json.RawMessage `json:"cliente_cadastro"`
}

type updateRequest struct {
	Call      string                     `json:"call"`
	AppKey    string                     `json:"app_key"`
	AppSecret string                     `json:"app_secret"`
	Cliente   map[string]json.RawMessage `json:"cliente"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// ListCustomers ejecuta ListarClientes filtrando solo por codigo_cliente_integracao.
// cliente_cadastro ausente o vacío devuelve una lista vacía.
func (c *Client) ListCustomers(ctx context.Context, integrationCode string) ([]*entity.LedgerCustomer, error) {
	payload := listRequest{
		Call:      CallListarClientes,
		AppKey:    c.appKey,
		AppSecret: c.appSecret,
		Param:     []listFilter{{CodigoClienteIntegracao: integrationCode}},
	}
	rawBody, err := c.post(ctx, CallListarClientes, payload)
	if err != nil {
		return nil, err
	}

	var out listResponse
	if err := json.Unmarshal(rawBody, &out); err != nil {
		return nil, fmt.Errorf("omie: deserializar %s: %w", CallListarClientes, err)
	}
	// un elemento null se conserva como nil para no correr los índices
	customers := make([]*entity.LedgerCustomer, 0, len(out.ClienteCadastro))
	for _, fields := range out.ClienteCadastro {
		if fields == nil {
			customers = append(customers, nil)
			continue
		}
		customers = append(customers, toEntity(fields))
	}
	return customers, nil
}

// UpdateCustomer ejecuta AlterarCliente con el registro completo.
func (c *Client) UpdateCustomer(ctx context.Context, customer *entity.LedgerCustomer) error {
	cliente, err := toFields(customer)
	if err != nil {
		return fmt.Errorf("omie: serializar cliente: %w", err)
	}
	payload := updateRequest{
		Call:      CallAlterarCliente,
		AppKey:    c.appKey,
		AppSecret: c.appSecret,
		Cliente:   cliente,
	}
	_, err = c.post(ctx, CallAlterarCliente, payload)
	return err
}

// post envía la llamada y devuelve el cuerpo si el estado es 200.
func (c *Client) post(ctx context.Context, call string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("omie: serializar request %s: %w", call, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("omie: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &domain.UpstreamError{System: systemName, Operation: call, Err: ctx.Err()}
		}
		return nil, &domain.UpstreamError{System: systemName, Operation: call, Err: err}
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("omie: leer respuesta %s: %w", call, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &domain.UpstreamError{
			System:     systemName,
			Operation:  call,
			StatusCode: resp.StatusCode,
			Body:       string(rawBody),
		}
	}
	return rawBody, nil
}

// toEntity extrae los campos conocidos y conserva el registro completo.
func toEntity(fields map[string]json.RawMessage) *entity.LedgerCustomer {
	return &entity.LedgerCustomer{
		CodigoClienteOmie:       rawString(fields[keyCodigoOmie]),
		CodigoClienteIntegracao: rawString(fields[keyCodigoIntegracao]),
		RazaoSocial:             rawString(fields[keyRazaoSocial]),
		Email:                   rawString(fields[keyEmail]),
		Fields:                  fields,
	}
}

// toFields reconstruye el registro para AlterarCliente. Solo se reescriben las claves cuyo
// valor cambió respecto de lo recibido; el resto viaja byte a byte como llegó.
func toFields(c *entity.LedgerCustomer) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(c.Fields)+4)
	for k, v := range c.Fields {
		out[k] = v
	}
	known := []struct {
		key   string
		value string
	}{
		{keyCodigoOmie, c.CodigoClienteOmie},
		{keyCodigoIntegracao, c.CodigoClienteIntegracao},
		{keyRazaoSocial, c.RazaoSocial},
		{keyEmail, c.Email},
	}
	for _, k := range known {
		prev, ok := out[k.key]
		if ok && rawString(prev) == k.value {
			continue
		}
		if !ok && k.value == "" {
			continue
		}
		b, err := json.Marshal(k.value)
		if err != nil {
			return nil, err
		}
		out[k.key] = b
	}
	return out, nil
}

// rawString devuelve el texto de un valor JSON escalar: strings sin comillas, números y
// booleanos tal cual, null como cadena vacía.
func rawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}
