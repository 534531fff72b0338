package octadesk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/jhoicas/contact-sync/internal/application/contactsync"
	"github.com/jhoicas/contact-sync/internal/domain"
	"github.com/jhoicas/contact-sync/internal/domain/entity"
)

// Verificar en tiempo de compilación que Client implementa ContactSource.
var _ contactsync.ContactSource = (*Client)(nil)

const (
	systemName        = "octadesk"
	operationContacts = "GET contacts"

	// límite de lectura de la respuesta (la lista completa llega en una sola página)
	maxResponseBytes = 32 << 20
)

// Client adaptador HTTP para la API de contactos de Octadesk.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewClient construye el cliente. timeout <= 0 usa 30 s.
func NewClient(url, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ── Estructuras del protocolo ────────────────────────────────────────────────

type contactPayload struct {
	ID           flexString           `json:"id"`
	RazaoSocial  string               `json:"razao_social"`
	Email        string               `json:"email"`
	CustomFields []customFieldPayload `json:"customFields"`
}

type customFieldPayload struct {
	Key   string     `json:"key"`
	Value flexString `json:"value"`
}

// flexString acepta string, número o null (Octadesk no es consistente en ids y custom fields).
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*f = flexString(strconv.FormatBool(v))
		return nil
	}
	return fmt.Errorf("octadesk: valor no escalar: %s", string(b))
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// ListContacts obtiene todos los contactos con un único GET (sin paginación).
func (c *Client) ListContacts(ctx context.Context) ([]*entity.Contact, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("octadesk: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &domain.UpstreamError{System: systemName, Operation: operationContacts, Err: ctx.Err()}
		}
		return nil, &domain.UpstreamError{System: systemName, Operation: operationContacts, Err: err}
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("octadesk: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.UpstreamError{
			System:     systemName,
			Operation:  operationContacts,
			StatusCode: resp.StatusCode,
			Body:       string(rawBody),
		}
	}

	var payload []contactPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return nil, fmt.Errorf("octadesk: deserializar contactos: %w", err)
	}

	contacts := make([]*entity.Contact, 0, len(payload))
	for _, p := range payload {
		contacts = append(contacts, toEntity(p))
	}
	return contacts, nil
}

// toEntity solo toma razao_social como razón social; sin ella queda vacía y el merge no la toca.
func toEntity(p contactPayload) *entity.Contact {
	fields := make([]entity.CustomField, 0, len(p.CustomFields))
	for _, f := range p.CustomFields {
		fields = append(fields, entity.CustomField{Key: f.Key, Value: string(f.Value)})
	}
	return &entity.Contact{
		ID:           string(p.ID),
		LegalName:    p.RazaoSocial,
		Email:        p.Email,
		CustomFields: fields,
	}
}
