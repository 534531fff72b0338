package octadesk_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/contact-sync/internal/application/contactsync"
	"github.com/jhoicas/contact-sync/internal/domain"
	"github.com/jhoicas/contact-sync/internal/domain/entity"
	"github.com/jhoicas/contact-sync/internal/infrastructure/octadesk"
)

const testAPIKey = "octa-test-key"

func TestListContacts_EnviaCabecerasYDecodifica(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, testAPIKey, r.Header.Get("X-API-KEY"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"42","razao_social":"Acme","email":"new@x.com",
			 "customFields":[{"key":"CPF_Cliente","value":"123.456.789-09"}]},
			{"id":7,"name":"Fulano","customFields":[{"key":"Phone","value":5551234},{"key":"nota","value":null}]},
			{"id":"8"}
		]`))
	}))
	defer srv.Close()

	contacts, err := octadesk.NewClient(srv.URL, testAPIKey, time.Second).ListContacts(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 3)

	assert.Equal(t, "42", contacts[0].ID)
	assert.Equal(t, "Acme", contacts[0].LegalName)
	assert.Equal(t, "new@x.com", contacts[0].Email)
	require.Len(t, contacts[0].CustomFields, 1)
	assert.Equal(t, "CPF_Cliente", contacts[0].CustomFields[0].Key)
	assert.Equal(t, "123.456.789-09", contacts[0].CustomFields[0].Value)

	assert.Equal(t, "7", contacts[1].ID, "ids numéricos se convierten a string")
	assert.Empty(t, contacts[1].LegalName, "name no reemplaza a razao_social")
	assert.Equal(t, "5551234", contacts[1].CustomFields[0].Value)
	assert.Equal(t, "", contacts[1].CustomFields[1].Value)

	assert.Empty(t, contacts[2].CustomFields)
	assert.Empty(t, contacts[2].TaxID, "el cliente HTTP no valida")
}

func TestListContacts_SoloName_NoPisaRazaoSocialDeOmie(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"42","name":"João (contato)","email":"joao@x.com",
			"customFields":[{"key":"cpf","value":"123.456.789-09"}]}]`))
	}))
	defer srv.Close()

	contacts, err := octadesk.NewClient(srv.URL, testAPIKey, time.Second).ListContacts(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Empty(t, contacts[0].LegalName)

	cust := &entity.LedgerCustomer{RazaoSocial: "Acme Ltda", Email: "old@x.com"}
	changes := contactsync.Merge(cust, contacts[0])
	assert.Equal(t, "Acme Ltda", cust.RazaoSocial, "la razón social de Omie se conserva")
	assert.Equal(t, []string{contactsync.FieldEmail}, changes)
}

func TestListContacts_Non200_ErrorUpstreamConStatusYCuerpo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("falla interna"))
	}))
	defer srv.Close()

	contacts, err := octadesk.NewClient(srv.URL, testAPIKey, time.Second).ListContacts(context.Background())
	assert.Nil(t, contacts)
	require.ErrorIs(t, err, domain.ErrUpstream)

	var ue *domain.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "octadesk", ue.System)
	assert.Equal(t, http.StatusInternalServerError, ue.StatusCode)
	assert.Equal(t, "falla interna", ue.Body)
}

func TestListContacts_Created_TambienEsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := octadesk.NewClient(srv.URL, testAPIKey, time.Second).ListContacts(context.Background())
	assert.ErrorIs(t, err, domain.ErrUpstream, "solo 200 es exitoso")
}

func TestListContacts_JSONInvalido(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"no":"es un arreglo"}`))
	}))
	defer srv.Close()

	_, err := octadesk.NewClient(srv.URL, testAPIKey, time.Second).ListContacts(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUpstream)
}

func TestListContacts_ServidorInalcanzable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := octadesk.NewClient(url, testAPIKey, time.Second).ListContacts(context.Background())
	assert.ErrorIs(t, err, domain.ErrUpstream)
}
