package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/contact-sync/pkg/jwt"
)

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	token, err := jwt.Generate("secreto", "ops", jwt.RoleAdmin, "contact-sync", time.Minute)
	require.NoError(t, err)

	subject, role, err := jwt.Parse("secreto", "contact-sync", token)
	require.NoError(t, err)
	assert.Equal(t, "ops", subject)
	assert.Equal(t, jwt.RoleAdmin, role)
}

func TestParse_Rechazos(t *testing.T) {
	valid, err := jwt.Generate("secreto", "ops", jwt.RoleAdmin, "contact-sync", time.Minute)
	require.NoError(t, err)
	expired, err := jwt.Generate("secreto", "ops", jwt.RoleAdmin, "contact-sync", -time.Minute)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro", "contact-sync", valid)
	assert.Error(t, err, "firma incorrecta")

	_, _, err = jwt.Parse("secreto", "otro-emisor", valid)
	assert.Error(t, err, "emisor distinto")

	_, _, err = jwt.Parse("secreto", "contact-sync", expired)
	assert.Error(t, err, "token expirado")

	_, _, err = jwt.Parse("secreto", "", "no-es-un-token")
	assert.Error(t, err)
}

func TestSecretoVacio(t *testing.T) {
	_, err := jwt.Generate("", "ops", jwt.RoleAdmin, "", time.Minute)
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)

	_, _, err = jwt.Parse("", "", "x")
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
}
