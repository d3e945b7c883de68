package telegram

import (
	"testing"

	"github.com/scanbridge/scanbridge/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession() *models.EntrySession {
	return &models.EntrySession{
		ChatID: "42",
		EAN:    "4006381333931",
		State:  models.SessionAwaitingName,
	}
}

func TestAdvanceFullConversation(t *testing.T) {
	session := newSession()

	res := advance(session, "Nutella")
	assert.False(t, res.done)
	assert.Equal(t, models.SessionAwaitingBrand, session.State)
	assert.Contains(t, res.reply, "Nutella")

	res = advance(session, "Ferrero")
	assert.False(t, res.done)
	assert.Equal(t, models.SessionAwaitingExtra, session.State)

	res = advance(session, "450g")
	require.True(t, res.done)
	require.NotNil(t, res.product)
	assert.Equal(t, "4006381333931", res.product.EAN)
	assert.Equal(t, "Nutella", res.product.Name)
	require.NotNil(t, res.product.Brand)
	assert.Equal(t, "Ferrero", *res.product.Brand)
	require.NotNil(t, res.product.Extra)
	assert.Equal(t, "450g", *res.product.Extra)
}

func TestAdvanceStopBeforeName(t *testing.T) {
	session := newSession()

	res := advance(session, "stop")
	require.True(t, res.done)
	assert.Nil(t, res.product)
	assert.Contains(t, res.reply, "exiting")
}

func TestAdvanceStopAfterName(t *testing.T) {
	session := newSession()
	advance(session, "Nutella")

	res := advance(session, "STOP")
	require.True(t, res.done)
	require.NotNil(t, res.product)
	assert.Equal(t, "Nutella", res.product.Name)
	assert.Nil(t, res.product.Brand)
	assert.Nil(t, res.product.Extra)
}

func TestAdvanceStopAfterBrand(t *testing.T) {
	session := newSession()
	advance(session, "Nutella")
	advance(session, "Ferrero")

	res := advance(session, "stop")
	require.True(t, res.done)
	require.NotNil(t, res.product)
	require.NotNil(t, res.product.Brand)
	assert.Equal(t, "Ferrero", *res.product.Brand)
	assert.Nil(t, res.product.Extra)
}

func TestAdvanceTrimsInput(t *testing.T) {
	session := newSession()
	res := advance(session, "  Nutella \n")
	assert.False(t, res.done)
	assert.Equal(t, "Nutella", session.Name)
}
