package handler

import (
	"net/http"

	"rossx/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the conversation state store to the presentation
// layer. The store is advisory; no money moves through these endpoints.
type SessionHandler struct {
	store *session.Store
}

func NewSessionHandler(store *session.Store) *SessionHandler {
	return &SessionHandler{store: store}
}

func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.store.Get(id))
}

func (h *SessionHandler) Put(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	var st session.State
	if err := c.ShouldBindJSON(&st); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch st.Stage {
	case session.StageNone, session.StageAwaitingDepositProof, session.StageAwaitingScreenshot,
		session.StageAwaitingInvestmentAmount, session.StageAwaitingCustomAmount:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown stage"})
		return
	}
	h.store.Set(id, st)
	c.JSON(http.StatusOK, st)
}

func (h *SessionHandler) Delete(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	h.store.Clear(id)
	c.Status(http.StatusNoContent)
}
