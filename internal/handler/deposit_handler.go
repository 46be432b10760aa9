package handler

import (
	"fmt"
	"math/rand"
	"net/http"

	"rossx/config"
	"rossx/internal/service"
	"rossx/pkg/screenshot"

	"github.com/gin-gonic/gin"
)

type DepositHandler struct {
	cfg      *config.Config
	deposits *service.DepositService
	shots    screenshot.Client
}

func NewDepositHandler(cfg *config.Config, deposits *service.DepositService, shots screenshot.Client) *DepositHandler {
	return &DepositHandler{cfg: cfg, deposits: deposits, shots: shots}
}

// Instructions hands out a collection handle from the configured pool. The
// presentation layer shows it to the user as the UPI to pay into.
func (h *DepositHandler) Instructions(c *gin.Context) {
	handles := h.cfg.Ledger.CollectionHandles
	c.JSON(http.StatusOK, gin.H{
		"collection_handle": handles[rand.Intn(len(handles))],
	})
}

// Begin stages a deposit: the chosen amount and assigned collection handle
// go into the conversation state, awaiting proof fields.
func (h *DepositHandler) Begin(c *gin.Context) {
	var req struct {
		AccountID        int64  `json:"account_id" binding:"required"`
		AmountPaise      int64  `json:"amount_paise" binding:"required"`
		CollectionHandle string `json:"collection_handle" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.deposits.Begin(req.AccountID, req.AmountPaise, req.CollectionHandle); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "awaiting_proof"})
}

// Submit accepts the free-text proof fields and creates the pending deposit.
func (h *DepositHandler) Submit(c *gin.Context) {
	var req struct {
		AccountID   int64  `json:"account_id" binding:"required"`
		UTRNumber   string `json:"utr_number" binding:"required"`
		PayerHandle string `json:"payer_handle" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dep, err := h.deposits.Submit(req.AccountID, req.UTRNumber, req.PayerHandle)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dep)
}

// UploadScreenshot stores the payment screenshot and attaches it to the
// staged deposit.
func (h *DepositHandler) UploadScreenshot(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	file, header, err := c.Request.FormFile("screenshot")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "screenshot file required"})
		return
	}
	defer file.Close()

	url := ""
	if h.shots != nil {
		u, err := h.shots.UploadImage(c.Request.Context(), file, "deposits", fmt.Sprintf("dep_%d_%s", id, header.Filename))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "screenshot upload failed"})
			return
		}
		url = u
	}
	dep, err := h.deposits.AttachScreenshot(id, url)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dep)
}

func (h *DepositHandler) ListByAccount(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	list, err := h.deposits.ListByAccount(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deposits": list})
}
