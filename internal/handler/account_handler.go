package handler

import (
	"net/http"
	"strconv"

	"rossx/internal/service"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	accounts *service.AccountService
}

func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

func accountID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return 0, false
	}
	return id, true
}

// Create registers an account on first contact; repeating it for an existing
// id returns the existing record.
func (h *AccountHandler) Create(c *gin.Context) {
	var req struct {
		ID           int64  `json:"id" binding:"required"`
		Name         string `json:"name"`
		Username     string `json:"username"`
		ReferralCode string `json:"referral_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := h.accounts.Create(req.ID, req.Name, req.Username, req.ReferralCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AccountHandler) Get(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	a, err := h.accounts.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AccountHandler) ReferralStats(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	stats, err := h.accounts.ReferralStats(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AccountHandler) ListReferrals(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	list, err := h.accounts.ListReferrals(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"referrals": list})
}

func (h *AccountHandler) CanWithdraw(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	can, err := h.accounts.CanWithdraw(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"can_withdraw": can})
}
