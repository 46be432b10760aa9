package handler

import (
	"net/http"
	"strconv"
	"time"

	"rossx/internal/domain"
	"rossx/internal/service"
	"rossx/internal/session"

	"github.com/gin-gonic/gin"
)

type InvestmentHandler struct {
	investments *service.InvestmentService
	sessions    *session.Store
}

func NewInvestmentHandler(investments *service.InvestmentService, sessions *session.Store) *InvestmentHandler {
	return &InvestmentHandler{investments: investments, sessions: sessions}
}

func (h *InvestmentHandler) Plans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": domain.PlanList()})
}

// Create commits wallet balance into a plan. The amount is validated as a
// free-form custom amount when the user's conversation is in the
// custom-amount stage for that plan; otherwise the plan's canonical
// quick-invest amount is enforced.
func (h *InvestmentHandler) Create(c *gin.Context) {
	var req struct {
		AccountID   int64  `json:"account_id" binding:"required"`
		PlanID      string `json:"plan_id" binding:"required"`
		AmountPaise int64  `json:"amount_paise" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st := h.sessions.Get(req.AccountID)
	custom := st.Stage == session.StageAwaitingCustomAmount && st.PlanID == req.PlanID

	inv, cascade, err := h.investments.Create(req.AccountID, req.PlanID, req.AmountPaise, custom)
	if err != nil {
		respondError(c, err)
		return
	}
	h.sessions.Clear(req.AccountID)
	c.JSON(http.StatusCreated, gin.H{
		"investment": inv,
		"cascade":    cascade,
	})
}

func (h *InvestmentHandler) List(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	list, err := h.investments.List(id)
	if err != nil {
		respondError(c, err)
		return
	}
	now := time.Now()
	out := make([]gin.H, 0, len(list))
	for i := range list {
		inv := &list[i]
		out = append(out, gin.H{
			"investment":            inv,
			"status":                inv.StatusAt(now),
			"maturity_amount_paise": inv.MaturityAmountPaise(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"investments": out})
}

// Withdraw pays out a matured investment, or an unmatured one via the
// explicit early path.
func (h *InvestmentHandler) Withdraw(c *gin.Context) {
	invID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid investment id"})
		return
	}
	var req struct {
		AccountID int64 `json:"account_id" binding:"required"`
		Early     bool  `json:"early"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payout, err := h.investments.Withdraw(req.AccountID, uint(invID), req.Early)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payout_paise": payout})
}
