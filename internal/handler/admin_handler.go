package handler

import (
	"errors"
	"net/http"
	"strconv"

	"rossx/config"
	"rossx/internal/auth"
	"rossx/internal/domain"
	"rossx/internal/repository"
	"rossx/internal/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AdminHandler struct {
	cfg         *config.Config
	admins      *repository.AdminRepository
	accounts    *repository.AccountRepository
	investments *repository.InvestmentRepository
	deposits    *service.DepositService
}

func NewAdminHandler(
	cfg *config.Config,
	admins *repository.AdminRepository,
	accounts *repository.AccountRepository,
	investments *repository.InvestmentRepository,
	deposits *service.DepositService,
) *AdminHandler {
	return &AdminHandler{
		cfg:         cfg,
		admins:      admins,
		accounts:    accounts,
		investments: investments,
		deposits:    deposits,
	}
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	admin, err := h.admins.GetByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	token, err := auth.GenerateAccessToken(&h.cfg.JWT, admin.ID, admin.Email, admin.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token})
}

func (h *AdminHandler) PendingDeposits(c *gin.Context) {
	list, err := h.deposits.ListPending()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deposits": list})
}

func (h *AdminHandler) resolve(c *gin.Context, approve bool) {
	depID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deposit id"})
		return
	}
	var req struct {
		Notes string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&req) // notes are optional

	dep, err := h.deposits.Resolve(uint(depID), approve, req.Notes)
	if err != nil {
		// A second resolution is a stale click, not a failure.
		if errors.Is(err, domain.ErrAlreadyResolved) {
			c.JSON(http.StatusConflict, gin.H{"error": "deposit already resolved"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dep)
}

func (h *AdminHandler) Approve(c *gin.Context) { h.resolve(c, true) }
func (h *AdminHandler) Reject(c *gin.Context)  { h.resolve(c, false) }

// Stats summarizes the platform for the admin panel.
func (h *AdminHandler) Stats(c *gin.Context) {
	users, err := h.accounts.Count()
	if err != nil {
		respondError(c, err)
		return
	}
	totalWallet, err := h.accounts.SumWalletBalances()
	if err != nil {
		respondError(c, err)
		return
	}
	activeInvestments, err := h.investments.CountActive()
	if err != nil {
		respondError(c, err)
		return
	}
	totalInvested, err := h.investments.SumActivePrincipal()
	if err != nil {
		respondError(c, err)
		return
	}
	pending, err := h.deposits.ListPending()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_users":          users,
		"total_wallet_paise":   totalWallet,
		"active_investments":   activeInvestments,
		"total_invested_paise": totalInvested,
		"pending_deposits":     len(pending),
	})
}
