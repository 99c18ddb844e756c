package handlers

import (
	"net/http"

	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ArowuTest/fundme-backend/internal/services"
	"github.com/ArowuTest/fundme-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// RaffleHandler handles Raffle contract requests
type RaffleHandler struct {
	contracts services.ContractDirectory
}

// NewRaffleHandler creates a new RaffleHandler
func NewRaffleHandler(contracts services.ContractDirectory) *RaffleHandler {
	return &RaffleHandler{contracts: contracts}
}

func (h *RaffleHandler) lookup(c *gin.Context) (*services.RaffleService, bool) {
	addr, ok := addressParam(c, "address")
	if !ok {
		return nil, false
	}
	svc, err := h.contracts.Raffle(addr)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return svc, true
}

// Get handles GET /raffles/:address
func (h *RaffleHandler) Get(c *gin.Context) {
	svc, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.RaffleView{
		Address:        svc.Address().Hex(),
		EntranceFeeWei: svc.EntranceFee().String(),
		BalanceWei:     svc.Balance().String(),
		PlayerCount:    svc.PlayerCount(),
	})
}

// Player handles GET /raffles/:address/players/:index
func (h *RaffleHandler) Player(c *gin.Context) {
	svc, ok := h.lookup(c)
	if !ok {
		return
	}
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}
	player, err := svc.Player(index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": index, "player": player.Hex()})
}

// Enter handles POST /raffles/:address/enter
func (h *RaffleHandler) Enter(c *gin.Context) {
	sender, ok := caller(c)
	if !ok {
		return
	}
	svc, ok := h.lookup(c)
	if !ok {
		return
	}
	var req models.ValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	value, err := utils.ParseValue(req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := svc.Enter(c.Request.Context(), sender, value); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"player": sender.Hex(), "playerCount": svc.PlayerCount()})
}

// PickWinner handles POST /raffles/:address/pick-winner
func (h *RaffleHandler) PickWinner(c *gin.Context) {
	if _, ok := caller(c); !ok {
		return
	}
	svc, ok := h.lookup(c)
	if !ok {
		return
	}
	winner, err := svc.PickWinner(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"winner": winner.Hex()})
}
