package handlers

import (
	"net/http"

	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ArowuTest/fundme-backend/internal/services"
	"github.com/ArowuTest/fundme-backend/internal/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// FundMeHandler handles FundMe contract requests
type FundMeHandler struct {
	contracts services.ContractDirectory
	payouts   services.PayoutLister
}

// NewFundMeHandler creates a new FundMeHandler
func NewFundMeHandler(contracts services.ContractDirectory, payouts services.PayoutLister) *FundMeHandler {
	return &FundMeHandler{contracts: contracts, payouts: payouts}
}

func (h *FundMeHandler) lookup(c *gin.Context) (*services.FundMeService, bool) {
	addr, ok := addressParam(c, "address")
	if !ok {
		return nil, false
	}
	svc, err := h.contracts.FundMe(addr)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return svc, true
}

// Get handles GET /fundme/:address
func (h *FundMeHandler) Get(c *gin.Context) {
	svc, ok := h.lookup(c)
	if !ok {
		return
	}
	version, err := svc.Version(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	balance := svc.Balance()
	c.JSON(http.StatusOK, models.FundMeView{
		Address:     svc.Address().Hex(),
		Owner:       svc.Owner().Hex(),
		PriceFeed:   svc.PriceFeedAddress().Hex(),
		MinimumUSD:  svc.MinimumUSD().String(),
		BalanceWei:  balance.String(),
		BalanceEth:  utils.FormatEther(balance),
		FunderCount: svc.FunderCount(),
		Version:     version,
	})
}

// AmountFunded handles GET /fundme/:address/amounts/:funder
func (h *FundMeHandler) AmountFunded(c *gin.Context) {
	svc, ok := h.lookup(c)
	if !ok {
		return
	}
	funder, ok := addressParam(c, "funder")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"funder": funder.Hex(), "amountWei": svc.AddressToAmountFunded(funder).String()})
}

// Funder handles GET /fundme/:address/funders/:index
func (h *FundMeHandler) Funder(c *gin.Context) {
	svc, ok := h.lookup(c)
	if !ok {
		return
	}
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}
	funder, err := svc.Funder(index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": index, "funder": funder.Hex()})
}

// Fund handles POST /fundme/:address/fund
func (h *FundMeHandler) Fund(c *gin.Context) {
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

	contribution, err := svc.Fund(c.Request.Context(), sender, value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contribution)
}

// Withdraw handles POST /fundme/:address/withdraw
func (h *FundMeHandler) Withdraw(c *gin.Context) {
	sender, ok := caller(c)
	if !ok {
		return
	}
	svc, ok := h.lookup(c)
	if !ok {
		return
	}
	amount, err := svc.Withdraw(c.Request.Context(), sender)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipient": sender.Hex(), "amountWei": amount.String(), "amountEth": utils.FormatEther(amount)})
}

// Contributions handles GET /fundme/:address/contributions?funder=
func (h *FundMeHandler) Contributions(c *gin.Context) {
	svc, ok := h.lookup(c)
	if !ok {
		return
	}
	var funder *common.Address
	if q := c.Query("funder"); q != "" {
		addr, err := utils.ParseAddress(q)
		if err != nil {
			respondError(c, err)
			return
		}
		funder = &addr
	}
	page, limit := pagination(c)
	contributions, err := svc.Contributions(c.Request.Context(), funder, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contributions": contributions, "page": page, "limit": limit})
}

// Payouts handles GET /fundme/:address/payouts
func (h *FundMeHandler) Payouts(c *gin.Context) {
	svc, ok := h.lookup(c)
	if !ok {
		return
	}
	page, limit := pagination(c)
	payouts, err := h.payouts.Payouts(c.Request.Context(), svc.Address(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payouts": payouts, "page": page, "limit": limit})
}
