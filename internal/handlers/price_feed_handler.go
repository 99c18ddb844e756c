package handlers

import (
	"net/http"

	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ArowuTest/fundme-backend/internal/pricefeed"
	"github.com/ArowuTest/fundme-backend/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PriceFeedHandler serves price feed reads and mock updates
type PriceFeedHandler struct {
	registry *pricefeed.Registry
	logger   *zap.SugaredLogger
}

// NewPriceFeedHandler creates a new PriceFeedHandler
func NewPriceFeedHandler(registry *pricefeed.Registry, logger *zap.SugaredLogger) *PriceFeedHandler {
	return &PriceFeedHandler{registry: registry, logger: logger}
}

func (h *PriceFeedHandler) view(c *gin.Context) {
	addr, ok := addressParam(c, "address")
	if !ok {
		return
	}
	feed, err := h.registry.Resolve(addr)
	if err != nil {
		respondError(c, err)
		return
	}
	rate, err := feed.LatestRate(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	price, err := pricefeed.GetPrice(rate)
	if err != nil {
		respondError(c, err)
		return
	}
	_, mock := h.registry.Mock(addr)
	c.JSON(http.StatusOK, models.PriceFeedView{
		Address:   addr.Hex(),
		RoundID:   rate.RoundID,
		Answer:    rate.Answer.String(),
		Decimals:  rate.Decimals,
		Version:   rate.Version,
		PriceUSD:  price.String(),
		UpdatedAt: rate.UpdatedAt,
		Mock:      mock,
	})
}

// Get handles GET /price-feeds/:address
func (h *PriceFeedHandler) Get(c *gin.Context) {
	h.view(c)
}

// Convert handles GET /price-feeds/:address/convert?value=0.1ether
func (h *PriceFeedHandler) Convert(c *gin.Context) {
	addr, ok := addressParam(c, "address")
	if !ok {
		return
	}
	value, err := utils.ParseValue(c.Query("value"))
	if err != nil {
		respondError(c, err)
		return
	}
	feed, err := h.registry.Resolve(addr)
	if err != nil {
		respondError(c, err)
		return
	}
	usd, rate, err := pricefeed.Convert(c.Request.Context(), feed, value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valueWei": value.String(), "valueUsd": usd.String(), "roundId": rate.RoundID})
}

// UpdateAnswer handles PUT /price-feeds/:address/answer. Only mocks accept updates.
func (h *PriceFeedHandler) UpdateAnswer(c *gin.Context) {
	sender, ok := caller(c)
	if !ok {
		return
	}
	addr, ok := addressParam(c, "address")
	if !ok {
		return
	}
	mock, ok := h.registry.Mock(addr)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No mock price feed at " + addr.Hex()})
		return
	}
	var req models.UpdateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	answer, err := utils.ParseUnits(req.Answer, 0)
	if err != nil || answer.Sign() <= 0 {
		respondError(c, pricefeed.ErrInvalidAnswer)
		return
	}
	mock.UpdateAnswer(answer)
	h.logger.Infow("Mock price feed updated", "feed", addr.Hex(), "answer", answer.String(), "caller", sender.Hex())
	h.view(c)
}
