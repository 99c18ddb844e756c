package handlers

import (
	"math/big"
	"net/http"

	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ArowuTest/fundme-backend/internal/services"
	"github.com/ArowuTest/fundme-backend/internal/utils"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
)

// DeploymentHandler handles contract deployment and direct transfers
type DeploymentHandler struct {
	deployer  services.Deployer
	contracts services.ContractDirectory
}

// NewDeploymentHandler creates a new DeploymentHandler
func NewDeploymentHandler(deployer services.Deployer, contracts services.ContractDirectory) *DeploymentHandler {
	return &DeploymentHandler{deployer: deployer, contracts: contracts}
}

// optionalWei parses s as a value when set
func optionalWei(s string) (*big.Int, error) {
	if s == "" {
		return nil, nil
	}
	return utils.ParseValue(s)
}

// Deploy handles POST /deployments
func (h *DeploymentHandler) Deploy(c *gin.Context) {
	deployer, ok := caller(c)
	if !ok {
		return
	}
	var req models.DeployContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fee, err := optionalWei(req.EntranceFee)
	if err != nil {
		respondError(c, err)
		return
	}
	var minimum, answer *big.Int
	if req.MinimumUSD != "" {
		if minimum, err = utils.ParseUnits(req.MinimumUSD, 0); err != nil {
			respondError(c, err)
			return
		}
	}
	if req.InitialAnswer != "" {
		if answer, err = utils.ParseUnits(req.InitialAnswer, 0); err != nil {
			respondError(c, err)
			return
		}
	}

	deployment, err := h.deployer.Deploy(c.Request.Context(), services.DeployRequest{
		Kind:          req.Kind,
		Deployer:      deployer,
		ChainID:       req.ChainID,
		EntranceFee:   fee,
		MinimumUSD:    minimum,
		Decimals:      req.Decimals,
		InitialAnswer: answer,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, deployment)
}

// List handles GET /deployments
func (h *DeploymentHandler) List(c *gin.Context) {
	deployments, err := h.deployer.Deployments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deployments)
}

// Get handles GET /deployments/:address
func (h *DeploymentHandler) Get(c *gin.Context) {
	addr, ok := addressParam(c, "address")
	if !ok {
		return
	}
	deployment, err := h.deployer.Deployment(c.Request.Context(), addr)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deployment)
}

// Networks handles GET /networks
func (h *DeploymentHandler) Networks(c *gin.Context) {
	c.JSON(http.StatusOK, h.deployer.Networks())
}

// Transfer handles POST /contracts/:address/transfer
func (h *DeploymentHandler) Transfer(c *gin.Context) {
	sender, ok := caller(c)
	if !ok {
		return
	}
	to, ok := addressParam(c, "address")
	if !ok {
		return
	}
	var req models.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	value, err := utils.ParseValue(req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	var data []byte
	if req.Data != "" {
		if data, err = hexutil.Decode(req.Data); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid calldata: " + err.Error()})
			return
		}
	}
	if err := h.contracts.Transfer(c.Request.Context(), sender, to, value, data); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"from": sender.Hex(), "to": to.Hex(), "valueWei": value.String()})
}
