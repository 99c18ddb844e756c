package handlers

import (
	"net/http"

	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ArowuTest/fundme-backend/internal/services"
	"github.com/ArowuTest/fundme-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// SimpleStorageHandler handles SimpleStorage contract requests
type SimpleStorageHandler struct {
	contracts services.ContractDirectory
}

// NewSimpleStorageHandler creates a new SimpleStorageHandler
func NewSimpleStorageHandler(contracts services.ContractDirectory) *SimpleStorageHandler {
	return &SimpleStorageHandler{contracts: contracts}
}

func (h *SimpleStorageHandler) lookup(c *gin.Context) (*services.SimpleStorageService, bool) {
	addr, ok := addressParam(c, "address")
	if !ok {
		return nil, false
	}
	svc, err := h.contracts.SimpleStorage(addr)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return svc, true
}

// Get handles GET /simple-storage/:address
func (h *SimpleStorageHandler) Get(c *gin.Context) {
	svc, ok := h.lookup(c)
	if !ok {
		return
	}
	people := svc.People()
	view := models.SimpleStorageView{
		Address:        svc.Address().Hex(),
		FavoriteNumber: svc.Retrieve().String(),
		People:         make([]models.Person, len(people)),
	}
	for i, p := range people {
		view.People[i] = models.Person{Name: p.Name, FavoriteNumber: p.FavoriteNumber.String()}
	}
	c.JSON(http.StatusOK, view)
}

// FavoriteNumberOf handles GET /simple-storage/:address/people/:name
func (h *SimpleStorageHandler) FavoriteNumberOf(c *gin.Context) {
	svc, ok := h.lookup(c)
	if !ok {
		return
	}
	name := c.Param("name")
	c.JSON(http.StatusOK, gin.H{"name": name, "favoriteNumber": svc.FavoriteNumberOf(name).String()})
}

// Store handles PUT /simple-storage/:address/favorite-number
func (h *SimpleStorageHandler) Store(c *gin.Context) {
	if _, ok := caller(c); !ok {
		return
	}
	svc, ok := h.lookup(c)
	if !ok {
		return
	}
	var req models.StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := utils.ParseUnits(req.FavoriteNumber, 0)
	if err != nil {
		respondError(c, services.ErrInvalidNumber)
		return
	}
	if err := svc.Store(c.Request.Context(), n); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favoriteNumber": n.String()})
}

// AddPerson handles POST /simple-storage/:address/people
func (h *SimpleStorageHandler) AddPerson(c *gin.Context) {
	if _, ok := caller(c); !ok {
		return
	}
	svc, ok := h.lookup(c)
	if !ok {
		return
	}
	var req models.AddPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := utils.ParseUnits(req.FavoriteNumber, 0)
	if err != nil {
		respondError(c, services.ErrInvalidNumber)
		return
	}
	if err := svc.AddPerson(c.Request.Context(), req.Name, n); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.Person{Name: req.Name, FavoriteNumber: n.String()})
}
