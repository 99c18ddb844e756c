package handlers

import (
	"net/http"

	"github.com/ArowuTest/fundme-backend/internal/services"
	"github.com/ArowuTest/fundme-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// EventHandler serves recorded contract events
type EventHandler struct {
	events services.EventLister
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(events services.EventLister) *EventHandler {
	return &EventHandler{events: events}
}

// List handles GET /events?contract=&name=&page=&limit=
func (h *EventHandler) List(c *gin.Context) {
	contract := c.Query("contract")
	if contract != "" {
		addr, err := utils.ParseAddress(contract)
		if err != nil {
			respondError(c, err)
			return
		}
		contract = addr.Hex()
	}
	page, limit := pagination(c)
	events, err := h.events.ListEvents(c.Request.Context(), contract, c.Query("name"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "page": page, "limit": limit})
}
