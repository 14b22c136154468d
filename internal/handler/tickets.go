// 티켓 조회 운영 API 핸들러

package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/itil-bridge/backend/internal/db"
	"github.com/itil-bridge/backend/internal/model"
)

// ticketReader - 조회용 Store 인터페이스
type ticketReader interface {
	ListTickets(ctx context.Context, ciID, status, kind string, limit int) ([]model.Ticket, error)
	GetTicket(ctx context.Context, id string) (*model.Ticket, error)
}

// TicketHandler 구조체 정의
type TicketHandler struct {
	store ticketReader
}

func NewTicketHandler(store ticketReader) *TicketHandler {
	return &TicketHandler{store: store}
}

// List godoc
// @Summary List tickets
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param ci query string false "Filter by CI id"
// @Param status query string false "Filter by status"
// @Param kind query string false "Filter by kind (Incident|Problem|Change)"
// @Param limit query int false "Max rows (default 100)"
// @Success 200 {object} model.TicketListResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/tickets [get]
func (h *TicketHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	tickets, err := h.store.ListTickets(c.Request.Context(),
		c.Query("ci"), c.Query("status"), c.Query("kind"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.TicketListResponse{Status: "success", Data: tickets})
}

// Get godoc
// @Summary Get a ticket by ID
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID"
// @Success 200 {object} model.TicketDetailResponse
// @Failure 404,500 {object} model.ErrorResponse
// @Router /api/v1/tickets/{id} [get]
func (h *TicketHandler) Get(c *gin.Context) {
	ticket, err := h.store.GetTicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.TicketDetailResponse{Status: "success", Data: ticket})
}
