// Problem -> Change 생성 및 Change 종료 핸들러
//
// Change 종료 시 링크된 열린 Incident/Problem도 함께 닫힘 (개별 실패는 건너뜀)

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itil-bridge/backend/internal/db"
	"github.com/itil-bridge/backend/internal/model"
	"github.com/itil-bridge/backend/internal/service"
)

// ChangeHandler 구조체 정의
type ChangeHandler struct {
	tickets *service.TicketService
}

func NewChangeHandler(tickets *service.TicketService) *ChangeHandler {
	return &ChangeHandler{tickets: tickets}
}

// CreateFromProblem godoc
// @Summary Create a change request from a problem
// @Description Creates a Change copying the problem's CI association and links it to the problem (Implements, falling back to Relates).
// @Tags changes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Problem ticket ID"
// @Success 201 {object} model.ChangeCreationResponse
// @Failure 400,404,500 {object} model.ErrorResponse
// @Router /api/v1/problems/{id}/change [post]
func (h *ChangeHandler) CreateFromProblem(c *gin.Context) {
	result, err := h.tickets.CreateChangeFromProblem(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeTicketError(c, err)
		return
	}

	c.JSON(http.StatusCreated, model.ChangeCreationResponse{
		Status:    "success",
		ChangeID:  result.Change.ID,
		ChangeKey: result.Change.Key,
		Linked:    result.Linked,
		LinkType:  result.LinkType,
	})
}

// Close godoc
// @Summary Close a change and its related tickets
// @Description Transitions the change to Closed and closes linked open Incident/Problem tickets.
// @Tags changes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Change ticket ID"
// @Success 200 {object} model.ChangeCloseResponse
// @Failure 400,404,500 {object} model.ErrorResponse
// @Router /api/v1/changes/{id}/close [post]
func (h *ChangeHandler) Close(c *gin.Context) {
	changeID := c.Param("id")

	result, err := h.tickets.CloseChangeAndRelated(c.Request.Context(), changeID)
	if err != nil {
		writeTicketError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.ChangeCloseResponse{
		Status:      "success",
		ChangeID:    changeID,
		ClosedKeys:  result.ClosedKeys,
		FailedKeys:  result.FailedKeys,
		SkippedKeys: result.SkippedKeys,
	})
}

// writeTicketError - 서비스 에러를 상태 코드로 매핑
func writeTicketError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.Is(err, db.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "ticket not found"})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": validationErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
	}
}
