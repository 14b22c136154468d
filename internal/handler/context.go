// 티켓 상세 화면에 표시할 CI 컨텍스트 조회 핸들러
//
// enrichment 실패는 에러가 아니라 fallback 문구로 응답됨 (패널은 항상 렌더링 가능)

package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itil-bridge/backend/internal/db"
	"github.com/itil-bridge/backend/internal/model"
)

// ciEnricher - CMDB 클라이언트 인터페이스
type ciEnricher interface {
	Enrich(ctx context.Context, ciID string) model.CIEnrichment
}

// ticketGetter - 티켓 단건 조회 인터페이스
type ticketGetter interface {
	GetTicket(ctx context.Context, id string) (*model.Ticket, error)
}

// CIContextHandler 구조체 정의
type CIContextHandler struct {
	store ticketGetter
	cmdb  ciEnricher
}

func NewCIContextHandler(store ticketGetter, cmdb ciEnricher) *CIContextHandler {
	return &CIContextHandler{store: store, cmdb: cmdb}
}

// Get godoc
// @Summary Get the CI context for a ticket
// @Description Looks up the ticket's linked CI in the CMDB on demand. Lookup failures degrade to fallback wording instead of errors.
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID"
// @Success 200 {object} model.CIContextResponse
// @Failure 404,500 {object} model.ErrorResponse
// @Router /api/v1/tickets/{id}/ci-context [get]
func (h *CIContextHandler) Get(c *gin.Context) {
	ticket, err := h.store.GetTicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}

	// CI 미연결 티켓은 CMDB 호출 없이 고정 문구 반환
	if ticket.CIID == "" {
		c.JSON(http.StatusOK, model.CIContextResponse{
			CIName:     "No CI linked",
			CILocation: "unknown",
		})
		return
	}

	enrichment := h.cmdb.Enrich(c.Request.Context(), ticket.CIID)

	resp := model.CIContextResponse{
		CIName:     ticket.CIID,
		CILocation: enrichment.DisplayLocation(),
	}
	if enrichment.Status == model.EnrichmentFound && enrichment.Record != nil {
		resp.CIName = enrichment.Record.Hostname
		resp.CIIPAddress = enrichment.Record.IPAddress
		resp.CIOperatingSystem = enrichment.Record.OperatingSystem
		resp.CIEnvironment = enrichment.Record.Environment
		resp.CMDBViewURL = enrichment.Record.ViewURL
	}

	c.JSON(http.StatusOK, resp)
}
