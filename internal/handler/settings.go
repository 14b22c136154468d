// SLA 정책 설정 조회/수정 핸들러

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itil-bridge/backend/internal/model"
)

// policyStore - SLA 정책 저장소 인터페이스
type policyStore interface {
	GetSLAPolicy(ctx context.Context) (*model.SLAPolicy, error)
	UpdateSLAPolicy(ctx context.Context, p model.SLAPolicy) error
}

// SettingsHandler 구조체 정의
type SettingsHandler struct {
	store policyStore
}

func NewSettingsHandler(store policyStore) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// GetSLA godoc
// @Summary Get SLA escalation thresholds
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.SLAPolicyResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/settings/sla [get]
func (h *SettingsHandler) GetSLA(c *gin.Context) {
	policy, err := h.store.GetSLAPolicy(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SLAPolicyResponse{Status: "success", Data: *policy})
}

// UpdateSLA godoc
// @Summary Update SLA escalation thresholds
// @Description Thresholds are minutes per severity. The new values take effect on the next escalation sweep.
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.SLAPolicy true "Thresholds"
// @Success 200 {object} model.SLAPolicyResponse
// @Failure 400,500 {object} model.ErrorResponse
// @Router /api/v1/settings/sla [put]
func (h *SettingsHandler) UpdateSLA(c *gin.Context) {
	var policy model.SLAPolicy
	if err := c.ShouldBindJSON(&policy); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "invalid request"})
		return
	}

	if policy.CriticalMinutes <= 0 || policy.HighMinutes <= 0 ||
		policy.MediumMinutes <= 0 || policy.LowMinutes <= 0 || policy.SweepIntervalMinutes <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "all threshold values must be positive"})
		return
	}

	if err := h.store.UpdateSLAPolicy(c.Request.Context(), policy); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SLAPolicyResponse{Status: "success", Data: policy})
}
