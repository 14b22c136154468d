// 모니터링 웹훅 요청을 처리하는 핸들러
//
// 요청 흐름:
//  1. 모니터링 도구가 POST /webhook/alert로 알림 전송
//  2. 크기 제한 체크 (raw body는 HMAC 검증을 위해 직접 읽음)
//  3. 인증 (시크릿/서명/소스/IP) - 티켓 생성 전에 전부 통과해야 함
//  4. 검증/정제 후 service 레이어로 전달
//  5. 처리 결과를 success 응답으로 반환
//
// 에러 응답은 항상 {success:false, error, timestamp} 형태

package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/itil-bridge/backend/internal/model"
	"github.com/itil-bridge/backend/internal/service"
)

// alertProcessor - 서비스 인터페이스
type alertProcessor interface {
	ProcessAlert(ctx context.Context, payload *model.AlertPayload, source, clientIP string) (*service.AlertResult, error)
}

// webhookAuthenticator - 인증 인터페이스
type webhookAuthenticator interface {
	Authenticate(authHeader, signature, source, clientIP string, body []byte) error
}

// alertValidator - 검증 인터페이스
type alertValidator interface {
	MaxPayloadBytes() int64
	Validate(body []byte) (*model.AlertPayload, error)
}

// AlertWebhookHandler 구조체 정의
type AlertWebhookHandler struct {
	auth      webhookAuthenticator
	validator alertValidator
	alerts    alertProcessor
}

// AlertWebhookHandler 객체 생성
func NewAlertWebhookHandler(auth webhookAuthenticator, validator alertValidator, alerts alertProcessor) *AlertWebhookHandler {
	return &AlertWebhookHandler{
		auth:      auth,
		validator: validator,
		alerts:    alerts,
	}
}

// Webhook godoc
// @Summary Receive a monitoring alert
// @Description Authenticates the caller, validates the payload, creates an incident and links it to an open problem for the same CI.
// @Tags webhook
// @Accept json
// @Produce json
// @Param Authorization header string true "Per-source shared secret (Bearer)"
// @Param X-Webhook-Source header string true "Source identifier"
// @Param X-Webhook-Signature header string false "HMAC-SHA256 hex signature of the body"
// @Param request body model.AlertPayload true "Alert payload"
// @Success 200 {object} model.AlertWebhookResponse
// @Failure 400,401,403,500 {object} model.WebhookErrorResponse
// @Router /webhook/alert [post]
func (h *AlertWebhookHandler) Webhook(c *gin.Context) {
	start := time.Now()
	clientIP := c.ClientIP()
	source := c.GetHeader("X-Webhook-Source")

	// 1. raw body 읽기 (제한 +1바이트: 초과 여부 판별용)
	maxBytes := h.validator.MaxPayloadBytes()
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBytes+1))
	if err != nil {
		log.Printf("Failed to read webhook body from client_ip=%s source=%s: %v", clientIP, source, err)
		c.JSON(http.StatusBadRequest, model.NewWebhookError("unreadable body"))
		return
	}
	if int64(len(body)) > maxBytes {
		log.Printf("Rejected oversized webhook payload from client_ip=%s source=%s", clientIP, source)
		c.JSON(http.StatusBadRequest, model.NewWebhookError("payload too large"))
		return
	}

	// 2. 인증 - 티켓 생성 side effect 전에 전부 통과해야 함
	if err := h.auth.Authenticate(
		c.GetHeader("Authorization"),
		c.GetHeader("X-Webhook-Signature"),
		source,
		clientIP,
		body,
	); err != nil {
		status := authStatus(err)
		log.Printf("Unauthorized webhook request from client_ip=%s source=%s: %v", clientIP, source, err)
		c.JSON(status, model.NewWebhookError(authMessage(status)))
		return
	}

	// 3. 검증/정제
	payload, err := h.validator.Validate(body)
	if err != nil {
		log.Printf("Invalid webhook payload from client_ip=%s source=%s: %v", clientIP, source, err)
		c.JSON(http.StatusBadRequest, model.NewWebhookError("invalid request: "+err.Error()))
		return
	}

	// 4. 처리 (enrichment -> 생성 -> 링크)
	result, err := h.alerts.ProcessAlert(c.Request.Context(), payload, source, clientIP)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			log.Printf("Ticket store rejected alert from client_ip=%s source=%s: %v", clientIP, source, err)
			c.JSON(http.StatusBadRequest, model.NewWebhookError("invalid input: "+validationErr.Error()))
			return
		}
		log.Printf("Failed to process alert from client_ip=%s source=%s: %v", clientIP, source, err)
		c.JSON(http.StatusInternalServerError, model.NewWebhookError("internal server error"))
		return
	}

	processingTime := time.Since(start).Milliseconds()
	log.Printf("Processed alert from client_ip=%s source=%s in %dms: ticket=%s deduplicated=%v",
		clientIP, source, processingTime, result.Incident.Key, result.Deduplicated)

	// 5. 응답 반환
	resp := model.AlertWebhookResponse{
		Success:          true,
		IncidentID:       result.Incident.ID,
		IncidentKey:      result.Incident.Key,
		ProcessingTimeMs: processingTime,
		Deduplicated:     result.Deduplicated,
	}
	if result.LinkedProblem != nil {
		resp.LinkedProblemID = result.LinkedProblem.ID
	}
	c.JSON(http.StatusOK, resp)
}

// authStatus - AuthError를 상태 코드로 매핑
// 자격 증명 문제는 401, 출처(소스/IP) 차단은 403
func authStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrSourceNotAllowed), errors.Is(err, service.ErrIPNotAllowed):
		return http.StatusForbidden
	default:
		return http.StatusUnauthorized
	}
}

// authMessage - 어떤 체크가 실패했는지는 응답에 노출하지 않음
func authMessage(status int) string {
	if status == http.StatusForbidden {
		return "access denied"
	}
	return "unauthorized"
}
