package model

import "time"

// AlertWebhookResponse - POST /webhook/alert 성공 응답
type AlertWebhookResponse struct {
	Success          bool   `json:"success"`
	IncidentID       string `json:"incidentId"`
	IncidentKey      string `json:"incidentKey"`
	ProcessingTimeMs int64  `json:"processingTimeMs"`
	LinkedProblemID  string `json:"linkedProblemId,omitempty"`
	Deduplicated     bool   `json:"deduplicated,omitempty"`
}

// WebhookErrorResponse - 웹훅 에러 응답 (항상 이 형태)
type WebhookErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Timestamp int64  `json:"timestamp"`
}

// NewWebhookError builds the standard webhook error body.
func NewWebhookError(msg string) WebhookErrorResponse {
	return WebhookErrorResponse{Success: false, Error: msg, Timestamp: time.Now().UnixMilli()}
}

type ErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type RootResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// TicketListResponse - 티켓 목록 조회 응답
type TicketListResponse struct {
	Status string   `json:"status"`
	Data   []Ticket `json:"data"`
}

// TicketDetailResponse - 티켓 단건 조회 응답
type TicketDetailResponse struct {
	Status string  `json:"status"`
	Data   *Ticket `json:"data"`
}

// ChangeCreationResponse - Problem에서 Change 생성 응답
type ChangeCreationResponse struct {
	Status    string `json:"status"`
	ChangeID  string `json:"changeId"`
	ChangeKey string `json:"changeKey"`

	// Linked: Problem과의 링크 생성 성공 여부 (실패해도 Change 생성은 유지됨)
	Linked   bool   `json:"linked"`
	LinkType string `json:"linkType,omitempty"`
}

// ChangeCloseResponse - Change 종료 + 연관 티켓 일괄 종료 응답
type ChangeCloseResponse struct {
	Status      string   `json:"status"`
	ChangeID    string   `json:"changeId"`
	ClosedKeys  []string `json:"closedKeys"`
	FailedKeys  []string `json:"failedKeys,omitempty"`
	SkippedKeys []string `json:"skippedKeys,omitempty"`
}

// CIContextResponse - 티켓 상세 패널에 렌더링되는 CI 컨텍스트
// 값은 전부 sanitize를 거친 문자열이며, 실패 outcome은 fallback 문구로 대체됨
type CIContextResponse struct {
	CIName            string `json:"ciName"`
	CILocation        string `json:"ciLocation"`
	CIIPAddress       string `json:"ciIpAddress,omitempty"`
	CIOperatingSystem string `json:"ciOperatingSystem,omitempty"`
	CIEnvironment     string `json:"ciEnvironment,omitempty"`
	CMDBViewURL       string `json:"cmdbViewUrl,omitempty"`
}

// AuthLoginRequest - 운영자 로그인 요청
type AuthLoginRequest struct {
	Password string `json:"password"`
}

// AuthLoginResponse - 운영자 로그인 응답
type AuthLoginResponse struct {
	Status      string `json:"status"`
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}
