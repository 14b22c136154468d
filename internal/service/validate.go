// 웹훅 페이로드 검증/정제
//
// 처리 흐름:
//  1. 크기 제한 체크 (기본 1 MiB)
//  2. JSON 파싱
//  3. 모든 문자열 필드 sanitize (trim + 위험 문자 제거 + 길이 제한)
//  4. summary 필수 체크
//
// 통과하면 불변 AlertPayload를 반환하고, 이후 레이어는 raw body를 다시 파싱하지 않음

package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/itil-bridge/backend/internal/model"
	"github.com/itil-bridge/backend/internal/sanitize"
)

// ValidationError 계열 - 전부 클라이언트 귀책 (400)
var (
	ErrPayloadTooLarge  = errors.New("payload too large")
	ErrMalformedPayload = errors.New("malformed payload")
	ErrMissingSummary   = errors.New("missing required field: summary")
)

// WebhookValidator 구조체 정의
type WebhookValidator struct {
	maxPayloadBytes int64
}

func NewWebhookValidator(maxPayloadBytes int64) *WebhookValidator {
	if maxPayloadBytes <= 0 {
		maxPayloadBytes = 1 << 20
	}
	return &WebhookValidator{maxPayloadBytes: maxPayloadBytes}
}

// MaxPayloadBytes - 핸들러가 body 읽기 제한에 사용
func (v *WebhookValidator) MaxPayloadBytes() int64 {
	return v.maxPayloadBytes
}

// rawAlertPayload - 파싱 전용 중간 구조체 (sanitize 전)
type rawAlertPayload struct {
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	CIID        string   `json:"ciId"`
	Service     string   `json:"service"`
	Severity    string   `json:"severity"`
	AlertType   string   `json:"alertType"`
	Environment string   `json:"environment"`
	Component   string   `json:"component"`
	Tags        []string `json:"tags"`
}

// Validate - raw body를 검증된 AlertPayload로 변환
func (v *WebhookValidator) Validate(body []byte) (*model.AlertPayload, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedPayload)
	}
	if int64(len(body)) > v.maxPayloadBytes {
		return nil, ErrPayloadTooLarge
	}

	var raw rawAlertPayload
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	payload := &model.AlertPayload{
		Summary:     sanitize.Clean(raw.Summary),
		Description: sanitize.Clean(raw.Description),
		CIID:        sanitize.Clean(raw.CIID),
		Service:     sanitize.Clean(raw.Service),
		Severity:    sanitize.Clean(raw.Severity),
		AlertType:   sanitize.Clean(raw.AlertType),
		Environment: sanitize.Clean(raw.Environment),
		Component:   sanitize.Clean(raw.Component),
		Tags:        sanitize.CleanSlice(raw.Tags),
	}

	// summary는 sanitize 이후에도 비어있으면 거부
	if payload.Summary == "" {
		return nil, ErrMissingSummary
	}

	if !model.ValidSeverity(payload.Severity) {
		payload.Severity = model.SeverityMedium
	}
	if payload.AlertType == "" {
		payload.AlertType = model.KindIncident
	}

	return payload, nil
}
