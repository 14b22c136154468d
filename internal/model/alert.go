// 모니터링 도구가 보내는 알림 페이로드 구조체 정의
// handler에서 파싱되고 sanitize를 거친 뒤에만 service 레이어로 전달됨

package model

// Severity - 알림 심각도
const (
	SeverityLow      = "Low"
	SeverityMedium   = "Medium"
	SeverityHigh     = "High"
	SeverityCritical = "Critical"
)

// ValidSeverity reports whether s is one of the four alert severities.
func ValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// AlertPayload - 검증/정제가 끝난 인바운드 알림
// 한 번 생성되면 수정하지 않음. downstream은 raw body를 다시 파싱하지 않음.
type AlertPayload struct {
	// Summary: 알림 요약 (필수, sanitize 후 비어있으면 거부)
	Summary string `json:"summary"`

	Description string `json:"description,omitempty"`

	// CIID: CMDB의 Configuration Item 식별자 (선택)
	CIID string `json:"ciId,omitempty"`

	// Service: 담당자 자동 배정에 사용되는 서비스 이름 (예: "Network", "DB")
	Service string `json:"service,omitempty"`

	// Severity: Low / Medium / High / Critical (기본값: Medium)
	Severity string `json:"severity,omitempty"`

	// AlertType: 모니터링 도구가 분류한 알림 종류 (기본값: "Incident")
	AlertType string `json:"alertType,omitempty"`

	Environment string   `json:"environment,omitempty"`
	Component   string   `json:"component,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}
