// SLA 정책 설정 구조체 정의
// Postgres에 단일 row로 저장되며, 환경변수 기본값으로 시드됨

package model

// SLAPolicy - severity별 에스컬레이션 임계치 (분 단위) + 스윕 주기
type SLAPolicy struct {
	CriticalMinutes int `json:"criticalMinutes"`
	HighMinutes     int `json:"highMinutes"`
	MediumMinutes   int `json:"mediumMinutes"`
	LowMinutes      int `json:"lowMinutes"`

	// SweepIntervalMinutes: 에스컬레이션 스윕 주기
	SweepIntervalMinutes int `json:"sweepIntervalMinutes"`
}

// ThresholdMinutes returns the escalation threshold for a severity.
// Unknown severities fall back to the Medium threshold.
func (p SLAPolicy) ThresholdMinutes(severity string) int {
	switch severity {
	case SeverityCritical:
		return p.CriticalMinutes
	case SeverityHigh:
		return p.HighMinutes
	case SeverityLow:
		return p.LowMinutes
	default:
		return p.MediumMinutes
	}
}

// SLAPolicyResponse - 설정 조회/수정 응답
type SLAPolicyResponse struct {
	Status string    `json:"status"`
	Data   SLAPolicy `json:"data"`
}
