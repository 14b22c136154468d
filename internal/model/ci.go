// CMDB Configuration Item 구조체 및 enrichment 결과 정의

package model

// EnrichmentStatus - CMDB 조회 결과 분류
// 실패 variant는 에러가 아니라 정상 outcome으로 취급되어 fallback 값으로 대체됨
type EnrichmentStatus string

const (
	EnrichmentFound       EnrichmentStatus = "found"
	EnrichmentNotFound    EnrichmentStatus = "not_found"
	EnrichmentTimedOut    EnrichmentStatus = "timed_out"
	EnrichmentUnreachable EnrichmentStatus = "unreachable"
	EnrichmentDisabled    EnrichmentStatus = "disabled"
)

// CIRecord - CMDB가 반환하는 자산 정보
// 요청 단위로만 조회하며 이 백엔드에는 저장하지 않음
type CIRecord struct {
	ID              string `json:"id"`
	Hostname        string `json:"hostname"`
	Location        string `json:"location"`
	IPAddress       string `json:"ipAddress,omitempty"`
	OperatingSystem string `json:"operatingSystem,omitempty"`
	Environment     string `json:"environment,omitempty"`

	// ViewURL: CMDB UI의 자산 상세 페이지 (SSRF 검증 통과한 경우에만 설정)
	ViewURL string `json:"viewUrl,omitempty"`
}

// CIEnrichment - enrichment 시도 결과
// Record는 Status가 EnrichmentFound일 때만 설정됨
type CIEnrichment struct {
	Status EnrichmentStatus `json:"status"`
	Record *CIRecord        `json:"record,omitempty"`
}

// DisplayLocation returns the location string the UI panel renders,
// substituting the configured fallback wording for each non-success outcome.
func (e CIEnrichment) DisplayLocation() string {
	switch e.Status {
	case EnrichmentFound:
		if e.Record != nil && e.Record.Location != "" {
			return e.Record.Location
		}
		return "unknown"
	case EnrichmentNotFound:
		return "Not found in CMDB"
	case EnrichmentTimedOut:
		return "CMDB timeout"
	case EnrichmentDisabled:
		return "CMDB not configured"
	default:
		return "CMDB error"
	}
}
