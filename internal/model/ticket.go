// Ticket(Incident/Problem/Change) 및 링크 구조체 정의
// Ticket Store가 소유하는 데이터이며, service 레이어는 Store 인터페이스를 통해서만 조작

package model

import "time"

// TicketKind - 티켓 종류
const (
	KindIncident = "Incident"
	KindProblem  = "Problem"
	KindChange   = "Change"
)

// Ticket 상태
const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
	StatusClosed     = "Closed"
	StatusCancelled  = "Cancelled"
)

// 링크 타입
const (
	LinkRelates    = "Relates"
	LinkImplements = "Implements"
	LinkCausedBy   = "CausedBy"
)

// Ticket - Ticket Store가 보관하는 작업 레코드
type Ticket struct {
	ID         string `json:"id"`
	Key        string `json:"key"` // 사람이 읽는 키 (예: ITSM-42)
	Kind       string `json:"kind"`
	ProjectKey string `json:"projectKey"`

	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`

	// CIID: 연결된 Configuration Item (없을 수 있음)
	CIID string `json:"ciId,omitempty"`

	Service  string `json:"service,omitempty"`
	Severity string `json:"severity"`
	Status   string `json:"status"`
	Assignee string `json:"assignee,omitempty"`

	// AlertType: 이 티켓을 만든 알림의 종류 (중복 억제 키의 일부)
	AlertType string `json:"alertType,omitempty"`

	// Source: 티켓을 생성한 웹훅 소스 식별자 (감사용)
	Source string `json:"source,omitempty"`

	// 에스컬레이션 마커 (durable, Store에 저장됨)
	// EscalationLevel: 0이면 미에스컬레이션, 1 이상이면 해당 단계까지 에스컬레이션됨
	EscalationLevel int        `json:"escalationLevel"`
	EscalatedAt     *time.Time `json:"escalatedAt,omitempty"`

	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

// Open reports whether the ticket still counts against SLA thresholds.
func (t *Ticket) Open() bool {
	return t.Status == StatusOpen || t.Status == StatusInProgress
}

// CreateTicketInput - Ticket Store에 전달하는 생성 요청
type CreateTicketInput struct {
	Kind        string
	ProjectKey  string
	Summary     string
	Description string
	CIID        string
	Service     string
	Severity    string
	AlertType   string
	Source      string
}

// Link - 방향성 있는 티켓 간 관계
// (SourceID, DestID, Type) 트리플은 중복될 수 없음
type Link struct {
	SourceID  string    `json:"sourceId"`
	DestID    string    `json:"destId"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}
