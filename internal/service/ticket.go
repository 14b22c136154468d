// 티켓 생성 비즈니스 로직 정의
//
// 처리 흐름 (생성 공통):
//  1. 입력을 Store 스키마 규칙으로 검증 - 실패하면 ValidationError (호출자 귀책)
//  2. Store에 제출 - 실패하면 ErrCreationFailed (store/transport 귀책)
//  3. Incident는 생성 후 best-effort 자동 배정 (실패해도 생성은 유지)

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/itil-bridge/backend/internal/model"
)

// ErrCreationFailed - Ticket Store 제출 실패 (500 계열)
var ErrCreationFailed = errors.New("ticket creation failed")

// ValidationError - 입력이 Store 스키마 규칙을 위반 (400 계열)
// ErrCreationFailed와 구분해 로깅/응답 모두 다르게 처리됨
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Detail)
}

const maxSummaryLen = 1000

// ticketStore - Ticket Store 인터페이스 (생성/전이/링크 전용)
type ticketStore interface {
	CreateTicket(ctx context.Context, input model.CreateTicketInput) (*model.Ticket, error)
	GetTicket(ctx context.Context, id string) (*model.Ticket, error)
	CreateLink(ctx context.Context, sourceID, destID, linkType string) (bool, error)
	ListLinks(ctx context.Context, sourceID string) ([]model.Link, error)
	TransitionTicket(ctx context.Context, id, status string) error
	AddComment(ctx context.Context, ticketID, author, body string) error
	UpdateAssignee(ctx context.Context, id, assignee string) error
}

// TicketService 구조체 정의
type TicketService struct {
	store      ticketStore
	projectKey string

	// assignments: service 이름 -> 담당자. "*"는 기본 담당자.
	assignments map[string]string
}

// TicketService 객체 생성
func NewTicketService(store ticketStore, projectKey string, assignments map[string]string) *TicketService {
	if projectKey == "" {
		projectKey = "ITSM"
	}
	return &TicketService{
		store:       store,
		projectKey:  projectKey,
		assignments: assignments,
	}
}

// IncidentInput - 웹훅 알림에서 만들어지는 Incident 생성 요청
type IncidentInput struct {
	Summary     string
	Description string
	CIID        string
	Service     string
	Severity    string
	AlertType   string
	Source      string
}

// CreateIncident - Incident 생성 + best-effort 자동 배정
func (s *TicketService) CreateIncident(ctx context.Context, in IncidentInput) (*model.Ticket, error) {
	if err := validateSummary(in.Summary); err != nil {
		return nil, err
	}
	if in.Severity != "" && !model.ValidSeverity(in.Severity) {
		return nil, &ValidationError{Field: "severity", Detail: "unknown severity " + in.Severity}
	}

	severity := in.Severity
	if severity == "" {
		severity = model.SeverityMedium
	}

	ticket, err := s.store.CreateTicket(ctx, model.CreateTicketInput{
		Kind:        model.KindIncident,
		ProjectKey:  s.projectKey,
		Summary:     in.Summary,
		Description: in.Description,
		CIID:        in.CIID,
		Service:     in.Service,
		Severity:    severity,
		AlertType:   in.AlertType,
		Source:      in.Source,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreationFailed, err)
	}

	// 자동 배정 실패는 삼킴 - 생성 자체를 되돌리지 않음
	s.autoAssign(ctx, ticket)

	return ticket, nil
}

// CreateProblem - Problem 생성 (운영자 액션)
func (s *TicketService) CreateProblem(ctx context.Context, summary, description, ciID string) (*model.Ticket, error) {
	if err := validateSummary(summary); err != nil {
		return nil, err
	}

	ticket, err := s.store.CreateTicket(ctx, model.CreateTicketInput{
		Kind:        model.KindProblem,
		ProjectKey:  s.projectKey,
		Summary:     summary,
		Description: description,
		CIID:        ciID,
		Severity:    model.SeverityMedium,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreationFailed, err)
	}
	return ticket, nil
}

// ChangeCreationResult - Change 생성 + 링크 시도 결과
type ChangeCreationResult struct {
	Change *model.Ticket

	// Linked: Problem과의 링크 생성 여부. 실패해도 Change 생성은 유지됨.
	Linked   bool
	LinkType string
}

// CreateChangeFromProblem - Problem에서 Change 생성
// CI 값은 Problem에서 복사 (없으면 생략, 에러 아님)
func (s *TicketService) CreateChangeFromProblem(ctx context.Context, problemID string) (*ChangeCreationResult, error) {
	problem, err := s.store.GetTicket(ctx, problemID)
	if err != nil {
		return nil, err
	}
	if problem.Kind != model.KindProblem {
		return nil, &ValidationError{Field: "problemId", Detail: "ticket " + problem.Key + " is not a Problem"}
	}

	description := buildChangeDescription(problem)

	change, err := s.store.CreateTicket(ctx, model.CreateTicketInput{
		Kind:        model.KindChange,
		ProjectKey:  problem.ProjectKey,
		Summary:     "Change Request for Problem: " + problem.Summary,
		Description: description,
		CIID:        problem.CIID,
		Service:     problem.Service,
		Severity:    problem.Severity,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreationFailed, err)
	}

	result := &ChangeCreationResult{Change: change}

	// Implements 링크 우선, 실패하면 Relates로 재시도. 링크 실패는 치명적이지 않음.
	if _, err := s.store.CreateLink(ctx, change.ID, problem.ID, model.LinkImplements); err != nil {
		log.Printf("Failed to link change %s to problem %s with %s: %v",
			change.Key, problem.Key, model.LinkImplements, err)
		if _, err := s.store.CreateLink(ctx, change.ID, problem.ID, model.LinkRelates); err != nil {
			log.Printf("Failed to link change %s to problem %s with %s: %v",
				change.Key, problem.Key, model.LinkRelates, err)
		} else {
			result.Linked = true
			result.LinkType = model.LinkRelates
		}
	} else {
		result.Linked = true
		result.LinkType = model.LinkImplements
	}

	return result, nil
}

// ChangeCloseResult - Change 종료 + 연관 티켓 일괄 종료 결과
type ChangeCloseResult struct {
	ClosedKeys  []string
	FailedKeys  []string
	SkippedKeys []string
}

// CloseChangeAndRelated - Change를 Closed로 전이하고,
// 링크된 열린 Incident/Problem도 함께 종료 (개별 실패는 건너뜀)
func (s *TicketService) CloseChangeAndRelated(ctx context.Context, changeID string) (*ChangeCloseResult, error) {
	change, err := s.store.GetTicket(ctx, changeID)
	if err != nil {
		return nil, err
	}
	if change.Kind != model.KindChange {
		return nil, &ValidationError{Field: "changeId", Detail: "ticket " + change.Key + " is not a Change"}
	}

	if err := s.store.TransitionTicket(ctx, change.ID, model.StatusClosed); err != nil {
		return nil, fmt.Errorf("failed to close change %s: %w", change.Key, err)
	}

	links, err := s.store.ListLinks(ctx, change.ID)
	if err != nil {
		// Change 자체는 이미 닫혔으므로 에러 대신 빈 결과로 보고
		log.Printf("Failed to list links for change %s: %v", change.Key, err)
		return &ChangeCloseResult{}, nil
	}

	result := &ChangeCloseResult{}
	for _, link := range links {
		dest, err := s.store.GetTicket(ctx, link.DestID)
		if err != nil {
			log.Printf("Failed to load linked ticket %s for change %s: %v", link.DestID, change.Key, err)
			result.FailedKeys = append(result.FailedKeys, link.DestID)
			continue
		}
		if dest.Kind != model.KindIncident && dest.Kind != model.KindProblem {
			continue
		}
		if !dest.Open() {
			result.SkippedKeys = append(result.SkippedKeys, dest.Key)
			continue
		}
		if err := s.store.TransitionTicket(ctx, dest.ID, model.StatusClosed); err != nil {
			log.Printf("Failed to close %s linked to change %s: %v", dest.Key, change.Key, err)
			result.FailedKeys = append(result.FailedKeys, dest.Key)
			continue
		}
		result.ClosedKeys = append(result.ClosedKeys, dest.Key)
	}

	return result, nil
}

// autoAssign - service -> 담당자 매핑으로 배정. 실패는 로깅만.
func (s *TicketService) autoAssign(ctx context.Context, ticket *model.Ticket) {
	assignee := s.assigneeForService(ticket.Service)
	if assignee == "" {
		return
	}

	if err := s.store.UpdateAssignee(ctx, ticket.ID, assignee); err != nil {
		log.Printf("Auto-assignment failed for %s (service=%s, assignee=%s): %v",
			ticket.Key, ticket.Service, assignee, err)
		return
	}
	ticket.Assignee = assignee
	log.Printf("Auto-assigned %s to %s (service=%s)", ticket.Key, assignee, ticket.Service)
}

func (s *TicketService) assigneeForService(service string) string {
	if service != "" {
		for name, assignee := range s.assignments {
			if strings.EqualFold(name, service) {
				return assignee
			}
		}
	}
	return s.assignments["*"]
}

func validateSummary(summary string) error {
	if strings.TrimSpace(summary) == "" {
		return &ValidationError{Field: "summary", Detail: "must not be empty"}
	}
	if utf8.RuneCountInString(summary) > maxSummaryLen {
		return &ValidationError{Field: "summary", Detail: fmt.Sprintf("exceeds %d characters", maxSummaryLen)}
	}
	return nil
}

func buildChangeDescription(problem *model.Ticket) string {
	var b strings.Builder
	b.WriteString("This change request was created to address Problem: ")
	b.WriteString(problem.Key)
	b.WriteString("\n\nProblem Summary: ")
	b.WriteString(problem.Summary)
	if strings.TrimSpace(problem.Description) != "" {
		b.WriteString("\n\nProblem Description:\n")
		b.WriteString(problem.Description)
	}
	b.WriteString("\n\nPlease review the linked problem for full details and implement the necessary changes.")
	return b.String()
}
