// 알림 처리 비즈니스 로직 정의
// 인증/검증이 끝난 AlertPayload를 받아 Incident를 만들고 Problem에 연결
//
// 처리 흐름:
//  1. 중복 억제: 같은 (ciId, alertType, summary)의 열린 Incident가
//     최근 윈도우 안에 있으면 재사용 (설정으로 비활성화 가능)
//  2. CMDB enrichment (best-effort, 타임아웃 내 반환 보장)
//     - 어떤 outcome이든 Incident 생성을 막지 않음. fallback 값으로 진행.
//  3. Incident 생성 (실패 시 요청 전체 실패 - 호출자에게 전파)
//  4. CI 기준 Problem 상관관계/링크 (best-effort, 결과는 응답에 노출)

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/itil-bridge/backend/internal/db"
	"github.com/itil-bridge/backend/internal/model"
)

// enricher - CMDB enrichment 인터페이스
type enricher interface {
	Enrich(ctx context.Context, ciID string) model.CIEnrichment
}

// dedupStore - 중복 억제 조회 인터페이스
type dedupStore interface {
	FindRecentOpenIncident(ctx context.Context, ciID, alertType, summary string, since time.Time) (*model.Ticket, error)
}

// AlertService 구조체 정의
type AlertService struct {
	tickets     *TicketService
	linking     *LinkingService
	cmdb        enricher
	dedup       dedupStore
	dedupWindow time.Duration
}

// AlertService 객체 생성
func NewAlertService(tickets *TicketService, linking *LinkingService, cmdb enricher, dedup dedupStore, dedupWindowMinutes int) *AlertService {
	return &AlertService{
		tickets:     tickets,
		linking:     linking,
		cmdb:        cmdb,
		dedup:       dedup,
		dedupWindow: time.Duration(dedupWindowMinutes) * time.Minute,
	}
}

// AlertResult - 웹훅 응답에 들어가는 처리 결과
type AlertResult struct {
	Incident      *model.Ticket
	LinkedProblem *model.Ticket
	Enrichment    model.CIEnrichment
	Deduplicated  bool
}

// ProcessAlert - 알림 1건 처리
// source/clientIP는 감사 로깅용 상관관계 식별자 (페이로드 전문은 로깅하지 않음)
func (s *AlertService) ProcessAlert(ctx context.Context, payload *model.AlertPayload, source, clientIP string) (*AlertResult, error) {
	// 1. 중복 억제
	if dup := s.findDuplicate(ctx, payload); dup != nil {
		log.Printf("Deduplicated alert from source=%s client_ip=%s into existing ticket=%s",
			source, clientIP, dup.Key)
		return &AlertResult{Incident: dup, Deduplicated: true}, nil
	}

	// 2. CMDB enrichment - 실패해도 fallback으로 계속 진행
	enrichment := model.CIEnrichment{Status: model.EnrichmentDisabled}
	if payload.CIID != "" {
		enrichment = s.cmdb.Enrich(ctx, payload.CIID)
	}

	// 3. Incident 생성
	incident, err := s.tickets.CreateIncident(ctx, IncidentInput{
		Summary:     payload.Summary,
		Description: buildIncidentDescription(payload, enrichment),
		CIID:        payload.CIID,
		Service:     payload.Service,
		Severity:    payload.Severity,
		AlertType:   payload.AlertType,
		Source:      source,
	})
	if err != nil {
		return nil, err
	}

	result := &AlertResult{Incident: incident, Enrichment: enrichment}

	// 4. Problem 상관관계 - 실패해도 Incident는 유지, 결과만 보고
	if payload.CIID != "" {
		problem, err := s.linking.LinkIncidentToProblem(ctx, incident.ID, payload.CIID)
		if err != nil {
			log.Printf("Linking failed for ticket=%s ci=%s source=%s: %v",
				incident.Key, payload.CIID, source, err)
		} else if problem != nil {
			result.LinkedProblem = problem
			log.Printf("Linked ticket=%s to problem=%s for ci=%s", incident.Key, problem.Key, payload.CIID)
		}
	}

	return result, nil
}

// findDuplicate - 중복 억제 윈도우 안의 동일 알림 조회
// 조회 실패는 중복 아님으로 처리 (억제는 최적화일 뿐 정확성 요건이 아님)
func (s *AlertService) findDuplicate(ctx context.Context, payload *model.AlertPayload) *model.Ticket {
	if s.dedupWindow <= 0 || payload.CIID == "" {
		return nil
	}

	since := time.Now().Add(-s.dedupWindow)
	dup, err := s.dedup.FindRecentOpenIncident(ctx, payload.CIID, payload.AlertType, payload.Summary, since)
	if err != nil {
		if !errors.Is(err, db.ErrTicketNotFound) {
			log.Printf("Dedup lookup failed for ci=%s: %v", payload.CIID, err)
		}
		return nil
	}
	return dup
}

// buildIncidentDescription - 알림 내용 + CI 컨텍스트로 설명 구성
// enrichment가 실패해도 raw ciId와 fallback 문구로 항상 채워짐
func buildIncidentDescription(payload *model.AlertPayload, enrichment model.CIEnrichment) string {
	desc := payload.Description
	if desc == "" {
		desc = payload.Summary
	}

	out := desc
	if payload.CIID != "" {
		ciName := payload.CIID
		if enrichment.Status == model.EnrichmentFound && enrichment.Record != nil && enrichment.Record.Hostname != "" {
			ciName = enrichment.Record.Hostname
		}
		out += fmt.Sprintf("\n\nConfiguration Item: %s\nCI Location: %s", ciName, enrichment.DisplayLocation())

		if enrichment.Status == model.EnrichmentFound && enrichment.Record != nil {
			if enrichment.Record.Environment != "" {
				out += "\nCI Environment: " + enrichment.Record.Environment
			}
			if enrichment.Record.ViewURL != "" {
				out += "\nCMDB: " + enrichment.Record.ViewURL
			}
		}
	}

	if payload.Environment != "" {
		out += "\nAlert Environment: " + payload.Environment
	}
	if payload.Component != "" {
		out += "\nComponent: " + payload.Component
	}
	if len(payload.Tags) > 0 {
		out += "\nTags:"
		for _, tag := range payload.Tags {
			out += " " + tag
		}
	}

	return out
}
