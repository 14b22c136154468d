// Incident-Problem 상관관계/링크 비즈니스 로직
//
// 정책:
//  - 같은 CI의 열린 Problem이 정확히 하나면 Relates로 링크
//  - 없으면 링크하지 않음 (Problem 자동 생성은 운영자 판단, 여기서 하지 않음)
//  - 여러 개면 가장 최근 생성된 것에 링크하고 모호성을 감사 로그로 남김
//
// 링크 실패는 이미 생성된 Incident를 되돌리지 않음. 결과는 호출자에게
// 명시적으로 반환되어 응답 메타데이터로 노출됨 (조용히 버리지 않음).

package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/itil-bridge/backend/internal/model"
)

// ErrLinkFailed - Store 레벨 링크 실패 (best-effort, 상위 작업은 유지)
var ErrLinkFailed = errors.New("link creation failed")

// linkStore - 상관관계 조회/링크 생성 인터페이스
type linkStore interface {
	FindTicketsByCI(ctx context.Context, ciID, status, kind string) ([]model.Ticket, error)
	CreateLink(ctx context.Context, sourceID, destID, linkType string) (bool, error)
}

// LinkingService 구조체 정의
type LinkingService struct {
	store linkStore
}

func NewLinkingService(store linkStore) *LinkingService {
	return &LinkingService{store: store}
}

// LinkIncidentToProblem - 새 Incident를 같은 CI의 열린 Problem에 링크
// 반환값: 링크된 Problem (없으면 nil), 에러
// 같은 (incident, problem) 쌍으로 재호출해도 중복 엣지가 생기지 않음.
func (s *LinkingService) LinkIncidentToProblem(ctx context.Context, incidentID, ciID string) (*model.Ticket, error) {
	if ciID == "" {
		return nil, nil
	}

	problems, err := s.store.FindTicketsByCI(ctx, ciID, model.StatusOpen, model.KindProblem)
	if err != nil {
		return nil, fmt.Errorf("%w: searching problems for ci=%s: %v", ErrLinkFailed, ciID, err)
	}
	if len(problems) == 0 {
		// Problem 자동 생성 안 함
		return nil, nil
	}

	// FindTicketsByCI는 created_at DESC 정렬이므로 첫 항목이 가장 최근 (deterministic tie-break)
	target := problems[0]
	if len(problems) > 1 {
		log.Printf("AUDIT: ambiguous correlation for ci=%s: %d open problems, linking to most recent %s",
			ciID, len(problems), target.Key)
	}

	created, err := s.store.CreateLink(ctx, incidentID, target.ID, model.LinkRelates)
	if err != nil {
		return nil, fmt.Errorf("%w: incident=%s problem=%s: %v", ErrLinkFailed, incidentID, target.ID, err)
	}
	if !created {
		log.Printf("Link already exists: incident=%s problem=%s type=%s", incidentID, target.ID, model.LinkRelates)
	}

	return &target, nil
}
