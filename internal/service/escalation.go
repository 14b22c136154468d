// SLA 에스컬레이션 스케줄러
//
// 스윕 사이클 상태: Idle -> Scanning -> Escalating -> Idle
//  - Scanning: 열린 Incident/Problem 중 severity별 임계치를 넘긴 티켓 선별
//    (순수 함수 ComputeEscalations - 스케줄러 없이 단독 테스트 가능)
//  - Escalating: 레벨당 정확히 한 번 에스컬레이션 수행
//    - level L 티켓은 경과 시간이 (L+1) x 임계치를 넘으면 다음 레벨로 올라감
//      (tier 수에 도달하면 더 이상 올라가지 않음)
//    - durable 마커(escalation_level/escalated_at)를 낙관적 가드로 올림
//    - 마커 선점 실패 = 다른 스윕이 이미 처리 -> 건너뜀
//    - 다음 tier로 재배정 + 에스컬레이션 코멘트 + (설정 시) Slack 알림
//
// 개별 티켓 실패는 수집/로깅만 하고 스윕은 계속 진행됨.
// 웹훅 처리와 락을 공유하지 않으며, Store의 일관성 보장에만 의존.

package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/itil-bridge/backend/internal/model"
)

// escalationStore - 스윕이 사용하는 Ticket Store 인터페이스
type escalationStore interface {
	FindOpenTickets(ctx context.Context, kinds []string) ([]model.Ticket, error)
	MarkEscalated(ctx context.Context, id string, fromLevel int, at time.Time) (bool, error)
	UpdateAssignee(ctx context.Context, id, assignee string) error
	AddComment(ctx context.Context, ticketID, author, body string) error
	GetSLAPolicy(ctx context.Context) (*model.SLAPolicy, error)
}

// escalationNotifier - 에스컬레이션 알림 채널 (선택)
type escalationNotifier interface {
	IsConfigured() bool
	NotifyEscalation(ticket model.Ticket, level int, assignee string) error
}

// EscalationService 구조체 정의
type EscalationService struct {
	store    escalationStore
	notifier escalationNotifier

	// defaultPolicy: Store 조회 실패 시 사용하는 환경변수 기본값
	defaultPolicy model.SLAPolicy

	// tiers: level 1부터 순서대로 배정되는 담당자
	tiers []string
}

func NewEscalationService(store escalationStore, notifier escalationNotifier, defaultPolicy model.SLAPolicy, tiers []string) *EscalationService {
	return &EscalationService{
		store:         store,
		notifier:      notifier,
		defaultPolicy: defaultPolicy,
		tiers:         tiers,
	}
}

// EscalationAction - 스캔 단계가 산출하는 에스컬레이션 대상
type EscalationAction struct {
	Ticket    model.Ticket
	FromLevel int
	Age       time.Duration
	Threshold time.Duration
}

// ComputeEscalations - 순수 함수: (now, 열린 티켓, 임계치, 최대 레벨) -> 에스컬레이션 대상
// level L 티켓은 경과 시간이 (L+1) x 임계치를 넘어야 다음 레벨 대상이 됨.
// 같은 레벨에서의 재에스컬레이션은 durable 마커(escalation_level)가 막음.
func ComputeEscalations(now time.Time, tickets []model.Ticket, policy model.SLAPolicy, maxLevel int) []EscalationAction {
	if maxLevel <= 0 {
		maxLevel = 1
	}

	var actions []EscalationAction
	for _, t := range tickets {
		if !t.Open() {
			continue
		}
		// 마지막 tier까지 올라간 티켓은 더 이상 에스컬레이션하지 않음
		if t.EscalationLevel >= maxLevel {
			continue
		}

		threshold := time.Duration(policy.ThresholdMinutes(t.Severity)) * time.Minute
		if threshold <= 0 {
			continue
		}

		required := threshold * time.Duration(t.EscalationLevel+1)
		age := now.Sub(t.CreatedAt)
		if age <= required {
			continue
		}

		actions = append(actions, EscalationAction{
			Ticket:    t,
			FromLevel: t.EscalationLevel,
			Age:       age,
			Threshold: required,
		})
	}
	return actions
}

// SweepStats - 스윕 1회 결과
type SweepStats struct {
	Scanned   int
	Escalated int
	Skipped   int
	Failed    int
}

// Sweep - 스윕 1회 실행
func (s *EscalationService) Sweep(ctx context.Context) SweepStats {
	var stats SweepStats

	policy := s.policy(ctx)

	tickets, err := s.store.FindOpenTickets(ctx, []string{model.KindIncident, model.KindProblem})
	if err != nil {
		log.Printf("Escalation sweep: failed to scan open tickets: %v", err)
		return stats
	}
	stats.Scanned = len(tickets)

	actions := ComputeEscalations(time.Now(), tickets, policy, s.maxLevel())

	for _, action := range actions {
		if ctx.Err() != nil {
			log.Printf("Escalation sweep cancelled after %d/%d actions", stats.Escalated, len(actions))
			return stats
		}

		switch err := s.escalate(ctx, action); {
		case err == nil:
			stats.Escalated++
		case err == errAlreadyEscalated:
			stats.Skipped++
		default:
			// 개별 실패는 스윕을 멈추지 않음
			log.Printf("Escalation failed for %s: %v", action.Ticket.Key, err)
			stats.Failed++
		}
	}

	if stats.Escalated > 0 || stats.Failed > 0 {
		log.Printf("Escalation sweep done: scanned=%d escalated=%d skipped=%d failed=%d",
			stats.Scanned, stats.Escalated, stats.Skipped, stats.Failed)
	}
	return stats
}

var errAlreadyEscalated = fmt.Errorf("already escalated by another sweep")

// escalate - 티켓 하나 에스컬레이션
// 마커를 먼저 선점하므로, 스윕이 경합해도 액션은 티켓당 최대 한 번.
func (s *EscalationService) escalate(ctx context.Context, action EscalationAction) error {
	now := time.Now()

	claimed, err := s.store.MarkEscalated(ctx, action.Ticket.ID, action.FromLevel, now)
	if err != nil {
		return fmt.Errorf("marking escalation: %w", err)
	}
	if !claimed {
		return errAlreadyEscalated
	}

	newLevel := action.FromLevel + 1
	assignee := s.tierAssignee(newLevel)

	// 재배정: 다음 tier 담당자가 설정된 경우에만
	if assignee != "" && assignee != action.Ticket.Assignee {
		if err := s.store.UpdateAssignee(ctx, action.Ticket.ID, assignee); err != nil {
			// 마커는 이미 기록됨 - 코멘트로라도 breach를 남기러 계속 진행
			log.Printf("Escalation reassign failed for %s: %v", action.Ticket.Key, err)
		}
	}

	comment := fmt.Sprintf(
		"SLA escalation: %s ticket open for %s (threshold %s). Escalated to level %d%s.",
		action.Ticket.Severity,
		action.Age.Round(time.Minute),
		action.Threshold,
		newLevel,
		assigneeSuffix(assignee),
	)
	if err := s.store.AddComment(ctx, action.Ticket.ID, "sla-escalation", comment); err != nil {
		return fmt.Errorf("adding escalation comment: %w", err)
	}

	log.Printf("Escalated %s (severity=%s, age=%s, level=%d, assignee=%s)",
		action.Ticket.Key, action.Ticket.Severity, action.Age.Round(time.Minute), newLevel, assignee)

	// Slack 알림은 best-effort
	if s.notifier != nil && s.notifier.IsConfigured() {
		if err := s.notifier.NotifyEscalation(action.Ticket, newLevel, assignee); err != nil {
			log.Printf("Escalation notification failed for %s: %v", action.Ticket.Key, err)
		}
	}

	return nil
}

// Run - 독립 타이머로 스윕 반복 실행 (웹훅 트래픽과 무관)
// ctx 취소 시 종료. 주기는 Store의 SLA 정책에서 매 사이클 다시 읽음.
func (s *EscalationService) Run(ctx context.Context) {
	interval := s.sweepInterval(ctx)
	log.Printf("Escalation scheduler started (interval=%s)", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("Escalation scheduler stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)

			// 설정 변경 반영
			if next := s.sweepInterval(ctx); next != interval {
				interval = next
				ticker.Reset(interval)
				log.Printf("Escalation sweep interval changed to %s", interval)
			}
		}
	}
}

func (s *EscalationService) policy(ctx context.Context) model.SLAPolicy {
	p, err := s.store.GetSLAPolicy(ctx)
	if err != nil || p == nil {
		return s.defaultPolicy
	}
	return *p
}

func (s *EscalationService) sweepInterval(ctx context.Context) time.Duration {
	minutes := s.policy(ctx).SweepIntervalMinutes
	if minutes <= 0 {
		minutes = 5
	}
	return time.Duration(minutes) * time.Minute
}

// maxLevel - 설정된 tier 수가 곧 최대 에스컬레이션 레벨
func (s *EscalationService) maxLevel() int {
	if len(s.tiers) == 0 {
		return 1
	}
	return len(s.tiers)
}

// tierAssignee - level에 해당하는 담당자. tier를 넘어서면 마지막 tier 유지.
func (s *EscalationService) tierAssignee(level int) string {
	if len(s.tiers) == 0 || level <= 0 {
		return ""
	}
	if level > len(s.tiers) {
		level = len(s.tiers)
	}
	return s.tiers[level-1]
}

func assigneeSuffix(assignee string) string {
	if assignee == "" {
		return ""
	}
	return " (reassigned to " + assignee + ")"
}
