package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/itil-bridge/backend/internal/model"
)

var testPolicy = model.SLAPolicy{
	CriticalMinutes:      30,
	HighMinutes:          120,
	MediumMinutes:        480,
	LowMinutes:           1440,
	SweepIntervalMinutes: 5,
}

func TestComputeEscalations(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		ticket model.Ticket
		want   bool
	}{
		{
			"critical past threshold",
			model.Ticket{Status: model.StatusOpen, Severity: model.SeverityCritical,
				CreatedAt: now.Add(-31 * time.Minute)},
			true,
		},
		{
			"critical within threshold",
			model.Ticket{Status: model.StatusOpen, Severity: model.SeverityCritical,
				CreatedAt: now.Add(-29 * time.Minute)},
			false,
		},
		{
			"critical exactly at threshold",
			model.Ticket{Status: model.StatusOpen, Severity: model.SeverityCritical,
				CreatedAt: now.Add(-30 * time.Minute)},
			false,
		},
		{
			"high past threshold",
			model.Ticket{Status: model.StatusInProgress, Severity: model.SeverityHigh,
				CreatedAt: now.Add(-3 * time.Hour)},
			true,
		},
		{
			"resolved ticket ignored",
			model.Ticket{Status: model.StatusResolved, Severity: model.SeverityCritical,
				CreatedAt: now.Add(-24 * time.Hour)},
			false,
		},
		{
			"ticket at max level ignored",
			model.Ticket{Status: model.StatusOpen, Severity: model.SeverityCritical,
				CreatedAt: now.Add(-24 * time.Hour), EscalationLevel: 1},
			false,
		},
		{
			// 알 수 없는 severity는 Medium 임계치 적용
			"unknown severity uses medium threshold",
			model.Ticket{Status: model.StatusOpen, Severity: "weird",
				CreatedAt: now.Add(-9 * time.Hour)},
			true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			actions := ComputeEscalations(now, []model.Ticket{tc.ticket}, testPolicy, 1)
			if got := len(actions) == 1; got != tc.want {
				t.Fatalf("expected escalation=%v, got %d actions", tc.want, len(actions))
			}
		})
	}
}

// level L 티켓은 (L+1) x 임계치를 넘어야 다음 레벨 대상이 됨
func TestComputeEscalationsMultiTier(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		ticket   model.Ticket
		maxLevel int
		want     bool
	}{
		{
			"level 1 before doubled threshold",
			model.Ticket{Status: model.StatusOpen, Severity: model.SeverityCritical,
				CreatedAt: now.Add(-50 * time.Minute), EscalationLevel: 1},
			2, false,
		},
		{
			"level 1 past doubled threshold",
			model.Ticket{Status: model.StatusOpen, Severity: model.SeverityCritical,
				CreatedAt: now.Add(-65 * time.Minute), EscalationLevel: 1},
			2, true,
		},
		{
			"level equal to max never re-escalates",
			model.Ticket{Status: model.StatusOpen, Severity: model.SeverityCritical,
				CreatedAt: now.Add(-10 * time.Hour), EscalationLevel: 2},
			2, false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			actions := ComputeEscalations(now, []model.Ticket{tc.ticket}, testPolicy, tc.maxLevel)
			if got := len(actions) == 1; got != tc.want {
				t.Fatalf("expected escalation=%v, got %d actions", tc.want, len(actions))
			}
			if tc.want && actions[0].FromLevel != tc.ticket.EscalationLevel {
				t.Errorf("expected FromLevel %d, got %d", tc.ticket.EscalationLevel, actions[0].FromLevel)
			}
		})
	}
}

func TestSweepEscalatesOverdueTicket(t *testing.T) {
	store := newFakeStore()
	store.policy = &testPolicy
	overdue := store.add(model.Ticket{
		Kind: model.KindIncident, Severity: model.SeverityCritical,
		Assignee: "oncall", CreatedAt: time.Now().Add(-1 * time.Hour),
	})

	notifier := &fakeNotifier{configured: true}
	svc := NewEscalationService(store, notifier, testPolicy, []string{"l2-oncall", "ops-manager"})

	stats := svc.Sweep(context.Background())
	if stats.Escalated != 1 {
		t.Fatalf("expected 1 escalation, got %+v", stats)
	}

	got := store.tickets[overdue.ID]
	if got.EscalationLevel != 1 {
		t.Errorf("expected escalation level 1, got %d", got.EscalationLevel)
	}
	if got.EscalatedAt == nil {
		t.Error("expected escalatedAt to be set")
	}
	if got.Assignee != "l2-oncall" {
		t.Errorf("expected reassignment to l2-oncall, got %q", got.Assignee)
	}

	comments := store.comments[overdue.ID]
	if len(comments) != 1 || !strings.Contains(comments[0], "SLA escalation") {
		t.Errorf("expected SLA escalation comment, got %v", comments)
	}
	if len(notifier.notified) != 1 {
		t.Errorf("expected 1 notification, got %v", notifier.notified)
	}
}

// 두 번째 tier는 임계치의 두 배를 넘긴 다음 스윕에서 도달하고, 그 이후로는 멈춤
func TestSweepReachesSecondTierThenStops(t *testing.T) {
	store := newFakeStore()
	store.policy = &testPolicy
	overdue := store.add(model.Ticket{
		Kind: model.KindIncident, Severity: model.SeverityCritical,
		CreatedAt: time.Now().Add(-2 * time.Hour),
	})

	svc := NewEscalationService(store, nil, testPolicy, []string{"l2-oncall", "ops-manager"})

	if stats := svc.Sweep(context.Background()); stats.Escalated != 1 {
		t.Fatalf("first sweep: expected 1 escalation, got %+v", stats)
	}
	if got := store.tickets[overdue.ID]; got.EscalationLevel != 1 || got.Assignee != "l2-oncall" {
		t.Fatalf("after first sweep: level=%d assignee=%q", got.EscalationLevel, got.Assignee)
	}

	// 경과 2h > 2 x 30m -> 레벨 2로 재에스컬레이션
	if stats := svc.Sweep(context.Background()); stats.Escalated != 1 {
		t.Fatalf("second sweep: expected 1 escalation, got %+v", stats)
	}
	if got := store.tickets[overdue.ID]; got.EscalationLevel != 2 || got.Assignee != "ops-manager" {
		t.Fatalf("after second sweep: level=%d assignee=%q", got.EscalationLevel, got.Assignee)
	}

	// 마지막 tier 도달 후에는 더 올라가지 않음
	if stats := svc.Sweep(context.Background()); stats.Escalated != 0 {
		t.Fatalf("third sweep: expected 0 escalations, got %+v", stats)
	}
	if len(store.comments[overdue.ID]) != 2 {
		t.Errorf("expected 2 escalation comments, got %d", len(store.comments[overdue.ID]))
	}
}

// 같은 레벨의 breach window 안에서 연속 스윕이 중복 에스컬레이션하면 안 됨
func TestSweepIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.policy = &testPolicy
	overdue := store.add(model.Ticket{
		Kind: model.KindIncident, Severity: model.SeverityCritical,
		CreatedAt: time.Now().Add(-1 * time.Hour),
	})

	svc := NewEscalationService(store, nil, testPolicy, []string{"l2-oncall"})

	first := svc.Sweep(context.Background())
	second := svc.Sweep(context.Background())

	if first.Escalated != 1 {
		t.Fatalf("first sweep: expected 1 escalation, got %+v", first)
	}
	if second.Escalated != 0 {
		t.Fatalf("second sweep: expected 0 escalations, got %+v", second)
	}
	if store.tickets[overdue.ID].EscalationLevel != 1 {
		t.Errorf("escalation level must stay 1, got %d", store.tickets[overdue.ID].EscalationLevel)
	}
	if len(store.comments[overdue.ID]) != 1 {
		t.Errorf("expected exactly one escalation comment, got %d", len(store.comments[overdue.ID]))
	}
}

// 다른 스윕이 먼저 마커를 선점한 경우 skipped로 집계
func TestSweepSkipsWhenMarkerAlreadyClaimed(t *testing.T) {
	store := newFakeStore()
	store.policy = &testPolicy
	overdue := store.add(model.Ticket{
		Kind: model.KindIncident, Severity: model.SeverityCritical,
		CreatedAt: time.Now().Add(-1 * time.Hour),
	})

	svc := NewEscalationService(store, nil, testPolicy, nil)

	// 경쟁 스윕이 먼저 레벨을 올린 상황을 재현
	tickets, _ := store.FindOpenTickets(context.Background(), []string{model.KindIncident})
	actions := ComputeEscalations(time.Now(), tickets, testPolicy, 1)
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	if _, err := store.MarkEscalated(context.Background(), overdue.ID, 0, time.Now()); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	if err := svc.escalate(context.Background(), actions[0]); err != errAlreadyEscalated {
		t.Fatalf("expected errAlreadyEscalated, got %v", err)
	}
	if len(store.comments[overdue.ID]) != 0 {
		t.Errorf("lost claim must not add comments, got %v", store.comments[overdue.ID])
	}
}

func TestSweepUsesStoredPolicyOverDefault(t *testing.T) {
	store := newFakeStore()
	// Store 정책이 기본값보다 느슨함: 50분 경과 티켓은 아직 미위반
	store.policy = &model.SLAPolicy{CriticalMinutes: 60, HighMinutes: 120,
		MediumMinutes: 480, LowMinutes: 1440, SweepIntervalMinutes: 5}
	store.add(model.Ticket{
		Kind: model.KindIncident, Severity: model.SeverityCritical,
		CreatedAt: time.Now().Add(-50 * time.Minute),
	})

	svc := NewEscalationService(store, nil, testPolicy, nil)
	stats := svc.Sweep(context.Background())
	if stats.Escalated != 0 {
		t.Fatalf("stored policy should apply, got %+v", stats)
	}
}

func TestTierAssignee(t *testing.T) {
	svc := NewEscalationService(newFakeStore(), nil, testPolicy, []string{"l2-oncall", "ops-manager"})

	cases := []struct {
		level int
		want  string
	}{
		{0, ""},
		{1, "l2-oncall"},
		{2, "ops-manager"},
		{3, "ops-manager"}, // tier를 넘어서면 마지막 tier 유지
	}
	for _, tc := range cases {
		if got := svc.tierAssignee(tc.level); got != tc.want {
			t.Errorf("tierAssignee(%d) = %q, want %q", tc.level, got, tc.want)
		}
	}
}
