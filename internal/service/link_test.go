package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/itil-bridge/backend/internal/model"
)

func TestLinkIncidentToProblemSingleMatch(t *testing.T) {
	store := newFakeStore()
	problem := store.add(model.Ticket{Kind: model.KindProblem, CIID: "srv-001"})
	incident := store.add(model.Ticket{Kind: model.KindIncident, CIID: "srv-001"})

	svc := NewLinkingService(store)
	linked, err := svc.LinkIncidentToProblem(context.Background(), incident.ID, "srv-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if linked == nil || linked.ID != problem.ID {
		t.Fatalf("expected problem %s, got %+v", problem.ID, linked)
	}
}

func TestLinkIncidentToProblemNoMatch(t *testing.T) {
	store := newFakeStore()
	// 닫힌 Problem은 상관관계 후보가 아님
	store.add(model.Ticket{Kind: model.KindProblem, CIID: "srv-001", Status: model.StatusClosed})
	incident := store.add(model.Ticket{Kind: model.KindIncident, CIID: "srv-001"})

	svc := NewLinkingService(store)
	linked, err := svc.LinkIncidentToProblem(context.Background(), incident.ID, "srv-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if linked != nil {
		t.Fatalf("expected no link, got %+v", linked)
	}
	if len(store.links) != 0 {
		t.Fatalf("no link rows expected, got %+v", store.links)
	}
}

func TestLinkIncidentToProblemEmptyCI(t *testing.T) {
	store := newFakeStore()
	svc := NewLinkingService(store)

	linked, err := svc.LinkIncidentToProblem(context.Background(), "id-1", "")
	if err != nil || linked != nil {
		t.Fatalf("expected nil, nil for empty ci, got %+v, %v", linked, err)
	}
}

// 열린 Problem이 여러 개면 가장 최근 생성된 것을 결정적으로 선택
func TestLinkIncidentToProblemAmbiguousPicksMostRecent(t *testing.T) {
	store := newFakeStore()
	store.add(model.Ticket{Kind: model.KindProblem, CIID: "srv-001",
		CreatedAt: time.Now().Add(-2 * time.Hour)})
	newest := store.add(model.Ticket{Kind: model.KindProblem, CIID: "srv-001",
		CreatedAt: time.Now().Add(-10 * time.Minute)})
	incident := store.add(model.Ticket{Kind: model.KindIncident, CIID: "srv-001"})

	svc := NewLinkingService(store)
	linked, err := svc.LinkIncidentToProblem(context.Background(), incident.ID, "srv-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if linked == nil || linked.ID != newest.ID {
		t.Fatalf("expected most recent problem %s, got %+v", newest.ID, linked)
	}
}

// 같은 쌍으로 재호출해도 링크 엣지가 중복 생성되지 않음
func TestLinkIncidentToProblemDuplicateSafe(t *testing.T) {
	store := newFakeStore()
	store.add(model.Ticket{Kind: model.KindProblem, CIID: "srv-001"})
	incident := store.add(model.Ticket{Kind: model.KindIncident, CIID: "srv-001"})

	svc := NewLinkingService(store)
	for i := 0; i < 2; i++ {
		if _, err := svc.LinkIncidentToProblem(context.Background(), incident.ID, "srv-001"); err != nil {
			t.Fatalf("call %d failed: %v", i+1, err)
		}
	}
	if len(store.links) != 1 {
		t.Fatalf("expected exactly one link, got %d", len(store.links))
	}
}

func TestLinkIncidentToProblemStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.add(model.Ticket{Kind: model.KindProblem, CIID: "srv-001"})
	incident := store.add(model.Ticket{Kind: model.KindIncident, CIID: "srv-001"})
	store.linkErr = errors.New("store down")

	svc := NewLinkingService(store)
	_, err := svc.LinkIncidentToProblem(context.Background(), incident.ID, "srv-001")
	if !errors.Is(err, ErrLinkFailed) {
		t.Fatalf("expected ErrLinkFailed, got %v", err)
	}
}
