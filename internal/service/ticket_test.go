package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/itil-bridge/backend/internal/db"
	"github.com/itil-bridge/backend/internal/model"
)

func TestCreateIncidentValidation(t *testing.T) {
	svc := NewTicketService(newFakeStore(), "ITSM", nil)

	cases := []struct {
		name  string
		input IncidentInput
	}{
		{"empty summary", IncidentInput{Summary: ""}},
		{"whitespace summary", IncidentInput{Summary: "   "}},
		{"summary too long", IncidentInput{Summary: strings.Repeat("a", 1001)}},
		{"unknown severity", IncidentInput{Summary: "disk full", Severity: "catastrophic"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateIncident(context.Background(), tc.input)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestCreateIncidentStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("store down")
	svc := NewTicketService(store, "ITSM", nil)

	_, err := svc.CreateIncident(context.Background(), IncidentInput{Summary: "disk full"})
	if !errors.Is(err, ErrCreationFailed) {
		t.Fatalf("expected ErrCreationFailed, got %v", err)
	}
}

func TestCreateIncidentDefaultsSeverity(t *testing.T) {
	store := newFakeStore()
	svc := NewTicketService(store, "ITSM", nil)

	ticket, err := svc.CreateIncident(context.Background(), IncidentInput{Summary: "disk full"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ticket.Severity != model.SeverityMedium {
		t.Errorf("expected Medium severity, got %q", ticket.Severity)
	}
	if !strings.HasPrefix(ticket.Key, "ITSM-") {
		t.Errorf("expected project-prefixed key, got %q", ticket.Key)
	}
}

func TestCreateChangeFromProblem(t *testing.T) {
	store := newFakeStore()
	problem := store.add(model.Ticket{
		Kind: model.KindProblem, ProjectKey: "ITSM", Key: "ITSM-7",
		Summary: "recurring disk alerts", Description: "db-01 fills up weekly",
		CIID: "srv-001", Severity: model.SeverityHigh,
	})
	svc := NewTicketService(store, "ITSM", nil)

	result, err := svc.CreateChangeFromProblem(context.Background(), problem.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	change := result.Change
	if change.Kind != model.KindChange {
		t.Errorf("expected Change kind, got %q", change.Kind)
	}
	if change.CIID != "srv-001" {
		t.Errorf("change must copy the problem's CI, got %q", change.CIID)
	}
	if !strings.Contains(change.Summary, problem.Summary) {
		t.Errorf("change summary should reference the problem: %q", change.Summary)
	}
	if !strings.Contains(change.Description, "ITSM-7") {
		t.Errorf("change description should reference the problem key: %q", change.Description)
	}

	if !result.Linked || result.LinkType != model.LinkImplements {
		t.Fatalf("expected Implements link, got linked=%v type=%q", result.Linked, result.LinkType)
	}
}

func TestCreateChangeFromProblemLinkFallback(t *testing.T) {
	store := newFakeStore()
	problem := store.add(model.Ticket{Kind: model.KindProblem, ProjectKey: "ITSM", Summary: "p"})
	svc := NewTicketService(store, "ITSM", nil)

	// 링크 실패해도 Change 생성은 유지되고 Linked=false로 보고됨
	store.linkErr = errors.New("link table down")
	result, err := svc.CreateChangeFromProblem(context.Background(), problem.ID)
	if err != nil {
		t.Fatalf("change creation must survive link failure: %v", err)
	}
	if result.Linked {
		t.Error("expected Linked=false when link store fails")
	}
	if result.Change == nil {
		t.Fatal("change must still be created")
	}
}

func TestCreateChangeFromProblemWrongKind(t *testing.T) {
	store := newFakeStore()
	incident := store.add(model.Ticket{Kind: model.KindIncident, Summary: "disk full"})
	svc := NewTicketService(store, "ITSM", nil)

	_, err := svc.CreateChangeFromProblem(context.Background(), incident.ID)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for non-problem ticket, got %v", err)
	}
}

func TestCreateChangeFromProblemNotFound(t *testing.T) {
	svc := NewTicketService(newFakeStore(), "ITSM", nil)

	_, err := svc.CreateChangeFromProblem(context.Background(), "missing")
	if !errors.Is(err, db.ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestCloseChangeAndRelated(t *testing.T) {
	store := newFakeStore()
	change := store.add(model.Ticket{Kind: model.KindChange, Key: "ITSM-10"})
	openIncident := store.add(model.Ticket{Kind: model.KindIncident, Key: "ITSM-11"})
	resolvedProblem := store.add(model.Ticket{Kind: model.KindProblem, Key: "ITSM-12", Status: model.StatusResolved})

	store.links = append(store.links,
		model.Link{SourceID: change.ID, DestID: openIncident.ID, Type: model.LinkRelates},
		model.Link{SourceID: change.ID, DestID: resolvedProblem.ID, Type: model.LinkRelates},
	)

	svc := NewTicketService(store, "ITSM", nil)
	result, err := svc.CloseChangeAndRelated(context.Background(), change.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.tickets[change.ID].Status != model.StatusClosed {
		t.Errorf("change not closed: %q", store.tickets[change.ID].Status)
	}
	if store.tickets[openIncident.ID].Status != model.StatusClosed {
		t.Errorf("linked open incident not closed: %q", store.tickets[openIncident.ID].Status)
	}
	// 이미 Resolved인 티켓은 건너뜀
	if store.tickets[resolvedProblem.ID].Status != model.StatusResolved {
		t.Errorf("resolved problem must be left alone: %q", store.tickets[resolvedProblem.ID].Status)
	}

	if len(result.ClosedKeys) != 1 || result.ClosedKeys[0] != "ITSM-11" {
		t.Errorf("expected ClosedKeys [ITSM-11], got %v", result.ClosedKeys)
	}
	if len(result.SkippedKeys) != 1 || result.SkippedKeys[0] != "ITSM-12" {
		t.Errorf("expected SkippedKeys [ITSM-12], got %v", result.SkippedKeys)
	}
}

func TestCloseChangeWrongKind(t *testing.T) {
	store := newFakeStore()
	incident := store.add(model.Ticket{Kind: model.KindIncident})
	svc := NewTicketService(store, "ITSM", nil)

	_, err := svc.CloseChangeAndRelated(context.Background(), incident.ID)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for non-change ticket, got %v", err)
	}
}
