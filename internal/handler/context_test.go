package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/itil-bridge/backend/internal/db"
	"github.com/itil-bridge/backend/internal/model"
)

type fakeTicketGetter struct {
	ticket *model.Ticket
}

func (f *fakeTicketGetter) GetTicket(ctx context.Context, id string) (*model.Ticket, error) {
	if f.ticket == nil || f.ticket.ID != id {
		return nil, db.ErrTicketNotFound
	}
	return f.ticket, nil
}

type fakeCIEnricher struct {
	enrichment model.CIEnrichment
	calls      int
}

func (f *fakeCIEnricher) Enrich(ctx context.Context, ciID string) model.CIEnrichment {
	f.calls++
	return f.enrichment
}

func getCIContext(store ticketGetter, cmdb ciEnricher, id string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/v1/tickets/:id/ci-context", NewCIContextHandler(store, cmdb).Get)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets/"+id+"/ci-context", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestCIContextFound(t *testing.T) {
	store := &fakeTicketGetter{ticket: &model.Ticket{ID: "id-1", CIID: "srv-001"}}
	cmdb := &fakeCIEnricher{enrichment: model.CIEnrichment{
		Status: model.EnrichmentFound,
		Record: &model.CIRecord{ID: "srv-001", Hostname: "db-01.prod", Location: "Seoul DC", IPAddress: "10.20.30.40"},
	}}

	w := getCIContext(store, cmdb, "id-1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp model.CIContextResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.CIName != "db-01.prod" || resp.CILocation != "Seoul DC" || resp.CIIPAddress != "10.20.30.40" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

// CI 미연결 티켓은 CMDB를 호출하지 않고 고정 문구로 응답
func TestCIContextNoCILinked(t *testing.T) {
	store := &fakeTicketGetter{ticket: &model.Ticket{ID: "id-1"}}
	cmdb := &fakeCIEnricher{}

	w := getCIContext(store, cmdb, "id-1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp model.CIContextResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.CIName != "No CI linked" {
		t.Errorf("expected 'No CI linked', got %q", resp.CIName)
	}
	if cmdb.calls != 0 {
		t.Errorf("CMDB must not be called for CI-less tickets, got %d calls", cmdb.calls)
	}
}

// enrichment 실패는 에러 응답이 아니라 fallback 문구로 내려감
func TestCIContextEnrichmentFallbacks(t *testing.T) {
	cases := []struct {
		name         string
		status       model.EnrichmentStatus
		wantLocation string
	}{
		{"timeout", model.EnrichmentTimedOut, "CMDB timeout"},
		{"not found", model.EnrichmentNotFound, "Not found in CMDB"},
		{"disabled", model.EnrichmentDisabled, "CMDB not configured"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeTicketGetter{ticket: &model.Ticket{ID: "id-1", CIID: "srv-001"}}
			cmdb := &fakeCIEnricher{enrichment: model.CIEnrichment{Status: tc.status}}

			w := getCIContext(store, cmdb, "id-1")
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}

			var resp model.CIContextResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.CILocation != tc.wantLocation {
				t.Errorf("expected location %q, got %q", tc.wantLocation, resp.CILocation)
			}
			// raw CI id는 그대로 노출
			if resp.CIName != "srv-001" {
				t.Errorf("expected raw ci id as name, got %q", resp.CIName)
			}
		})
	}
}

func TestCIContextTicketNotFound(t *testing.T) {
	w := getCIContext(&fakeTicketGetter{}, &fakeCIEnricher{}, "missing")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
