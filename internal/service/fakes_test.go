// service 패키지 테스트 공용 인메모리 fake Store

package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/itil-bridge/backend/internal/db"
	"github.com/itil-bridge/backend/internal/model"
)

type fakeStore struct {
	tickets  map[string]*model.Ticket
	links    []model.Link
	comments map[string][]string
	policy   *model.SLAPolicy
	seq      int

	createErr     error
	linkErr       error
	transitionErr error
	assignErr     error
	commentErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tickets:  make(map[string]*model.Ticket),
		comments: make(map[string][]string),
	}
}

// add - 테스트 픽스처 삽입
func (f *fakeStore) add(t model.Ticket) *model.Ticket {
	f.seq++
	if t.ID == "" {
		t.ID = fmt.Sprintf("id-%d", f.seq)
	}
	if t.Key == "" {
		t.Key = fmt.Sprintf("ITSM-%d", f.seq)
	}
	if t.Status == "" {
		t.Status = model.StatusOpen
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	f.tickets[t.ID] = &t
	return f.tickets[t.ID]
}

func (f *fakeStore) CreateTicket(ctx context.Context, input model.CreateTicketInput) (*model.Ticket, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	t := &model.Ticket{
		ID:          fmt.Sprintf("id-%d", f.seq),
		Key:         fmt.Sprintf("%s-%d", input.ProjectKey, f.seq),
		Kind:        input.Kind,
		ProjectKey:  input.ProjectKey,
		Summary:     input.Summary,
		Description: input.Description,
		CIID:        input.CIID,
		Service:     input.Service,
		Severity:    input.Severity,
		AlertType:   input.AlertType,
		Source:      input.Source,
		Status:      model.StatusOpen,
		CreatedAt:   time.Now(),
	}
	f.tickets[t.ID] = t
	copied := *t
	return &copied, nil
}

func (f *fakeStore) GetTicket(ctx context.Context, id string) (*model.Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, db.ErrTicketNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeStore) CreateLink(ctx context.Context, sourceID, destID, linkType string) (bool, error) {
	if f.linkErr != nil {
		return false, f.linkErr
	}
	for _, l := range f.links {
		if l.SourceID == sourceID && l.DestID == destID && l.Type == linkType {
			return false, nil
		}
	}
	f.links = append(f.links, model.Link{SourceID: sourceID, DestID: destID, Type: linkType, CreatedAt: time.Now()})
	return true, nil
}

func (f *fakeStore) ListLinks(ctx context.Context, sourceID string) ([]model.Link, error) {
	var out []model.Link
	for _, l := range f.links {
		if l.SourceID == sourceID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) TransitionTicket(ctx context.Context, id, status string) error {
	if f.transitionErr != nil {
		return f.transitionErr
	}
	t, ok := f.tickets[id]
	if !ok {
		return db.ErrTicketNotFound
	}
	t.Status = status
	return nil
}

func (f *fakeStore) AddComment(ctx context.Context, ticketID, author, body string) error {
	if f.commentErr != nil {
		return f.commentErr
	}
	f.comments[ticketID] = append(f.comments[ticketID], body)
	return nil
}

func (f *fakeStore) UpdateAssignee(ctx context.Context, id, assignee string) error {
	if f.assignErr != nil {
		return f.assignErr
	}
	t, ok := f.tickets[id]
	if !ok {
		return db.ErrTicketNotFound
	}
	t.Assignee = assignee
	return nil
}

func (f *fakeStore) FindTicketsByCI(ctx context.Context, ciID, status, kind string) ([]model.Ticket, error) {
	var out []model.Ticket
	for _, t := range f.tickets {
		if t.CIID == ciID && t.Status == status && t.Kind == kind {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) FindOpenTickets(ctx context.Context, kinds []string) ([]model.Ticket, error) {
	var out []model.Ticket
	for _, t := range f.tickets {
		if !t.Open() {
			continue
		}
		for _, k := range kinds {
			if t.Kind == k {
				out = append(out, *t)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) FindRecentOpenIncident(ctx context.Context, ciID, alertType, summary string, since time.Time) (*model.Ticket, error) {
	for _, t := range f.tickets {
		if t.Kind == model.KindIncident && t.Open() &&
			t.CIID == ciID && t.AlertType == alertType && t.Summary == summary &&
			t.CreatedAt.After(since) {
			copied := *t
			return &copied, nil
		}
	}
	return nil, db.ErrTicketNotFound
}

func (f *fakeStore) MarkEscalated(ctx context.Context, id string, fromLevel int, at time.Time) (bool, error) {
	t, ok := f.tickets[id]
	if !ok {
		return false, db.ErrTicketNotFound
	}
	if t.EscalationLevel != fromLevel {
		return false, nil
	}
	t.EscalationLevel = fromLevel + 1
	escalatedAt := at
	t.EscalatedAt = &escalatedAt
	return true, nil
}

func (f *fakeStore) GetSLAPolicy(ctx context.Context) (*model.SLAPolicy, error) {
	if f.policy == nil {
		return nil, fmt.Errorf("no policy row")
	}
	copied := *f.policy
	return &copied, nil
}

func (f *fakeStore) countKind(kind string) int {
	n := 0
	for _, t := range f.tickets {
		if t.Kind == kind {
			n++
		}
	}
	return n
}

// fakeEnricher - 고정 outcome을 반환하는 CMDB fake
type fakeEnricher struct {
	enrichment model.CIEnrichment
	calls      int
}

func (f *fakeEnricher) Enrich(ctx context.Context, ciID string) model.CIEnrichment {
	f.calls++
	return f.enrichment
}

// fakeNotifier - 에스컬레이션 알림 기록용
type fakeNotifier struct {
	configured bool
	notified   []string
}

func (f *fakeNotifier) IsConfigured() bool { return f.configured }

func (f *fakeNotifier) NotifyEscalation(ticket model.Ticket, level int, assignee string) error {
	f.notified = append(f.notified, fmt.Sprintf("%s:%d:%s", ticket.Key, level, assignee))
	return nil
}
