package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/itil-bridge/backend/internal/model"
)

func TestValidateRejectsBadPayloads(t *testing.T) {
	v := NewWebhookValidator(1024)

	cases := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"empty body", "", ErrMalformedPayload},
		{"not json", "summary=disk full", ErrMalformedPayload},
		{"missing summary", `{"severity":"High"}`, ErrMissingSummary},
		{"whitespace summary", `{"summary":"   "}`, ErrMissingSummary},
		{"summary only dangerous chars", `{"summary":"<>&\"'"}`, ErrMissingSummary},
		{"oversized", `{"summary":"` + strings.Repeat("a", 2048) + `"}`, ErrPayloadTooLarge},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Validate([]byte(tc.body))
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateSanitizesFields(t *testing.T) {
	v := NewWebhookValidator(0)

	body := `{
		"summary": "  <script>alert(1)</script>disk full on db-01  ",
		"description": "usage > 95%",
		"ciId": "srv-001",
		"service": "DB",
		"severity": "High",
		"tags": ["<b>urgent</b>", "  ", "storage"]
	}`

	payload, err := v.Validate([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.ContainsAny(payload.Summary, "<>&\"'") {
		t.Errorf("summary still contains dangerous characters: %q", payload.Summary)
	}
	if !strings.Contains(payload.Summary, "disk full on db-01") {
		t.Errorf("summary lost legitimate content: %q", payload.Summary)
	}
	if payload.Severity != model.SeverityHigh {
		t.Errorf("expected severity High, got %q", payload.Severity)
	}
	if len(payload.Tags) != 2 {
		t.Fatalf("expected 2 tags after cleanup, got %v", payload.Tags)
	}
}

func TestValidateDefaults(t *testing.T) {
	v := NewWebhookValidator(0)

	payload, err := v.Validate([]byte(`{"summary":"ping loss","severity":"catastrophic"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Severity != model.SeverityMedium {
		t.Errorf("unknown severity should default to Medium, got %q", payload.Severity)
	}
	if payload.AlertType != model.KindIncident {
		t.Errorf("missing alertType should default to Incident, got %q", payload.AlertType)
	}
}

func TestValidateCapsFieldLength(t *testing.T) {
	v := NewWebhookValidator(1 << 20)

	long := strings.Repeat("x", 5000)
	payload, err := v.Validate([]byte(`{"summary":"` + long + `"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len([]rune(payload.Summary)) > 1000 {
		t.Errorf("summary not truncated: %d runes", len([]rune(payload.Summary)))
	}
}
