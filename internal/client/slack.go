// 외부 Slack API와 통신하는 클라이언트 정의
// 에스컬레이션 알림 전송 전용
//
// 환경변수:
//   - SLACK_BOT_TOKEN: Slack Bot Token (xoxb-...)
//   - SLACK_CHANNEL_ID: Slack 채널 ID (C...)
//
// 둘 중 하나라도 없으면 IsConfigured가 false를 반환하고 알림은 생략됨

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/itil-bridge/backend/internal/config"
	"github.com/itil-bridge/backend/internal/model"
)

// SlackClient 구조체 정의
type SlackClient struct {
	botToken   string
	channelID  string
	httpClient *http.Client
}

// SlackMessage(메시지 내용) 구조체 정의
type SlackMessage struct {
	Channel     string            `json:"channel"`
	Text        string            `json:"text,omitempty"`
	Attachments []SlackAttachment `json:"attachments,omitempty"`
}

// SlackAttachment(메시지 포맷) 구조체 정의
type SlackAttachment struct {
	// - Critical: #dc3545 (빨강)
	// - High: #fd7e14 (주황)
	// - 그 외: #ffc107 (노랑)
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Text   string       `json:"text"`
	Fields []SlackField `json:"fields,omitempty"`
}

// SlackField(메시지 포맷 필드) 구조체 정의
type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// SlackResponse(메시지 응답) 구조체 정의
type SlackResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	TS    string `json:"ts,omitempty"`
}

// SlackClient 객체 생성
func NewSlackClient(cfg config.SlackConfig) *SlackClient {
	return &SlackClient{
		botToken:  cfg.BotToken,
		channelID: cfg.ChannelID,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Bot Token과 Channel ID가 모두 설정되어 있는지 체크
func (c *SlackClient) IsConfigured() bool {
	return c.botToken != "" && c.channelID != ""
}

// NotifyEscalation - SLA breach 에스컬레이션 알림 전송
func (c *SlackClient) NotifyEscalation(ticket model.Ticket, level int, assignee string) error {
	if !c.IsConfigured() {
		return fmt.Errorf("slack bot token or channel ID not configured")
	}

	fields := []SlackField{
		{Title: "Ticket", Value: ticket.Key, Short: true},
		{Title: "Severity", Value: ticket.Severity, Short: true},
		{Title: "Escalation Level", Value: fmt.Sprintf("L%d", level), Short: true},
	}
	if assignee != "" {
		fields = append(fields, SlackField{Title: "Reassigned To", Value: assignee, Short: true})
	}
	if ticket.CIID != "" {
		fields = append(fields, SlackField{Title: "CI", Value: ticket.CIID, Short: true})
	}

	msg := SlackMessage{
		Channel: c.channelID,
		Attachments: []SlackAttachment{
			{
				Color:  severityColor(ticket.Severity),
				Title:  "⏰ SLA Escalation: " + ticket.Summary,
				Text:   fmt.Sprintf("%s has breached its SLA threshold and was escalated.", ticket.Key),
				Fields: fields,
			},
		},
	}

	_, err := c.send(msg)
	return err
}

// Slack API 호출
func (c *SlackClient) send(msg SlackMessage) (*SlackResponse, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequest("POST", "https://slack.com/api/chat.postMessage", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.botToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var slackResp SlackResponse
	if err := json.Unmarshal(body, &slackResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if !slackResp.OK {
		return nil, fmt.Errorf("slack API error: %s", slackResp.Error)
	}

	return &slackResp, nil
}

func severityColor(severity string) string {
	switch severity {
	case model.SeverityCritical:
		return "#dc3545"
	case model.SeverityHigh:
		return "#fd7e14"
	default:
		return "#ffc107"
	}
}
