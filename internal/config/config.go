// 환경변수 기반 설정 로딩
//
// 환경변수:
//   - PORT (default: 8080)
//   - WEBHOOK_SOURCES: "source:secret" 쉼표 구분 목록 (예: "datadog:s3cret,zabbix:t0ken")
//   - WEBHOOK_IP_ALLOWLIST: CIDR 쉼표 구분 목록 (비어있으면 모든 IP 허용)
//   - WEBHOOK_MAX_PAYLOAD_BYTES (default: 1048576)
//   - CMDB_BASE_URL, CMDB_API_TOKEN, CMDB_TIMEOUT_MS (default: 5000)
//   - SLA_THRESHOLD_* (분 단위), SLA_SWEEP_INTERVAL_MINUTES
//   - TICKET_PROJECT_KEY (default: ITSM)
//   - ASSIGNMENT_MAP: "service=assignee" 쉼표 구분 (예: "Network=netops,DB=dba,*=oncall")
//   - ESCALATION_TIERS: 에스컬레이션 단계별 담당자 (예: "l2-oncall,ops-manager")
//   - DEDUP_WINDOW_MINUTES (default: 5, 0이면 비활성화)
//   - JWT_SECRET, JWT_ACCESS_TTL (default: 15m), OPERATOR_PASSWORD_HASH
//   - SLACK_BOT_TOKEN, SLACK_CHANNEL_ID (선택, 에스컬레이션 알림용)
//   - DATABASE_URL 또는 PGHOST/PGPORT/PGUSER/PGPASSWORD/PGDATABASE/PGSSLMODE

package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server   ServerConfig
	Webhook  WebhookConfig
	CMDB     CMDBConfig
	SLA      SLAConfig
	Ticket   TicketConfig
	Auth     AuthConfig
	Slack    SlackConfig
	Postgres PostgresConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type WebhookConfig struct {
	// SourceSecrets: 소스 식별자 -> 공유 시크릿
	// 여기에 없는 소스는 allow-list 실패로 거부됨
	SourceSecrets map[string]string

	// IPAllowlist: CIDR 목록. 비어있으면 IP 체크 생략.
	IPAllowlist []string

	MaxPayloadBytes int64
}

type CMDBConfig struct {
	BaseURL   string
	APIToken  string
	TimeoutMs int
}

type SLAConfig struct {
	CriticalMinutes      int
	HighMinutes          int
	MediumMinutes        int
	LowMinutes           int
	SweepIntervalMinutes int

	// EscalationTiers: level 1부터 순서대로 배정되는 담당자 목록
	EscalationTiers []string
}

type TicketConfig struct {
	ProjectKey string

	// AssignmentMap: service 이름 -> 담당자. "*" 키는 기본 담당자.
	AssignmentMap map[string]string

	DedupWindowMinutes int
}

type AuthConfig struct {
	JWTSecret string
	AccessTTL string

	// OperatorPasswordHash: 운영자 비밀번호의 bcrypt 해시
	OperatorPasswordHash string
}

type SlackConfig struct {
	BotToken  string
	ChannelID string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getenv("PORT", "8080"),
			AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		},
		Webhook: WebhookConfig{
			SourceSecrets:   parsePairs(os.Getenv("WEBHOOK_SOURCES"), ":"),
			IPAllowlist:     splitList(os.Getenv("WEBHOOK_IP_ALLOWLIST")),
			MaxPayloadBytes: getenvInt64("WEBHOOK_MAX_PAYLOAD_BYTES", 1<<20),
		},
		CMDB: CMDBConfig{
			BaseURL:   os.Getenv("CMDB_BASE_URL"),
			APIToken:  os.Getenv("CMDB_API_TOKEN"),
			TimeoutMs: getenvInt("CMDB_TIMEOUT_MS", 5000),
		},
		SLA: SLAConfig{
			CriticalMinutes:      getenvInt("SLA_THRESHOLD_CRITICAL_MINUTES", 30),
			HighMinutes:          getenvInt("SLA_THRESHOLD_HIGH_MINUTES", 120),
			MediumMinutes:        getenvInt("SLA_THRESHOLD_MEDIUM_MINUTES", 480),
			LowMinutes:           getenvInt("SLA_THRESHOLD_LOW_MINUTES", 1440),
			SweepIntervalMinutes: getenvInt("SLA_SWEEP_INTERVAL_MINUTES", 5),
			EscalationTiers:      splitList(getenv("ESCALATION_TIERS", "l2-oncall,ops-manager")),
		},
		Ticket: TicketConfig{
			ProjectKey:         getenv("TICKET_PROJECT_KEY", "ITSM"),
			AssignmentMap:      parsePairs(getenv("ASSIGNMENT_MAP", "Network=netops,DB=dba,*=oncall"), "="),
			DedupWindowMinutes: getenvInt("DEDUP_WINDOW_MINUTES", 5),
		},
		Auth: AuthConfig{
			JWTSecret:            os.Getenv("JWT_SECRET"),
			AccessTTL:            getenv("JWT_ACCESS_TTL", "15m"),
			OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
		},
		Slack: SlackConfig{
			BotToken:  os.Getenv("SLACK_BOT_TOKEN"),
			ChannelID: os.Getenv("SLACK_CHANNEL_ID"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getenvInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

// splitList - 쉼표 구분 목록 파싱 (공백/빈 항목 제거)
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parsePairs - "key<sep>value" 쉼표 구분 목록을 맵으로 파싱
func parsePairs(s, sep string) map[string]string {
	out := make(map[string]string)
	for _, item := range splitList(s) {
		key, val, ok := strings.Cut(item, sep)
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		if !ok || key == "" || val == "" {
			continue
		}
		out[key] = val
	}
	return out
}
