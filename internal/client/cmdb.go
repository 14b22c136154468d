// 외부 CMDB(자산 인벤토리)와 통신하는 클라이언트 정의
//
// 환경변수:
//   - CMDB_BASE_URL: CMDB API 베이스 URL (예: https://cmdb.internal.example.com)
//   - CMDB_API_TOKEN: Bearer 토큰
//   - CMDB_TIMEOUT_MS: 호출 타임아웃 (default: 5000)
//
// enrichment 실패는 에러가 아니라 outcome으로 반환됨:
// 호출부는 어떤 경우에도 인시던트 생성을 중단하지 않고 fallback 값으로 진행

package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/itil-bridge/backend/internal/config"
	"github.com/itil-bridge/backend/internal/model"
	"github.com/itil-bridge/backend/internal/sanitize"
)

// CMDBClient 구조체 정의
type CMDBClient struct {
	baseURL string

	// baseHost: baseURL의 호스트명 (소문자). URL 검증 시 정확히 일치해야 함.
	baseHost string

	apiToken   string
	timeout    time.Duration
	httpClient *http.Client
}

// cmdbAsset - CMDB API 응답 형태 (GET {baseUrl}/api/assets/{ciId})
type cmdbAsset struct {
	Hostname    string `json:"hostname"`
	Location    string `json:"location"`
	IP          string `json:"ip"`
	OS          string `json:"os"`
	Environment string `json:"environment"`
	CMDBURL     string `json:"cmdbUrl"`
}

// CMDBClient 객체 생성
func NewCMDBClient(cfg config.CMDBConfig) *CMDBClient {
	timeoutMs := cfg.TimeoutMs
	if timeoutMs <= 0 {
		timeoutMs = 5000
	}
	timeout := time.Duration(timeoutMs) * time.Millisecond

	base := strings.TrimRight(cfg.BaseURL, "/")
	baseHost := ""
	if base != "" {
		if parsed, err := url.Parse(base); err == nil {
			baseHost = strings.ToLower(parsed.Hostname())
		}
	}

	return &CMDBClient{
		baseURL:  base,
		baseHost: baseHost,
		apiToken: cfg.APIToken,
		timeout:  timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CMDB 연동 설정 여부 체크
func (c *CMDBClient) IsConfigured() bool {
	return c.baseURL != "" && c.apiToken != ""
}

// Enrich - CI 메타데이터 조회
// 설정된 타임아웃 안에 반드시 반환되며, 호출자를 그 이상 블로킹하지 않음.
// 타임아웃 시 진행 중인 요청은 컨텍스트 취소로 포기됨.
func (c *CMDBClient) Enrich(ctx context.Context, ciID string) model.CIEnrichment {
	if !c.IsConfigured() {
		return model.CIEnrichment{Status: model.EnrichmentDisabled}
	}

	target := c.baseURL + "/api/assets/" + url.PathEscape(ciID)

	// SSRF 가드: 검증 실패 시 네트워크 호출 없이 Unreachable 반환
	if !c.isValidCMDBURL(target) {
		log.Printf("Rejected CMDB URL for ci=%s: failed SSRF validation", ciID)
		return model.CIEnrichment{Status: model.EnrichmentUnreachable}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		log.Printf("Failed to create CMDB request for ci=%s: %v", ciID, err)
		return model.CIEnrichment{Status: model.EnrichmentUnreachable}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "itil-bridge/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Printf("CMDB call timed out for ci=%s (timeout=%s)", ciID, c.timeout)
			return model.CIEnrichment{Status: model.EnrichmentTimedOut}
		}
		log.Printf("CMDB call failed for ci=%s: %v", ciID, err)
		return model.CIEnrichment{Status: model.EnrichmentUnreachable}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return c.parseAsset(ciID, resp.Body)
	case resp.StatusCode == http.StatusNotFound:
		// 레코드 없음은 정상 outcome
		log.Printf("CI %s not found in CMDB", ciID)
		return model.CIEnrichment{Status: model.EnrichmentNotFound}
	default:
		log.Printf("CMDB returned status %d for ci=%s", resp.StatusCode, ciID)
		return model.CIEnrichment{Status: model.EnrichmentUnreachable}
	}
}

// parseAsset - 200 응답 파싱. 모든 문자열 필드는 sanitize를 거침.
func (c *CMDBClient) parseAsset(ciID string, body io.Reader) model.CIEnrichment {
	var asset cmdbAsset
	if err := json.NewDecoder(io.LimitReader(body, 1<<20)).Decode(&asset); err != nil {
		log.Printf("Invalid JSON from CMDB for ci=%s: %v", ciID, err)
		return model.CIEnrichment{Status: model.EnrichmentUnreachable}
	}

	record := &model.CIRecord{
		ID:              ciID,
		Hostname:        sanitize.CleanMax(asset.Hostname, 255),
		Location:        sanitize.CleanMax(asset.Location, 255),
		IPAddress:       sanitize.CleanMax(asset.IP, 255),
		OperatingSystem: sanitize.CleanMax(asset.OS, 255),
		Environment:     sanitize.CleanMax(asset.Environment, 255),
	}
	if record.Hostname == "" {
		record.Hostname = ciID
	}
	if record.Location == "" {
		record.Location = "unknown"
	}

	// 상세 페이지 URL은 SSRF 검증을 통과한 경우에만 노출
	if c.isValidCMDBURL(asset.CMDBURL) {
		record.ViewURL = asset.CMDBURL
	}

	return model.CIEnrichment{Status: model.EnrichmentFound, Record: record}
}

// isValidCMDBURL - SSRF 방지 검증
// 설정된 베이스 URL 하위이면서 loopback/사설 대역이 아닌 경우에만 허용
func (c *CMDBClient) isValidCMDBURL(raw string) bool {
	if raw == "" || c.baseURL == "" {
		return false
	}
	if !strings.HasPrefix(raw, c.baseURL) {
		return false
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" || host == "localhost" {
		return false
	}

	// 접두어 일치만으로는 "cmdb.example.com.evil.net"류의 호스트 확장을
	// 걸러내지 못하므로 호스트명이 베이스와 정확히 같아야 함
	if c.baseHost == "" || host != c.baseHost {
		return false
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		if addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() || addr.IsUnspecified() {
			return false
		}
	}

	return true
}
