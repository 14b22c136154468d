// 웹훅 호출자 인증
//
// 검증 순서 (모두 통과해야 티켓 생성 쪽으로 진행):
//  1. Authorization / X-Webhook-Source 헤더 존재 여부
//  2. 소스 allow-list (WEBHOOK_SOURCES에 등록된 소스만 허용)
//  3. 클라이언트 IP allow-list (CIDR, 비어있으면 생략)
//  4. 공유 시크릿 비교 (constant-time)
//  5. X-Webhook-Signature가 있으면 HMAC-SHA256(secret, body) 검증
//
// 시크릿/서명 비교는 전부 hmac.Equal로 수행해 어느 바이트가 달랐는지
// 타이밍으로 새어나가지 않음. 이 단계에는 I/O가 없음.

package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"net/netip"
	"strings"
)

// AuthError 계열 - 401/403으로 매핑됨
var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrSourceNotAllowed  = errors.New("source not allowed")
	ErrIPNotAllowed      = errors.New("ip not allowed")
)

// WebhookAuthenticator 구조체 정의
type WebhookAuthenticator struct {
	// secrets: 소스 식별자 -> 공유 시크릿
	secrets map[string]string

	// ipAllow: 허용 CIDR 목록. 비어있으면 IP 체크 생략.
	ipAllow []netip.Prefix
}

func NewWebhookAuthenticator(sourceSecrets map[string]string, ipAllowlist []string) *WebhookAuthenticator {
	var prefixes []netip.Prefix
	for _, cidr := range ipAllowlist {
		prefix, err := netip.ParsePrefix(cidr)
		if err != nil {
			// 단일 IP 표기도 허용 (예: "203.0.113.7")
			if addr, addrErr := netip.ParseAddr(cidr); addrErr == nil {
				prefix = netip.PrefixFrom(addr, addr.BitLen())
			} else {
				log.Printf("Ignoring invalid WEBHOOK_IP_ALLOWLIST entry: %q", cidr)
				continue
			}
		}
		prefixes = append(prefixes, prefix)
	}

	return &WebhookAuthenticator{
		secrets: sourceSecrets,
		ipAllow: prefixes,
	}
}

// Authenticate - 웹훅 요청 인증. 실패 시 위의 sentinel 에러를 반환.
func (a *WebhookAuthenticator) Authenticate(authHeader, signature, source, clientIP string, body []byte) error {
	authHeader = strings.TrimSpace(authHeader)
	source = strings.TrimSpace(source)

	if authHeader == "" || source == "" {
		return ErrMissingCredential
	}

	secret, ok := a.secrets[source]
	if !ok {
		return ErrSourceNotAllowed
	}

	if !a.ipAllowed(clientIP) {
		return ErrIPNotAllowed
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if !hmac.Equal([]byte(token), []byte(secret)) {
		return ErrInvalidCredential
	}

	// 서명은 선택 헤더지만, 보내온 이상 맞아야 함
	if signature != "" {
		if !verifySignature(secret, signature, body) {
			return ErrInvalidSignature
		}
	}

	return nil
}

// ipAllowed - allow-list가 비어있으면 통과, 아니면 CIDR 매칭
func (a *WebhookAuthenticator) ipAllowed(clientIP string) bool {
	if len(a.ipAllow) == 0 {
		return true
	}

	addr, err := netip.ParseAddr(clientIP)
	if err != nil {
		return false
	}
	addr = addr.Unmap()

	for _, prefix := range a.ipAllow {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// verifySignature - HMAC-SHA256(secret, body)을 hex로 비교
// "sha256=" 접두어는 있어도 되고 없어도 됨
func verifySignature(secret, signature string, body []byte) bool {
	signature = strings.TrimPrefix(strings.TrimSpace(signature), "sha256=")

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	// hex 디코딩해 바이트로 비교하면 대소문자 표기 차이에 안전
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	want, _ := hex.DecodeString(expected)
	return hmac.Equal(got, want)
}
