// 신뢰할 수 없는 입력 문자열 정제 유틸
// 웹훅 페이로드와 CMDB 응답의 모든 문자열 필드가 렌더링 표면에 닿기 전에 이 패키지를 거침
//
// 규칙:
//  1. 앞뒤 공백 제거
//  2. 위험 문자(< > & " ' `) 및 제어 문자 제거
//  3. 길이 제한 (rune 단위로 잘라 멀티바이트 문자가 중간에서 깨지지 않음)

package sanitize

import (
	"strings"
	"unicode"
)

// DefaultMaxLen - 필드별 기본 최대 길이
const DefaultMaxLen = 1000

// dropped 문자: 마크업/스크립트 주입에 쓰이는 문자들
const dangerous = "<>&\"'`"

// Clean trims, strips dangerous and control characters, and caps the result
// at DefaultMaxLen runes. It never fails; hostile input degrades to "".
func Clean(s string) string {
	return CleanMax(s, DefaultMaxLen)
}

// CleanMax is Clean with an explicit rune limit.
func CleanMax(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		if strings.ContainsRune(dangerous, r) {
			continue
		}
		// 제어 문자 제거 (개행/탭은 description 등에서 유효하므로 유지)
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
		n++
	}

	return strings.TrimSpace(b.String())
}

// CleanSlice sanitizes every element and drops the ones that degrade to "".
func CleanSlice(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if c := Clean(s); c != "" {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
