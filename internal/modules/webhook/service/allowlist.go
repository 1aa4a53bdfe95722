package service

import (
	"net"
	"strings"
)

// Allowlist: чистый предикат по IP клиента. Пустой список пропускает всех.
type Allowlist struct {
	ips map[string]struct{}
}

func NewAllowlist(ips []string) *Allowlist {
	a := &Allowlist{ips: make(map[string]struct{}, len(ips))}
	for _, raw := range ips {
		if ip := normalizeIP(raw); ip != "" {
			a.ips[ip] = struct{}{}
		}
	}
	return a
}

func (a *Allowlist) Empty() bool { return len(a.ips) == 0 }

func (a *Allowlist) Allowed(ip string) bool {
	if a.Empty() {
		return true
	}
	return a.Contains(ip)
}

// Contains: строгая проверка, пустой список не содержит ничего.
// Так проверяются доверенные прокси.
func (a *Allowlist) Contains(ip string) bool {
	if a == nil {
		return false
	}
	_, ok := a.ips[normalizeIP(ip)]
	return ok
}

// normalizeIP приводит "::ffff:1.2.3.4" и " 1.2.3.4 " к одному виду.
func normalizeIP(raw string) string {
	s := strings.TrimSpace(raw)
	if ip := net.ParseIP(s); ip != nil {
		return ip.String()
	}
	return s
}
