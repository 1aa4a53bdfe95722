package helper

import (
	"net"
	"net/http"
	"strconv"
	"strings"
)

// NormTF приводит метку таймфрейма к одному виду: TradingView присылает
// {{interval}} как "60", "240", "D", а в алертах руками пишут "1h", "60m".
// Заглавная "M" у TradingView означает месяц, поэтому месяцы разбираем
// до перевода в нижний регистр: "1M" и "1m" должны давать разные ключи.
func NormTF(raw string) string {
	s := strings.TrimSpace(raw)
	if n, ok := months(s); ok {
		return n + "mo"
	}
	s = strings.ToLower(s)
	switch s {
	case "d", "1d":
		return "1d"
	case "w", "1w":
		return "1w"
	}

	mins := ""
	if n, err := strconv.Atoi(s); err == nil {
		mins = strconv.Itoa(n)
	} else if strings.HasSuffix(s, "m") {
		if n, err := strconv.Atoi(strings.TrimSuffix(s, "m")); err == nil {
			mins = strconv.Itoa(n)
		}
	}
	if mins == "" {
		return s
	}

	n, _ := strconv.Atoi(mins)
	if n > 0 && n%60 == 0 {
		return strconv.Itoa(n/60) + "h"
	}
	return mins + "m"
}

// months: "M", "3M", "1mo", "6MO" -> число месяцев.
func months(s string) (string, bool) {
	var num string
	switch {
	case strings.HasSuffix(s, "M"):
		num = strings.TrimSuffix(s, "M")
	case strings.HasSuffix(strings.ToLower(s), "mo"):
		num = s[:len(s)-2]
	default:
		return "", false
	}
	if num == "" {
		return "1", true
	}
	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return "", false
	}
	return strconv.Itoa(n), true
}

// PositionKey: ключ открытой позиции "instrument:timeframe".
func PositionKey(instrument, timeframe string) string { return instrument + ":" + timeframe }

// ClientIP: адрес клиента. X-Forwarded-For учитывается, только если
// соединение пришло от доверенного прокси (trusted); тогда берётся
// самый правый адрес цепочки, который сам не прокси. Иначе хост из RemoteAddr.
func ClientIP(r *http.Request, trusted func(ip string) bool) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if trusted == nil || !trusted(peer) {
		return peer
	}

	xff := r.Header.Values("X-Forwarded-For")
	var chain []string
	for _, h := range xff {
		for _, ip := range strings.Split(h, ",") {
			if ip = strings.TrimSpace(ip); ip != "" {
				chain = append(chain, ip)
			}
		}
	}
	for i := len(chain) - 1; i >= 0; i-- {
		if !trusted(chain[i]) {
			return chain[i]
		}
	}
	if len(chain) > 0 {
		return chain[0]
	}
	return peer
}
