package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Sign строит каноническую строку параметров с timestamp и её подпись.
// Формат должен совпадать с эталонным клиентом биржи байт в байт:
// ключи по возрастанию, "k=v" через '&', затем "&timestamp=<ms>",
// а при пустых параметрах просто "timestamp=<ms>" без ведущего '&'.
func (c *Client) Sign(params map[string]string, ts time.Time) (query string, signature string) {
	query = canonicalQuery(params, ts)
	return query, sign(c.secretKey, query)
}

func canonicalQuery(params map[string]string, ts time.Time) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}

	millis := strconv.FormatInt(ts.UnixMilli(), 10)
	if b.Len() != 0 {
		return b.String() + "&timestamp=" + millis
	}
	return "timestamp=" + millis
}

func sign(secret, payload string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}
