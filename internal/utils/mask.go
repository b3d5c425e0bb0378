package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// MaskDSN hides the password of a connection string before it is logged.
// URL DSNs (postgres://, clickhouse://, oracle://) are masked in the
// userinfo part, key=value DSNs in their password entry, and Oracle
// "user/password@host" strings between the slash and the at sign.
func MaskDSN(dsn string) string {
	if dsn == "" {
		return "--- EMPTY ---"
	}
	if strings.Contains(dsn, "://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "*** UNPARSEABLE DSN ***"
		}
		if u.User == nil {
			return dsn
		}
		if _, ok := u.User.Password(); !ok {
			return dsn
		}
		scheme, rest, _ := strings.Cut(dsn, "://")
		_, hostPart, _ := strings.Cut(rest, "@")
		return fmt.Sprintf("%s://%s:***MASKED***@%s", scheme, u.User.Username(), hostPart)
	}
	if strings.Contains(dsn, "password=") {
		parts := strings.Fields(dsn)
		for i, p := range parts {
			if strings.HasPrefix(p, "password=") {
				parts[i] = "password=***MASKED***"
			}
		}
		return strings.Join(parts, " ")
	}
	if slash := strings.Index(dsn, "/"); slash > 0 {
		if at := strings.LastIndex(dsn, "@"); at > slash {
			return dsn[:slash] + "/***MASKED***" + dsn[at:]
		}
	}
	return dsn
}
