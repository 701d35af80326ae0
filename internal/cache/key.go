// Package cache holds marketplace query results in Redis or in process.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// QueryKey builds a stable key from query parameters: keys are sorted and
// the joined pairs hashed, so parameter order never matters.
func QueryKey(prefix string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for i, k := range keys {
		if i > 0 {
			builder.WriteString(":")
		}
		builder.WriteString(k)
		builder.WriteString("=")
		builder.WriteString(params[k])
	}

	hash := md5.Sum([]byte(builder.String()))
	return prefix + ":" + hex.EncodeToString(hash[:])
}
