package cache

import (
	"fmt"
	"strings"
)

// GenerateKey joins a surface prefix and an identifier into one cache key.
func GenerateKey(prefix string, id string) string {
	return fmt.Sprintf("%s:%s", prefix, id)
}

// GenerateKeyWithParams appends each parameter as a colon-delimited segment.
// Parameters are formatted with %v, so keep them to scalars.
func GenerateKeyWithParams(prefix string, params ...interface{}) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, param := range params {
		fmt.Fprintf(&b, ":%v", param)
	}
	return b.String()
}
