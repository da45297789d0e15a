package render

import (
	"fmt"
	"strings"

	"github.com/pratham-8123/vaultbox/internal/api"
)

func formatSize(size int64) string {
	switch {
	case size >= 1<<30:
		return trimTrailingZero(fmt.Sprintf("%.1f", float64(size)/float64(1<<30))) + " GB"
	case size >= 1<<20:
		return trimTrailingZero(fmt.Sprintf("%.1f", float64(size)/float64(1<<20))) + " MB"
	case size >= 1<<10:
		return trimTrailingZero(fmt.Sprintf("%.1f", float64(size)/float64(1<<10))) + " KB"
	default:
		return fmt.Sprintf("%d B", size)
	}
}

func trimTrailingZero(s string) string {
	return strings.TrimSuffix(strings.TrimSuffix(s, "0"), ".")
}

func formatTimestamp(t api.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
