package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/andrewchch/jira-dependency-viewer/internal/cache"
)

// FormatCacheStats renders the cache management summary.
func FormatCacheStats(stats cache.Stats, color bool) string {
	var b strings.Builder

	b.WriteString(Header("Cache", color))
	b.WriteString("\n")

	rows := [][]string{}
	buckets := make([]string, 0, len(stats.PerBucket))
	for name := range stats.PerBucket {
		buckets = append(buckets, name)
	}
	sort.Strings(buckets)
	for _, name := range buckets {
		bs := stats.PerBucket[name]
		rows = append(rows, []string{name, fmt.Sprintf("%d", bs.Entries), fmt.Sprintf("%d", bs.Expired)})
	}
	rows = append(rows, []string{"total", fmt.Sprintf("%d", stats.TotalEntries), fmt.Sprintf("%d", stats.ExpiredEntries)})

	b.WriteString(RenderTable([]string{"BUCKET", "ENTRIES", "EXPIRED"}, rows, color))
	b.WriteString(fmt.Sprintf("\nApproximate size: %s\n", formatBytes(stats.SizeBytes)))
	return b.String()
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
