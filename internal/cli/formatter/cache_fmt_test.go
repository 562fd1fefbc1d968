package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrewchch/jira-dependency-viewer/internal/cache"
)

func TestFormatCacheStats(t *testing.T) {
	stats := cache.Stats{
		TotalEntries:   12,
		ExpiredEntries: 3,
		SizeBytes:      2048,
		PerBucket: map[string]cache.BucketStats{
			"issues":   {Entries: 10, Expired: 3},
			"searches": {Entries: 2},
		},
	}

	out := FormatCacheStats(stats, false)

	assert.Contains(t, out, "issues")
	assert.Contains(t, out, "searches")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "2.0 KiB")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KiB", formatBytes(1536))
	assert.Equal(t, "2.0 MiB", formatBytes(2<<20))
}
