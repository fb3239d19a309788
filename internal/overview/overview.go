// Package overview holds the refresh and search settings of the pipelines overview page.
package overview

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/common/model"
)

// OffKey selects no automatic refresh.
const OffKey = "OFF_KEY"

// Page flags used by the overview search box.
const (
	PipelinesPage    = 1
	RepositoriesPage = 2
)

type IntervalOption struct {
	Key   string
	Label string
}

var intervalOptions = []IntervalOption{
	{Key: OffKey, Label: "Refresh off"},
	{Key: "15s", Label: "15 seconds"},
	{Key: "30s", Label: "30 seconds"},
	{Key: "1m", Label: "1 minute"},
	{Key: "5m", Label: "5 minutes"},
	{Key: "15m", Label: "15 minutes"},
	{Key: "30m", Label: "30 minutes"},
	{Key: "1h", Label: "1 hour"},
	{Key: "2h", Label: "2 hours"},
	{Key: "1d", Label: "1 day"},
}

// IntervalOptions returns the selectable refresh intervals in display order.
func IntervalOptions() []IntervalOption {
	out := make([]IntervalOption, len(intervalOptions))
	copy(out, intervalOptions)
	return out
}

// ParseInterval converts an option key to a duration. OffKey yields 0.
func ParseInterval(key string) (time.Duration, error) {
	if key == OffKey || key == "" {
		return 0, nil
	}
	d, err := model.ParseDuration(key)
	if err != nil {
		return 0, fmt.Errorf("invalid refresh interval %q: %w", key, err)
	}
	return time.Duration(d), nil
}

// FormatInterval is the inverse of ParseInterval.
func FormatInterval(d time.Duration) string {
	if d <= 0 {
		return OffKey
	}
	return model.Duration(d).String()
}

// IntervalLabel returns the display label of key, or "" if key is not an option.
func IntervalLabel(key string) string {
	for _, opt := range intervalOptions {
		if opt.Key == key {
			return opt.Label
		}
	}
	return ""
}

func SearchPlaceholder(pageFlag int) string {
	if pageFlag == PipelinesPage {
		return "Search by pipeline name"
	}
	return "Search by repository name"
}

// FilterByName keeps the names containing keyword, ignoring case.
// An empty keyword keeps everything.
func FilterByName(names []string, keyword string) []string {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if keyword == "" || strings.Contains(strings.ToLower(n), keyword) {
			out = append(out, n)
		}
	}
	return out
}
