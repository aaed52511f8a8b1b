package common

import "sort"

// Season label resolution. Transfer documents carry plain YYYY-MM-DD date
// strings, so season ranges are kept as strings too and parsed only where
// calendar arithmetic is needed.

// Default wide range used for unknown season labels. Unknown labels are a
// query-parameter concern, not an error.
var defaultSeasonRange = SeasonRange{From: "2000-01-01", To: "2099-12-31"}

// ResolveSeason returns the inclusive date range for a season label
// (e.g. "2024/2025"). Unknown labels fall back to a wide default range.
func (c *Config) ResolveSeason(spielzeit string) SeasonRange {
	if r, ok := c.Seasons[spielzeit]; ok && r.From != "" && r.To != "" {
		return r
	}
	return defaultSeasonRange
}

// SeasonLabels returns the configured season labels, sorted.
func (c *Config) SeasonLabels() []string {
	labels := make([]string, 0, len(c.Seasons))
	for label := range c.Seasons {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
