package ballistic

import (
	"strconv"
	"strings"

	"github.com/RMahshie/balcal/pkg/models"
)

// FormatChart renders a chart in the text form the decoder reads.
// It is the assistant side of a training record.
func FormatChart(chart models.DropChart) string {
	parts := make([]string, len(chart))
	for i, entry := range chart {
		parts[i] = strconv.Itoa(entry.RangeYd) + rangeSuffix + pairSeparator + formatFloat(entry.DropIn, 64) + dropSuffix
	}
	return strings.Join(parts, segmentSeparator)
}
