package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Money formats v as whole dollars with thousands separators.
func Money(v float64) string {
	return "$" + humanize.Comma(int64(math.Round(v)))
}

// Text renders the plain-text summary report.
func Text(s Summary, generatedAt time.Time) string {
	var b strings.Builder
	b.WriteString("Salary Prediction Report\n")
	fmt.Fprintf(&b, "Generated: %s\n", generatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Records Processed: %s\n\n", humanize.Comma(int64(s.Stats.Count)))

	b.WriteString("Summary Statistics:\n")
	fmt.Fprintf(&b, "- Average Salary: %s\n", Money(s.Stats.Mean))
	fmt.Fprintf(&b, "- Median Salary: %s\n", Money(s.Stats.Median))
	fmt.Fprintf(&b, "- Highest Salary: %s\n", Money(s.Stats.Max))
	fmt.Fprintf(&b, "- Lowest Salary: %s\n", Money(s.Stats.Min))
	fmt.Fprintf(&b, "- Standard Deviation: %s\n", Money(s.Stats.StdDev))

	fmt.Fprintf(&b, "\nTop %d Job Titles by Average Salary:\n", TopJobsLimit)
	for _, j := range s.TopJobs {
		fmt.Fprintf(&b, "- %s: %s\n", j.Group, Money(j.Mean))
	}
	writeGroups(&b, "Average Salary by Industry", s.ByIndustry)
	writeGroups(&b, "Average Salary by Education Level", s.ByEducation)
	return b.String()
}

func writeGroups(b *strings.Builder, title string, groups []GroupMean) {
	if len(groups) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, g := range groups {
		fmt.Fprintf(b, "- %s: %s (%d)\n", g.Group, Money(g.Mean), g.Count)
	}
}
