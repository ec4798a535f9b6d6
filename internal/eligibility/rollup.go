package eligibility

// Summary aggregates per-student results for one course. Course summaries
// are listed side by side in cross-course overviews, never averaged into a
// single figure across courses of different sizes.
type Summary struct {
	TotalStudents     int `json:"total_students"`
	EligibleCount     int `json:"eligible_count"`
	NotEligibleCount  int `json:"not_eligible_count"`
	AverageAttendance int `json:"average_attendance"`
}

// Summarize rolls a result list up into course-level totals. Eligible counts
// come from the per-student flags so the summary line can never disagree
// with the rows beneath it.
func Summarize(results []Result) Summary {
	summary := Summary{TotalStudents: len(results)}
	if len(results) == 0 {
		return summary
	}

	percentageSum := 0
	for _, result := range results {
		if result.Eligible {
			summary.EligibleCount++
		}
		percentageSum += result.Percentage
	}
	summary.NotEligibleCount = summary.TotalStudents - summary.EligibleCount
	summary.AverageAttendance = roundHalfUp(float64(percentageSum) / float64(summary.TotalStudents))
	return summary
}
