package domain

import "flowmodoro/internal/platform/tally"

type KindTotal struct {
	TotalSeconds int
	Records      []Record
}

type DayTotals struct {
	Day     string
	PerKind map[string]KindTotal
	Records []Record
}

// Total returns the bucket for kind, zero when nothing was recorded.
func (d DayTotals) Total(kind string) KindTotal {
	return d.PerKind[kind]
}

// Aggregate applies the per-kind rule to records already filtered to day.
func Aggregate(day string, records []Record) DayTotals {
	buckets := tally.ByKind(records,
		func(r Record) string { return r.Kind },
		func(r Record) int { return r.Seconds },
	)
	out := DayTotals{Day: day, PerKind: make(map[string]KindTotal, len(buckets)), Records: records}
	for kind, bucket := range buckets {
		out.PerKind[kind] = KindTotal{TotalSeconds: bucket.TotalSeconds, Records: bucket.Items}
	}
	if out.Records == nil {
		out.Records = []Record{}
	}
	return out
}
