package commute

import (
	"sort"

	"github.com/sells-group/trip-tracker/internal/model"
)

// Group partitions records into UTC day buckets keyed by each record's start
// timestamp. Buckets are returned in order of first appearance and every
// bucket keeps the stream order of its records.
func Group(records []model.ClassifiedRecord) []model.DayBucket {
	var buckets []model.DayBucket
	index := make(map[model.Date]int)

	for _, r := range records {
		d := model.DateOf(r.Timestamp)
		i, ok := index[d]
		if !ok {
			i = len(buckets)
			index[d] = i
			buckets = append(buckets, model.DayBucket{Date: d})
		}
		buckets[i].Records = append(buckets[i].Records, r)
	}
	return buckets
}

// ByDate indexes buckets by their date.
func ByDate(buckets []model.DayBucket) map[model.Date]model.DayBucket {
	m := make(map[model.Date]model.DayBucket, len(buckets))
	for _, b := range buckets {
		m[b.Date] = b
	}
	return m
}

// SortByDate orders buckets chronologically. Records inside each bucket are
// left untouched.
func SortByDate(buckets []model.DayBucket) {
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Date.Before(buckets[j].Date)
	})
}
