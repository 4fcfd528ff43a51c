// Package tally holds the per-kind aggregation rule shared by the server
// and by the client's offline fallback.
package tally

const (
	KindFlow     = "flow"
	KindBreak    = "break"
	KindBigBreak = "big_break"
)

// Kinds lists the display columns in order.
var Kinds = []string{KindFlow, KindBreak, KindBigBreak}

// NormalizeKind folds unknown or missing kinds into flow.
func NormalizeKind(kind string) string {
	switch kind {
	case KindFlow, KindBreak, KindBigBreak:
		return kind
	default:
		return KindFlow
	}
}

type Bucket[T any] struct {
	TotalSeconds int
	Items        []T
}

// ByKind groups items by normalized kind and sums their seconds. Negative
// durations count as zero.
func ByKind[T any](items []T, kind func(T) string, seconds func(T) int) map[string]Bucket[T] {
	out := map[string]Bucket[T]{}
	for _, item := range items {
		k := NormalizeKind(kind(item))
		bucket := out[k]
		if s := seconds(item); s > 0 {
			bucket.TotalSeconds += s
		}
		bucket.Items = append(bucket.Items, item)
		out[k] = bucket
	}
	return out
}
