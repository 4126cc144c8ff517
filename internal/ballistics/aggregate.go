package ballistics

import (
	"math"
	"sort"

	"github.com/Cromyyx/shellshock-trainer-wind/internal/model"
)

// DefaultMaxHits is the number of hits shown per line.
const DefaultMaxHits = 5

// BucketKey returns the ten-degree bucket of an angle, floored toward
// negative infinity: 15 -> 10, -5 -> -10.
func BucketKey(angle int) int {
	return int(math.Floor(float64(angle)/10.0)) * 10
}

// Aggregate builds the best prefix and the angle buckets of a hit set. Best
// holds the first limit hits by angle then velocity; each bucket holds its
// limit lowest-velocity hits. Buckets are in ascending key order.
func Aggregate(hits []model.Hit, limit int) model.Aggregated {
	if limit <= 0 {
		limit = DefaultMaxHits
	}
	sorted := make([]model.Hit, len(hits))
	copy(sorted, hits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Angle == sorted[j].Angle {
			return sorted[i].Velocity < sorted[j].Velocity
		}
		return sorted[i].Angle < sorted[j].Angle
	})

	best := sorted
	if len(best) > limit {
		best = best[:limit]
	}
	out := model.Aggregated{Best: append([]model.Hit(nil), best...)}

	byKey := map[int][]model.Hit{}
	keys := []int{}
	for _, hit := range sorted {
		key := BucketKey(hit.Angle)
		if _, ok := byKey[key]; !ok {
			keys = append(keys, key)
		}
		byKey[key] = append(byKey[key], hit)
	}
	sort.Ints(keys)
	for _, key := range keys {
		group := byKey[key]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Velocity < group[j].Velocity
		})
		if len(group) > limit {
			group = group[:limit]
		}
		out.Buckets = append(out.Buckets, model.Bucket{Key: key, Hits: group})
	}
	return out
}
