// Package ranking orders installation candidates from most to least preferred.
package ranking

import (
	"sort"

	"github.com/quantmind-br/vcfind/internal/core"
)

// PreferredFirst reports whether left should be tried before right.
// Release weight decides first (stable, prerelease, legacy); equal weights fall
// back to a plain string comparison of the versions, greater first.
func PreferredFirst(left, right core.Instance) bool {
	if left.ReleaseType != right.ReleaseType {
		return left.ReleaseType.Weight() > right.ReleaseType.Weight()
	}
	return left.Version > right.Version
}

// Rank returns a sorted copy of instances. Ties keep their input order.
func Rank(instances []core.Instance) []core.Instance {
	sorted := make([]core.Instance, len(instances))
	copy(sorted, instances)

	sort.SliceStable(sorted, func(i, j int) bool {
		return PreferredFirst(sorted[i], sorted[j])
	})

	return sorted
}
