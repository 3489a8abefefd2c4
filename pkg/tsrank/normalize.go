package tsrank

import "math"

// docLen is len(t) from spec.md §4.7: the sum over all entries of
// max(npos, 1), counting a position-less entry as a single occurrence.
func docLen(vec *TSVector) int {
	total := 0
	for _, e := range vec.Entries {
		n := len(e.Positions)
		if n < 1 {
			n = 1
		}
		total += n
	}
	return total
}

// docUniq is uniq(t) from spec.md §4.7: the number of distinct entries.
func docUniq(vec *TSVector) int { return vec.Size() }

// normExtra carries the rank_cd-only EXTDIST inputs (spec.md §4.7);
// zero-valued for standard rank.
type normExtra struct {
	extDist bool
	nExt    int
	sumDist float64
}

// normalize applies every bit set in method to res, in the order spec.md
// §4.7 lists them. Each bit is independent; all applicable ones apply.
func normalize(res float64, vec *TSVector, method NormFlag, extra normExtra) float64 {
	uniq := docUniq(vec)
	length := docLen(vec)

	if method&NormLogLength != 0 && uniq > 0 {
		res /= math.Log2(float64(length) + 1)
	}
	if method&NormLength != 0 && length > 0 {
		res /= float64(length)
	}
	if method&NormExtDist != 0 && extra.extDist && extra.nExt > 0 && extra.sumDist > 0 {
		res /= float64(extra.nExt) / extra.sumDist
	}
	if method&NormUniq != 0 && uniq > 0 {
		res /= float64(uniq)
	}
	if method&NormLogUniq != 0 && uniq > 0 {
		res /= math.Log2(float64(uniq) + 1)
	}
	if method&NormRDivRPlus1 != 0 {
		res /= res + 1
	}

	return res
}
