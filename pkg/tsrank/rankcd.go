package tsrank

// computeRankCD computes the cover-density rank of vec against query
// (spec.md §4.6): it enumerates minimal covers, accumulates each cover's
// position-weight contribution discounted by its internal noise, and
// applies the normalization mask (including the cover-only EXTDIST bit).
func computeRankCD(weights WeightTable, vec *TSVector, query *TSQuery, method NormFlag) float64 {
	if vec.Size() == 0 || query.Size() == 0 {
		return 0
	}

	doc := BuildDocRepresentation(vec, query)
	if doc == nil {
		return 0
	}

	scanner := NewCoverScanner(doc, query)

	wdoc := 0.0
	nExt := 0
	sumDist := 0.0
	havePrev := false
	prevC := 0.0

	for {
		cov, ok := scanner.Next()
		if !ok {
			break
		}

		l := cov.End - cov.Begin + 1
		invSum := 0.0
		for i := cov.Begin; i <= cov.End; i++ {
			invSum += 1.0 / weights.at(doc.Tokens[i].Class)
		}
		cpos := float64(l) / invSum

		nNoise := float64(int(cov.Q)-int(cov.P)) - float64(l-1)
		if nNoise < 0 {
			nNoise = float64(l-1) / 2.0
		}
		wdoc += cpos / (1 + nNoise)

		c := (float64(cov.P) + float64(cov.Q)) / 2.0
		if !havePrev {
			havePrev = true
		} else if c > prevC {
			sumDist += 1.0 / (c - prevC)
		}
		prevC = c
		nExt++
	}

	if nExt == 0 {
		return 0
	}

	return normalize(wdoc, vec, method, normExtra{extDist: true, nExt: nExt, sumDist: sumDist})
}
