package tsrank

// Option configures an optional rank parameter (weights, normalization
// method). Mirrors the functional-options shape the pack's bm25s
// reference implementation uses for its own tunables (ShortK1/ShortB
// overrides via WithK1/WithB).
type Option func(*rankOptions)

type rankOptions struct {
	weights WeightTable
	method  NormFlag
}

// WithWeights overrides the default weight table (spec.md §4.3). Validate
// a caller-supplied array first with ParseWeights/NewWeightTable; WithWeights
// takes an already-resolved WeightTable so construction-time errors are
// surfaced before ranking runs.
func WithWeights(w WeightTable) Option {
	return func(o *rankOptions) { o.weights = w }
}

// WithMethod sets the normalization bit-mask (spec.md §4.7). Default 0
// (no normalization).
func WithMethod(m NormFlag) Option {
	return func(o *rankOptions) { o.method = m }
}

func resolveOptions(opts []Option) rankOptions {
	o := rankOptions{weights: DefaultWeights}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Rank is the standard-rank entry point (spec.md §6.2): non-negative
// relevance score of vec against query, using the default weight table
// and no normalization unless overridden via WithWeights/WithMethod.
func Rank(vec *TSVector, query *TSQuery, opts ...Option) float64 {
	o := resolveOptions(opts)
	return computeRank(o.weights, vec, query, o.method)
}

// RankCD is the cover-density entry point (spec.md §6.2), with the same
// optional weights/method parameters as Rank.
func RankCD(vec *TSVector, query *TSQuery, opts ...Option) float64 {
	o := resolveOptions(opts)
	return computeRankCD(o.weights, vec, query, o.method)
}

// The following eight named functions are thin wrappers over Rank/RankCD
// matching spec.md §6.2's "four named rank functions x two variants"
// shape one-for-one, for callers translating directly from the
// specification's own function names.

// RankDefault: vector, query only — default weights, method=0.
func RankDefault(vec *TSVector, query *TSQuery) float64 {
	return Rank(vec, query)
}

// RankWithMethod: vector, query, method — default weights.
func RankWithMethod(vec *TSVector, query *TSQuery, method NormFlag) float64 {
	return Rank(vec, query, WithMethod(method))
}

// RankWeighted: weights, vector, query — method=0.
func RankWeighted(weights WeightTable, vec *TSVector, query *TSQuery) float64 {
	return Rank(vec, query, WithWeights(weights))
}

// RankWeightedMethod: weights, vector, query, method — every parameter explicit.
func RankWeightedMethod(weights WeightTable, vec *TSVector, query *TSQuery, method NormFlag) float64 {
	return Rank(vec, query, WithWeights(weights), WithMethod(method))
}

// RankCDDefault: vector, query only — default weights, method=0.
func RankCDDefault(vec *TSVector, query *TSQuery) float64 {
	return RankCD(vec, query)
}

// RankCDWithMethod: vector, query, method — default weights.
func RankCDWithMethod(vec *TSVector, query *TSQuery, method NormFlag) float64 {
	return RankCD(vec, query, WithMethod(method))
}

// RankCDWeighted: weights, vector, query — method=0.
func RankCDWeighted(weights WeightTable, vec *TSVector, query *TSQuery) float64 {
	return RankCD(vec, query, WithWeights(weights))
}

// RankCDWeightedMethod: weights, vector, query, method — every parameter explicit.
func RankCDWeightedMethod(weights WeightTable, vec *TSVector, query *TSQuery, method NormFlag) float64 {
	return RankCD(vec, query, WithWeights(weights), WithMethod(method))
}
