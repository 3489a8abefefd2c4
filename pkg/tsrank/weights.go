package tsrank

// UserWeights is a one-dimensional weight array as it arrives from a
// caller's boundary (JSON body, config file, ...), where an element may
// be "null" (spec §4.3's "no null elements" check). A nil entry stands
// for SQL NULL.
type UserWeights []*float64

// ParseWeights validates an arbitrary external value as a weights array
// (spec §4.3, §6.3) and builds the resolved WeightTable. raw may be nil
// (use defaults), a UserWeights / []float64, or anything else — a non-1D
// shape such as [][]float64 triggers ErrInvalidArrayDimension.
func ParseWeights(raw any) (WeightTable, error) {
	if raw == nil {
		return DefaultWeights, nil
	}

	var uw UserWeights
	switch v := raw.(type) {
	case UserWeights:
		uw = v
	case []float64:
		uw = make(UserWeights, len(v))
		for i := range v {
			val := v[i]
			uw[i] = &val
		}
	case []*float64:
		uw = UserWeights(v)
	default:
		return WeightTable{}, ErrInvalidArrayDimension
	}

	return NewWeightTable(uw)
}

// NewWeightTable validates a UserWeights array and resolves it into a
// WeightTable.
//
//   - nil -> DefaultWeights.
//   - fewer than 4 elements -> ErrArrayTooShort.
//   - any nil element -> ErrNullNotAllowed.
//   - per element: negative substitutes the default; > 1.0 -> ErrOutOfRange.
func NewWeightTable(user UserWeights) (WeightTable, error) {
	if user == nil {
		return DefaultWeights, nil
	}
	if len(user) < 4 {
		return WeightTable{}, ErrArrayTooShort
	}

	var out WeightTable
	for i := 0; i < 4; i++ {
		if user[i] == nil {
			return WeightTable{}, ErrNullNotAllowed
		}
		v := *user[i]
		switch {
		case v < 0:
			out[i] = DefaultWeights[i]
		case v > 1.0:
			return WeightTable{}, ErrOutOfRange
		default:
			out[i] = v
		}
	}
	return out, nil
}
