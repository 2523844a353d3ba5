package echoform

// TraitVector is the four-dimensional personality state steering generation
// tone. Exactly one TraitVector exists per session: it is created with fixed
// defaults at session creation and mutated in place after every turn, never
// duplicated and never deleted independently of its session.
//
// Every field stays within [TraitMin, TraitMax]; mutation clamps after
// applying its deltas.
type TraitVector struct {
	Creativity  float64 `db:"creativity" json:"creativity"`
	Abstraction float64 `db:"abstraction" json:"abstraction"`
	Verbosity   float64 `db:"verbosity" json:"verbosity"`
	Formality   float64 `db:"formality" json:"formality"`
}

// DefaultTraits returns the trait vector assigned to every new session.
func DefaultTraits() TraitVector {
	return TraitVector{
		Creativity:  0.5,
		Abstraction: 0.5,
		Verbosity:   0.5,
		Formality:   0.5,
	}
}

// Clamp returns a copy with every field constrained to [TraitMin, TraitMax].
func (t TraitVector) Clamp() TraitVector {
	t.Creativity = clamp(t.Creativity)
	t.Abstraction = clamp(t.Abstraction)
	t.Verbosity = clamp(t.Verbosity)
	t.Formality = clamp(t.Formality)
	return t
}

func clamp(v float64) float64 {
	if v < TraitMin {
		return TraitMin
	}
	if v > TraitMax {
		return TraitMax
	}
	return v
}
