package echoform

import "testing"

func TestDefaultTraits(t *testing.T) {
	traits := DefaultTraits()

	if traits.Creativity != 0.5 || traits.Abstraction != 0.5 || traits.Verbosity != 0.5 || traits.Formality != 0.5 {
		t.Errorf("expected all defaults at 0.5, got %+v", traits)
	}
}

func TestTraitVectorClamp(t *testing.T) {
	traits := TraitVector{
		Creativity:  1.3,
		Abstraction: -0.2,
		Verbosity:   0.5,
		Formality:   1.0,
	}

	clamped := traits.Clamp()

	if clamped.Creativity != TraitMax {
		t.Errorf("creativity not clamped to ceiling: %v", clamped.Creativity)
	}
	if clamped.Abstraction != TraitMin {
		t.Errorf("abstraction not clamped to floor: %v", clamped.Abstraction)
	}
	if clamped.Verbosity != 0.5 || clamped.Formality != 1.0 {
		t.Errorf("in-range traits must pass through, got %+v", clamped)
	}
}
