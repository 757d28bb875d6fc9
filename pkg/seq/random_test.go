package seq

import "testing"

func TestRandomExactLengthWithoutRuns(t *testing.T) {
	opts := RandomOptions{
		Length:     16,
		MinValue:   1,
		MaxValue:   99,
		RestProb:   0.3,
		GroupProb:  0, // no clustered runs
		RepeatProb: 0, // no repeated runs
		Rand:       NewRand(1),
	}

	s := Random(opts)
	if len(s) != 16 {
		t.Errorf("len(Random()) = %d, want 16", len(s))
	}
}

func TestRandomValueBounds(t *testing.T) {
	opts := RandomOptions{
		Length:   256,
		MinValue: 10,
		MaxValue: 20,
		RestProb: 0.3,
		Rand:     NewRand(2),
	}

	for _, step := range Random(opts) {
		if step.IsRest {
			continue
		}
		if step.Value < 10 || step.Value > 20 {
			t.Fatalf("note value %d outside [10, 20]", step.Value)
		}
	}
}

func TestRandomDeterministicForSeed(t *testing.T) {
	a := Random(RandomOptions{Length: 32, Rand: NewRand(7)})
	b := Random(RandomOptions{Length: 32, Rand: NewRand(7)})

	if !a.Equal(b) {
		t.Error("same seed produced different sequences")
	}
}

func TestRandomAllRests(t *testing.T) {
	s := Random(RandomOptions{Length: 8, RestProb: 1.0, Rand: NewRand(3)})
	if len(s) != 8 {
		t.Fatalf("len = %d, want 8", len(s))
	}
	for i, step := range s {
		if !step.IsRest {
			t.Errorf("step %d = %+v, want rest", i, step)
		}
	}
}

func TestRandomDefaults(t *testing.T) {
	s := Random(RandomOptions{Rand: NewRand(4), GroupProb: 0, RepeatProb: 0, RestProb: 0})
	if len(s) != DefaultRandomLength {
		t.Errorf("len = %d, want %d", len(s), DefaultRandomLength)
	}
	for _, step := range s {
		if step.Value < DefaultMinValue || step.Value > DefaultMaxValue {
			t.Fatalf("note value %d outside defaults [%d, %d]", step.Value, DefaultMinValue, DefaultMaxValue)
		}
	}
}
