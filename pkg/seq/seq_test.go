package seq

import "testing"

func TestNoteAndRest(t *testing.T) {
	n := Note(42)
	if n.IsRest {
		t.Error("Note(42).IsRest = true, want false")
	}
	if n.Value != 42 {
		t.Errorf("Note(42).Value = %d, want 42", n.Value)
	}

	r := Rest()
	if !r.IsRest {
		t.Error("Rest().IsRest = false, want true")
	}
	if r.Value != 0 {
		t.Errorf("Rest().Value = %d, want 0", r.Value)
	}
}

func TestSequenceEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Sequence
		want bool
	}{
		{"both empty", Sequence{}, Sequence{}, true},
		{"same notes", Notes(1, 2, 3), Notes(1, 2, 3), true},
		{"different values", Notes(1, 2, 3), Notes(1, 2, 4), false},
		{"different lengths", Notes(1, 2), Notes(1, 2, 3), false},
		{"note vs rest", Sequence{Note(1)}, Sequence{Rest()}, false},
		{"rests ignore stale values", Sequence{{Value: 7, IsRest: true}}, Sequence{Rest()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSequenceClone(t *testing.T) {
	orig := Notes(1, 2, 3)
	clone := orig.Clone()

	if !clone.Equal(orig) {
		t.Fatalf("Clone() = %v, want %v", clone, orig)
	}

	clone[0] = Note(99)
	if orig[0].Value != 1 {
		t.Error("mutating clone changed original")
	}

	if got := Sequence(nil).Clone(); got != nil {
		t.Errorf("Clone() of nil = %v, want nil", got)
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name string
		in   Sequence
		want string
	}{
		{"empty", Sequence{}, ""},
		{"notes only", Notes(1, 2, 3), "1 2 3"},
		{"with rests", Sequence{Rest(), Note(1), Rest()}, "- 1 -"},
		{"negative values", Notes(-5, 0, 5), "-5 0 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stringify(tt.in); got != tt.want {
				t.Errorf("Stringify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStringifyWith(t *testing.T) {
	s := Sequence{Rest(), Note(3)}
	if got := StringifyWith(s, "~"); got != "~ 3" {
		t.Errorf("StringifyWith(~) = %q, want %q", got, "~ 3")
	}
	// Empty symbol falls back to the default.
	if got := StringifyWith(s, ""); got != "- 3" {
		t.Errorf("StringifyWith(\"\") = %q, want %q", got, "- 3")
	}
}

func TestNormalize(t *testing.T) {
	in := []any{1, int64(2), 3.6, "4", " 5 ", "x", nil, Note(6), Rest(), true}
	want := Sequence{
		Note(1), Note(2), Note(4), Note(4), Note(5),
		Rest(), Rest(), Note(6), Rest(), Rest(),
	}

	got := Normalize(in)
	if !got.Equal(want) {
		t.Errorf("Normalize() = %v, want %v", got, want)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	first := Normalize([]any{1, nil, "17"})

	loose := make([]any, len(first))
	for i, step := range first {
		loose[i] = step
	}
	second := Normalize(loose)

	if !second.Equal(first) {
		t.Errorf("Normalize(Normalize(x)) = %v, want %v", second, first)
	}
}

func TestCanonical(t *testing.T) {
	s := Sequence{{Value: 9, IsRest: true}, Note(1)}
	got := s.Canonical()

	if got[0].Value != 0 || !got[0].IsRest {
		t.Errorf("Canonical() rest = %+v, want zero-valued rest", got[0])
	}
	if got[1] != Note(1) {
		t.Errorf("Canonical() note = %+v, want %+v", got[1], Note(1))
	}
	// Input untouched.
	if s[0].Value != 9 {
		t.Error("Canonical() mutated its input")
	}
}
