package venn

import (
	"cmp"
	"slices"

	"github.com/vennkit/vennkit/pkg/errors"
)

// Counts holds the region sizes of a two-set Venn diagram. The union identity
// AOnly + BOnly + Intersection == Union always holds for a valid value.
// Counts are created once per layout request and never mutated.
type Counts struct {
	Union        int `json:"union" bson:"union"`
	Intersection int `json:"intersection" bson:"intersection"`
	AOnly        int `json:"a_only" bson:"a_only"`
	BOnly        int `json:"b_only" bson:"b_only"`
}

// NewCounts builds Counts from the three disjoint region sizes.
func NewCounts(aOnly, bOnly, intersection int) (Counts, error) {
	c := Counts{
		Union:        aOnly + bOnly + intersection,
		Intersection: intersection,
		AOnly:        aOnly,
		BOnly:        bOnly,
	}
	if err := c.Validate(); err != nil {
		return Counts{}, err
	}
	return c, nil
}

// CountsFromSizes builds Counts from caller-supplied sizes, verifying the
// union identity. Counts derived from real sets cannot violate it, but values
// arriving over the API must be checked.
func CountsFromSizes(union, intersection, aOnly, bOnly int) (Counts, error) {
	c := Counts{Union: union, Intersection: intersection, AOnly: aOnly, BOnly: bOnly}
	if err := c.Validate(); err != nil {
		return Counts{}, err
	}
	return c, nil
}

// FromSets derives Counts from two sets. The result is structurally valid by
// construction.
func FromSets[E comparable](a, b map[E]struct{}) Counts {
	var inter, aOnly int
	for e := range a {
		if _, ok := b[e]; ok {
			inter++
		} else {
			aOnly++
		}
	}
	bOnly := len(b) - inter
	return Counts{
		Union:        aOnly + bOnly + inter,
		Intersection: inter,
		AOnly:        aOnly,
		BOnly:        bOnly,
	}
}

// PartitionSlices derives Counts from two element slices (duplicates within a
// slice are ignored) and returns the elements in the canonical packing order:
// A-exclusive elements first, then shared, then B-exclusive, each group
// sorted. The returned order is what pack.Pack expects.
func PartitionSlices[E cmp.Ordered](a, b []E) ([]E, Counts) {
	setA := make(map[E]struct{}, len(a))
	for _, e := range a {
		setA[e] = struct{}{}
	}
	setB := make(map[E]struct{}, len(b))
	for _, e := range b {
		setB[e] = struct{}{}
	}

	var aOnly, shared, bOnly []E
	for e := range setA {
		if _, ok := setB[e]; ok {
			shared = append(shared, e)
		} else {
			aOnly = append(aOnly, e)
		}
	}
	for e := range setB {
		if _, ok := setA[e]; !ok {
			bOnly = append(bOnly, e)
		}
	}
	slices.Sort(aOnly)
	slices.Sort(shared)
	slices.Sort(bOnly)

	ordered := make([]E, 0, len(aOnly)+len(shared)+len(bOnly))
	ordered = append(ordered, aOnly...)
	ordered = append(ordered, shared...)
	ordered = append(ordered, bOnly...)

	counts := Counts{
		Union:        len(ordered),
		Intersection: len(shared),
		AOnly:        len(aOnly),
		BOnly:        len(bOnly),
	}
	return ordered, counts
}

// Validate checks non-negativity and the union identity.
func (c Counts) Validate() error {
	if c.Union < 0 || c.Intersection < 0 || c.AOnly < 0 || c.BOnly < 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"counts must be non-negative: union=%d intersection=%d a_only=%d b_only=%d",
			c.Union, c.Intersection, c.AOnly, c.BOnly)
	}
	if c.AOnly+c.BOnly+c.Intersection != c.Union {
		return errors.New(errors.ErrCodeInvalidInput,
			"union identity violated: %d + %d + %d != %d",
			c.AOnly, c.BOnly, c.Intersection, c.Union)
	}
	return nil
}

// SizeA returns |A| = AOnly + Intersection.
func (c Counts) SizeA() int { return c.AOnly + c.Intersection }

// SizeB returns |B| = BOnly + Intersection.
func (c Counts) SizeB() int { return c.BOnly + c.Intersection }

// MaxRegion returns the largest of the three region counts, which drives tier
// selection.
func (c Counts) MaxRegion() int {
	return max(c.AOnly, c.BOnly, c.Intersection)
}
