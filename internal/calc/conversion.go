package calc

import "slices"

// LinearPerUnit is the linear reading (cm) that corresponds to one barrel.
const LinearPerUnit = 0.75

// StandardFactors are the kilograms-per-barrel values used at the depot.
var StandardFactors = []float64{182, 183, 184, 185}

// IsStandardFactor reports whether kgPerUnit is one of StandardFactors.
func IsStandardFactor(kgPerUnit float64) bool {
	return slices.Contains(StandardFactors, kgPerUnit)
}

// MassAndCount is the result of converting a linear reading.
type MassAndCount struct {
	UnitCount float64 `json:"unit_count"`
	MassKg    float64 `json:"mass_kg"`
}

// Rounded returns the two-decimal display values.
func (m MassAndCount) Rounded() MassAndCount {
	return MassAndCount{UnitCount: Round2(m.UnitCount), MassKg: Round2(m.MassKg)}
}

// LinearAndCount is the result of converting a mass.
type LinearAndCount struct {
	Linear    float64 `json:"linear"`
	UnitCount float64 `json:"unit_count"`
}

// Rounded returns the two-decimal display values.
func (l LinearAndCount) Rounded() LinearAndCount {
	return LinearAndCount{Linear: Round2(l.Linear), UnitCount: Round2(l.UnitCount)}
}

// LinearToMassAndCount converts a linear reading into a barrel count and a mass.
func LinearToMassAndCount(linear, kgPerUnit float64) (MassAndCount, error) {
	if err := checkFactor(kgPerUnit); err != nil {
		return MassAndCount{}, err
	}
	if !finite(linear) {
		return MassAndCount{}, fieldErr("linear", ErrInvalidInput)
	}

	count := linear / LinearPerUnit
	return MassAndCount{UnitCount: count, MassKg: count * kgPerUnit}, nil
}

// MassToLinearAndCount is the inverse of LinearToMassAndCount.
func MassToLinearAndCount(massKg, kgPerUnit float64) (LinearAndCount, error) {
	if err := checkFactor(kgPerUnit); err != nil {
		return LinearAndCount{}, err
	}
	if !finite(massKg) {
		return LinearAndCount{}, fieldErr("mass_kg", ErrInvalidInput)
	}

	count := massKg / kgPerUnit
	return LinearAndCount{Linear: count * LinearPerUnit, UnitCount: count}, nil
}

func checkFactor(kgPerUnit float64) error {
	if !finite(kgPerUnit) || kgPerUnit <= 0 {
		return fieldErr("kg_per_unit", ErrInvalidFactor)
	}
	return nil
}
