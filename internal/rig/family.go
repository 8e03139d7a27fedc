package rig

// Family identifies a constraint family.
type Family int

const (
	StructuralVertical Family = iota
	StructuralHorizontal
	Shear
	BendingVertical
	BendingHorizontal

	FamilyCount
)

var familyNames = [FamilyCount]string{
	StructuralVertical:   "structural-vertical",
	StructuralHorizontal: "structural-horizontal",
	Shear:                "shear",
	BendingVertical:      "bending-vertical",
	BendingHorizontal:    "bending-horizontal",
}

// String returns the family name.
func (f Family) String() string {
	if f < 0 || f >= FamilyCount {
		return "unknown"
	}
	return familyNames[f]
}

// ParseFamily returns the family with the given name.
func ParseFamily(name string) (Family, bool) {
	for f, n := range familyNames {
		if n == name {
			return Family(f), true
		}
	}
	return 0, false
}

// Families lists every family in declaration order.
func Families() []Family {
	return []Family{StructuralVertical, StructuralHorizontal, Shear, BendingVertical, BendingHorizontal}
}

// FamilySet is a per-family boolean toggle.
type FamilySet [FamilyCount]bool

// AllFamilies returns a set with every family enabled.
func AllFamilies() FamilySet {
	var s FamilySet
	for i := range s {
		s[i] = true
	}
	return s
}
