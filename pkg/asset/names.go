package asset

import "golang.org/x/text/cases"

// Fold returns the case-folded form of a name. Material, slot, socket and
// shape-key names are all compared case-insensitively.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// SameName reports whether a and b are equal under case folding.
func SameName(a, b string) bool {
	return Fold(a) == Fold(b)
}
