package skeleton

import "regexp"

var (
	duplicateSuffix   = regexp.MustCompile(`\.[0-9]{3}$`)
	duplicateSuffixes = regexp.MustCompile(`(\.[0-9]{3})+$`)
)

// Canonical strips the exporter's duplicate suffix, a literal dot followed
// by three digits, from the end of a bone name. Stacked suffixes are all
// stripped, so Canonical(Canonical(x)) == Canonical(x). A name that is
// nothing but a suffix is returned unchanged.
func Canonical(name string) string {
	if c := duplicateSuffixes.ReplaceAllString(name, ""); c != "" {
		return c
	}
	return name
}

// IsDuplicate reports whether a raw bone name carries the duplicate suffix.
func IsDuplicate(name string) bool {
	return duplicateSuffix.MatchString(name)
}
