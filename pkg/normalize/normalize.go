// Package normalize canonicalizes administrative-region names into stable
// join keys.  The screening records and the boundary catalog spell the same
// kecamatan inconsistently ("Kec A", "kec a ", "KEC A"); both sides must be
// passed through Key before any comparison.
package normalize

import "strings"

// Key returns the canonical join key for a raw region name: leading and
// trailing whitespace removed, upper-cased.  Nothing else: no diacritic
// stripping, no abbreviation expansion.  Deeper spelling differences are not
// auto-corrected and surface later as unmatched regions in join diagnostics.
//
// Key is deterministic and idempotent: Key(Key(s)) == Key(s).
func Key(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
