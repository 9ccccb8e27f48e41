package slg

import "fmt"

// tableKey turns a u-canonicalized goal into a stable map key. Every free
// variable has already been closed over by canon.Canonicalize (replaced
// with a BoundVar) before a value reaches here, so two calls that reach the
// same logical goal always produce byte-identical %#v text regardless of
// which concrete inference variables happened to back it — structurally
// equal canonical terms format identically. Grounded on gokando's
// CallPattern.Hash() serving the same "turn a term into a map key" role
// (search.go), simplified to Go's own reflection-based formatter instead of
// a hand-rolled hasher since nothing here needs to survive a process
// restart.
func tableKey(v any) string {
	return fmt.Sprintf("%#v", v)
}
