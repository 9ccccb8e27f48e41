package testprogram

import (
	"strings"

	"golang.org/x/tools/txtar"
)

// Descriptions parses a txtar archive into a name -> description map, one
// entry per archive file, trimming its content to a single label. This is
// a label store, not a program parser: clause generation from surface
// syntax stays out of scope (the package comment's Non-goals citation), so
// a txtar file's body documents a fixture a Builder call already
// constructed in Go — it is never itself lowered into clauses. Used to
// attach a human-readable description to a goal an internal/rpc.Registry
// names, grouping many such labels in one readable file the way the
// teacher groups fixtures into one source file per concern rather than one
// file per case.
func Descriptions(archive []byte) map[string]string {
	arc := txtar.Parse(archive)
	out := make(map[string]string, len(arc.Files))
	for _, f := range arc.Files {
		out[f.Name] = strings.TrimSpace(string(f.Data))
	}
	return out
}
