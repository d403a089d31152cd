// Package venn computes collision-free spatial layouts for two-set Venn
// diagrams.
//
// The package is the canonical implementation of the diagram geometry: it
// turns two set sizes and their overlap into circle radius and separation,
// plus per-region element sizing, so that every element can later be placed
// without overlaps by the packer in the venn/pack subpackage. Rendering
// stacks consume the resulting Layout through thin adapters and never
// re-derive the formulas.
//
// # Pipeline
//
// Data flows one way:
//
//	counts → tier → solved separation → Layout → packed positions
//
// Counts derives region sizes from two sets (or accepts counts directly and
// checks the union identity). SelectTier maps the largest per-region count to
// a discrete configuration tier. ComputeLayout sizes the lens and crescent
// regions independently, solves the circle separation by bisection on the
// lens area formula, and refines it against actual hexagonal-lattice capacity
// so the requested intersection count is guaranteed to fit.
//
// # Purity
//
// Every operation is a pure function of its explicit inputs. Configuration is
// always passed as a Config value, never read from process-wide state, so
// identical inputs always produce identical layouts and results may be cached
// by (aOnly, bOnly, intersection, config).
//
// # Usage
//
//	counts := venn.FromSets(setA, setB)
//	layout, err := venn.ComputeLayout(counts, venn.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	if !layout.Valid {
//	    // infeasible at this radius; retry larger or escalate tier
//	}
package venn
