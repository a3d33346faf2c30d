// Package threshold defines the typed integer wrappers the engine uses to
// fix a polynomial's degree, kept distinct from any scheme-level notion of
// a reconstruction threshold so the two are never accidentally conflated.
package threshold

// MaxMalicious is the adversary tolerance f. The DKG engine uses it only
// to fix the polynomial degree: t-1 = MaxMalicious.
type MaxMalicious uint32

// Degree returns the polynomial degree t-1 implied by this bound.
func (f MaxMalicious) Degree() int { return int(f) }

// Threshold returns t = f+1, the canonical relation used by DKG and
// OT-based ECDSA. Robust ECDSA instead uses t = f directly and must not
// call this helper.
func (f MaxMalicious) Threshold() int { return int(f) + 1 }

// ReconstructionLowerBound is the minimum number of shares a scheme
// requires to reconstruct the secret. The engine never derives this from
// MaxMalicious; the calling scheme fixes the relationship.
type ReconstructionLowerBound uint32

// Int returns the bound as a plain int for arithmetic against party counts.
func (t ReconstructionLowerBound) Int() int { return int(t) }
