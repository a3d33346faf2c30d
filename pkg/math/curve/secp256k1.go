package curve

import (
	"crypto/rand"
	"encoding/binary"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/zeebo/blake3"
)

// Secp256k1 is the Curve capability backing threshold ECDSA. It carries no
// state; every method is a pure function of its arguments.
type Secp256k1 struct{}

var _ Curve = Secp256k1{}

func (Secp256k1) Name() string { return "secp256k1" }

func (Secp256k1) Zero() Scalar { return &secp256k1Scalar{s: new(secp256k1.ModNScalar)} }

func (Secp256k1) One() Scalar {
	one := new(secp256k1.ModNScalar).SetInt(1)
	return &secp256k1Scalar{s: one}
}

func (c Secp256k1) RandomScalar(rng io.Reader) (Scalar, error) {
	if rng == nil {
		rng = rand.Reader
	}
	for {
		var buf [32]byte
		if _, err := io.ReadFull(rng, buf[:]); err != nil {
			return nil, err
		}
		s := new(secp256k1.ModNScalar)
		overflow := s.SetBytes((*[32]byte)(&buf))
		if overflow != 0 || s.IsZero() {
			continue
		}
		return &secp256k1Scalar{s: s}, nil
	}
}

func (c Secp256k1) ScalarFromUint32(v uint32) Scalar {
	s := new(secp256k1.ModNScalar).SetInt(v)
	return &secp256k1Scalar{s: s}
}

func (c Secp256k1) ScalarFromBytes(b []byte) (Scalar, error) {
	if len(b) != 32 {
		return nil, ErrMalformedElement
	}
	var buf [32]byte
	copy(buf[:], b)
	s := new(secp256k1.ModNScalar)
	if overflow := s.SetBytes(&buf); overflow != 0 {
		return nil, ErrMalformedElement
	}
	return &secp256k1Scalar{s: s}, nil
}

func (Secp256k1) Identity() Point {
	return &secp256k1Point{p: new(secp256k1.JacobianPoint)}
}

func (Secp256k1) Generator() Point {
	p := new(secp256k1.JacobianPoint)
	secp256k1.ScalarBaseMultNonConst(new(secp256k1.ModNScalar).SetInt(1), p)
	p.ToAffine()
	return &secp256k1Point{p: p}
}

func (c Secp256k1) PointFromBytes(b []byte) (Point, error) {
	pk, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, ErrMalformedElement
	}
	j := new(secp256k1.JacobianPoint)
	pk.AsJacobian(j)
	return &secp256k1Point{p: j}, nil
}

// HashToScalarDKG domain-separates with a curve-fixed tag so the DKG
// challenge never collides with other hash-to-scalar uses on the curve.
func (c Secp256k1) HashToScalarDKG(msg []byte) Scalar {
	tagged := append([]byte("thresh/secp256k1/dkg/v1\x00"), msg...)
	var counter [4]byte
	for i := uint32(0); ; i++ {
		binary.BigEndian.PutUint32(counter[:], i)
		digest := blake3.Sum256(append(tagged, counter[:]...))
		s := new(secp256k1.ModNScalar)
		overflow := s.SetBytes(&digest)
		if overflow == 0 && !s.IsZero() {
			return &secp256k1Scalar{s: s}
		}
	}
}

func (c Secp256k1) GenerateNonce(rng io.Reader) (Scalar, Point, error) {
	k, err := c.RandomScalar(rng)
	if err != nil {
		return nil, nil, err
	}
	return k, k.ActOnBase(), nil
}

// HashToCurve falls back to hash-to-scalar-then-base-multiply rather than
// a full SWU hash-to-curve construction: confidential key derivation is
// specified only over BLS12-381 G2 (see protocols/ckd), so no caller
// exercises this on secp256k1 today. It is implemented anyway so
// Secp256k1 satisfies the same Curve capability set as BLS12381G2.
func (c Secp256k1) HashToCurve(msg []byte) (Point, error) {
	tagged := append([]byte("thresh/secp256k1/h2c-fallback/v1\x00"), msg...)
	return c.HashToScalarDKG(tagged).ActOnBase(), nil
}

type secp256k1Scalar struct {
	s *secp256k1.ModNScalar
}

func (x *secp256k1Scalar) Add(other Scalar) Scalar {
	o := other.(*secp256k1Scalar)
	r := new(secp256k1.ModNScalar).Set(x.s)
	r.Add(o.s)
	return &secp256k1Scalar{s: r}
}

func (x *secp256k1Scalar) Mul(other Scalar) Scalar {
	o := other.(*secp256k1Scalar)
	r := new(secp256k1.ModNScalar).Set(x.s)
	r.Mul(o.s)
	return &secp256k1Scalar{s: r}
}

func (x *secp256k1Scalar) Negate() Scalar {
	r := new(secp256k1.ModNScalar).Set(x.s)
	r.Negate()
	return &secp256k1Scalar{s: r}
}

func (x *secp256k1Scalar) Invert() (Scalar, error) {
	if x.s.IsZero() {
		return nil, ErrInvertZero
	}
	r := new(secp256k1.ModNScalar).Set(x.s)
	r.InverseNonConst()
	return &secp256k1Scalar{s: r}, nil
}

func (x *secp256k1Scalar) IsZero() bool { return x.s.IsZero() }

func (x *secp256k1Scalar) Equal(other Scalar) bool {
	o, ok := other.(*secp256k1Scalar)
	return ok && x.s.Equals(o.s)
}

func (x *secp256k1Scalar) Act(p Point) Point {
	pp := p.(*secp256k1Point)
	r := new(secp256k1.JacobianPoint)
	secp256k1.ScalarMultNonConst(x.s, pp.p, r)
	r.ToAffine()
	return &secp256k1Point{p: r}
}

func (x *secp256k1Scalar) ActOnBase() Point {
	r := new(secp256k1.JacobianPoint)
	secp256k1.ScalarBaseMultNonConst(x.s, r)
	r.ToAffine()
	return &secp256k1Point{p: r}
}

func (x *secp256k1Scalar) Bytes() []byte {
	b := x.s.Bytes()
	return b[:]
}

type secp256k1Point struct {
	p *secp256k1.JacobianPoint
}

func (x *secp256k1Point) Add(other Point) Point {
	o := other.(*secp256k1Point)
	r := new(secp256k1.JacobianPoint)
	secp256k1.AddNonConst(x.p, o.p, r)
	r.ToAffine()
	return &secp256k1Point{p: r}
}

func (x *secp256k1Point) Negate() Point {
	r := *x.p
	r.ToAffine()
	r.Y.Negate(1)
	r.Y.Normalize()
	return &secp256k1Point{p: &r}
}

func (x *secp256k1Point) IsIdentity() bool {
	r := *x.p
	r.ToAffine()
	return (r.X.IsZero() && r.Y.IsZero())
}

func (x *secp256k1Point) Equal(other Point) bool {
	o, ok := other.(*secp256k1Point)
	if !ok {
		return false
	}
	a, b := *x.p, *o.p
	a.ToAffine()
	b.ToAffine()
	return a.X.Equals(&b.X) && a.Y.Equals(&b.Y)
}

func (x *secp256k1Point) Bytes() ([]byte, error) {
	if x.IsIdentity() {
		return nil, ErrIdentityElement
	}
	a := *x.p
	a.ToAffine()
	pk := secp256k1.NewPublicKey(&a.X, &a.Y)
	return pk.SerializeCompressed(), nil
}
