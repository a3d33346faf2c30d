package curve

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/zeebo/blake3"
)

// BLS12381G2 is the Curve capability backing confidential key derivation.
// Scalars live in the BLS12-381 scalar field (fr.Element); points live in
// G2. Unlike Secp256k1, scalar encodings are little-endian.
type BLS12381G2 struct{}

var _ Curve = BLS12381G2{}

func (BLS12381G2) Name() string { return "bls12-381-g2" }

func (BLS12381G2) Zero() Scalar {
	var z fr.Element
	return &blsScalar{e: z}
}

func (BLS12381G2) One() Scalar {
	var z fr.Element
	z.SetOne()
	return &blsScalar{e: z}
}

func (c BLS12381G2) RandomScalar(rng io.Reader) (Scalar, error) {
	if rng == nil {
		rng = rand.Reader
	}
	for {
		var buf [32]byte
		if _, err := io.ReadFull(rng, buf[:]); err != nil {
			return nil, err
		}
		var z fr.Element
		z.SetBytes(buf[:])
		if z.IsZero() {
			continue
		}
		return &blsScalar{e: z}, nil
	}
}

func (BLS12381G2) ScalarFromUint32(v uint32) Scalar {
	var z fr.Element
	z.SetUint64(uint64(v))
	return &blsScalar{e: z}
}

func (BLS12381G2) ScalarFromBytes(b []byte) (Scalar, error) {
	if len(b) != 32 {
		return nil, ErrMalformedElement
	}
	var z fr.Element
	z.SetBytes(reverse(b))
	return &blsScalar{e: z}, nil
}

func (BLS12381G2) Identity() Point {
	var p bls12381.G2Affine
	return &blsPoint{p: p}
}

func (BLS12381G2) Generator() Point {
	_, _, _, g2 := bls12381.Generators()
	return &blsPoint{p: g2}
}

func (BLS12381G2) PointFromBytes(b []byte) (Point, error) {
	var p bls12381.G2Affine
	if _, err := p.SetBytes(b); err != nil {
		return nil, ErrMalformedElement
	}
	return &blsPoint{p: p}, nil
}

// HashToScalarDKG uses a curve-fixed domain tag distinct from the
// secp256k1 one, so the two curves' DKG challenges never alias.
func (BLS12381G2) HashToScalarDKG(msg []byte) Scalar {
	tagged := append([]byte("thresh/bls12-381-g2/dkg/v1\x00"), msg...)
	var counter [4]byte
	for i := uint32(0); ; i++ {
		binary.BigEndian.PutUint32(counter[:], i)
		digest := blake3.Sum256(append(tagged, counter[:]...))
		var z fr.Element
		z.SetBytes(digest[:])
		if !z.IsZero() {
			return &blsScalar{e: z}
		}
	}
}

func (c BLS12381G2) GenerateNonce(rng io.Reader) (Scalar, Point, error) {
	k, err := c.RandomScalar(rng)
	if err != nil {
		return nil, nil, err
	}
	return k, k.ActOnBase(), nil
}

// ckdHashToCurveDST is the hash-to-curve domain separation tag CKD hashes
// application identifiers under, distinct from the DKG hash-to-scalar tag.
var ckdHashToCurveDST = []byte("thresh-CKD-BLS12381G2_XMD:SHA-256_SSWU_RO_")

// HashToCurve implements the IETF hash-to-curve suite gnark-crypto ships
// for BLS12-381 G2, giving confidential key derivation a proper
// random-oracle map from an application identifier to a masking point.
func (BLS12381G2) HashToCurve(msg []byte) (Point, error) {
	p, err := bls12381.HashToG2(msg, ckdHashToCurveDST)
	if err != nil {
		return nil, fmt.Errorf("curve: hashing to bls12-381 g2: %w", err)
	}
	return &blsPoint{p: p}, nil
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

type blsScalar struct {
	e fr.Element
}

func (x *blsScalar) Add(other Scalar) Scalar {
	o := other.(*blsScalar)
	var z fr.Element
	z.Add(&x.e, &o.e)
	return &blsScalar{e: z}
}

func (x *blsScalar) Mul(other Scalar) Scalar {
	o := other.(*blsScalar)
	var z fr.Element
	z.Mul(&x.e, &o.e)
	return &blsScalar{e: z}
}

func (x *blsScalar) Negate() Scalar {
	var z fr.Element
	z.Neg(&x.e)
	return &blsScalar{e: z}
}

func (x *blsScalar) Invert() (Scalar, error) {
	if x.e.IsZero() {
		return nil, ErrInvertZero
	}
	var z fr.Element
	z.Inverse(&x.e)
	return &blsScalar{e: z}, nil
}

func (x *blsScalar) IsZero() bool { return x.e.IsZero() }

func (x *blsScalar) Equal(other Scalar) bool {
	o, ok := other.(*blsScalar)
	return ok && x.e.Equal(&o.e)
}

func (x *blsScalar) Act(p Point) Point {
	pp := p.(*blsPoint)
	var bi big.Int
	x.e.BigInt(&bi)
	var z bls12381.G2Affine
	z.ScalarMultiplication(&pp.p, &bi)
	return &blsPoint{p: z}
}

func (x *blsScalar) ActOnBase() Point {
	_, _, _, g2 := bls12381.Generators()
	var bi big.Int
	x.e.BigInt(&bi)
	var z bls12381.G2Affine
	z.ScalarMultiplication(&g2, &bi)
	return &blsPoint{p: z}
}

// Bytes returns the little-endian encoding of the scalar. BLS12-381
// scalars serialize little-endian here, unlike secp256k1's big-endian.
func (x *blsScalar) Bytes() []byte {
	b := x.e.Bytes()
	return reverse(b[:])
}

type blsPoint struct {
	p bls12381.G2Affine
}

func (x *blsPoint) Add(other Point) Point {
	o := other.(*blsPoint)
	var z bls12381.G2Affine
	z.Add(&x.p, &o.p)
	return &blsPoint{p: z}
}

func (x *blsPoint) Negate() Point {
	var z bls12381.G2Affine
	z.Neg(&x.p)
	return &blsPoint{p: z}
}

func (x *blsPoint) IsIdentity() bool { return x.p.IsInfinity() }

func (x *blsPoint) Equal(other Point) bool {
	o, ok := other.(*blsPoint)
	return ok && x.p.Equal(&o.p)
}

func (x *blsPoint) Bytes() ([]byte, error) {
	if x.p.IsInfinity() {
		return nil, ErrIdentityElement
	}
	b := x.p.Bytes()
	return b[:], nil
}
