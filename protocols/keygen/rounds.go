package keygen

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/thresh-sig/core/internal/round"
	"github.com/thresh-sig/core/internal/types"
	"github.com/thresh-sig/core/pkg/hash"
	"github.com/thresh-sig/core/pkg/math/curve"
	"github.com/thresh-sig/core/pkg/math/polynomial"
	"github.com/thresh-sig/core/pkg/party"
	"github.com/thresh-sig/core/pkg/pool"
	"github.com/thresh-sig/core/pkg/protocol"
	"github.com/thresh-sig/core/pkg/sch"
)

const (
	domSessionID = "thresh/keygen/sid/v1"
	domCommit    = "thresh/keygen/commit/v1"
	domPoK       = "thresh/keygen/pok/v1"
)

// r2Wire is the round-2 echo-broadcast payload: the coefficient
// commitment vector and an optional proof of knowledge.
type r2Wire struct {
	Commitments [][]byte `cbor:"commitments"`
	HasPoK      bool     `cbor:"has_pok"`
	PoKR        []byte   `cbor:"pok_r,omitempty"`
	PoKMu       []byte   `cbor:"pok_mu,omitempty"`
}

// r5Wire is the round-5 success echo-broadcast payload.
type r5Wire struct {
	OK        bool   `cbor:"ok"`
	SessionID []byte `cbor:"session_id"`
}

type peerState struct {
	commitments []curve.Point
}

// runRound returns the protocol body for cfg, driving the five rounds
// of the unified DKG/Refresh/Reshare sharing protocol against the round
// engine handed to it by pkg/protocol.Run.
func runRound(cfg *config) protocol.Body[*KeygenOutput] {
	return func(eng *round.Engine) (*KeygenOutput, error) {
		group := cfg.group
		list := cfg.participants
		me := cfg.me
		others := list.Others(me)

		sessionID, err := round0SessionID(eng, list, me, cfg.rng)
		if err != nil {
			return nil, err
		}

		f, err := polynomial.NewRandom(group, cfg.t, cfg.secret, cfg.rng)
		if err != nil {
			return nil, &ErrAssertionFailed{Reason: "sampling secret polynomial: " + err.Error()}
		}
		myCommitments := f.Commitments()

		var pok *sch.Proof
		if !cfg.isJoiner {
			ctx := sch.Context{
				SessionID:    sessionID.Bytes(),
				DomainSep:    domPoK,
				ID:           me,
				ConstantTerm: myCommitments[0],
			}
			pok, err = sch.Prove(group, cfg.rng, ctx, cfg.secret)
			if err != nil {
				return nil, &ErrAssertionFailed{Reason: "proving knowledge of secret: " + err.Error()}
			}
		}

		myCommBytes, err := pointsToBytes(myCommitments)
		if err != nil {
			return nil, &ErrAssertionFailed{Reason: "serializing own commitments: " + err.Error()}
		}
		myHash := hashCommitments(me, myCommBytes, sessionID)

		w1 := round.NewSharedChannel(eng)
		w1.Send(myHash)
		hashes, err := w1.RecvAll(others)
		if err != nil {
			return nil, err
		}

		mine2 := r2Wire{Commitments: myCommBytes, HasPoK: pok != nil}
		if pok != nil {
			rBytes, err := pok.R.Bytes()
			if err != nil {
				return nil, &ErrAssertionFailed{Reason: "serializing own PoK: " + err.Error()}
			}
			mine2.PoKR = rBytes
			mine2.PoKMu = pok.Mu.Bytes()
		}
		encoded2, err := cbor.Marshal(mine2)
		if err != nil {
			return nil, &ErrAssertionFailed{Reason: "encoding round 2 payload: " + err.Error()}
		}
		view2, err := round.EchoBroadcast(eng, list, me, encoded2)
		if err != nil {
			return nil, err
		}

		verifyPool := pool.New(0)
		peerResults := make([]peerState, len(others))
		err = verifyPool.Map(len(others), func(i int) error {
			q := others[i]
			var w r2Wire
			if err := cbor.Unmarshal(view2[q], &w); err != nil {
				return &round.ErrMalformedMessage{From: q}
			}

			qIsJoiner := cfg.oldParticipants != nil && !cfg.oldParticipants.Contains(q)

			recomputed := hashCommitments(q, w.Commitments, sessionID)
			if !bytes.Equal(recomputed, hashes[q]) {
				return &ErrInvalidCommitmentHash{From: q}
			}

			expectedLen := cfg.t
			if qIsJoiner {
				expectedLen = cfg.t - 1
			}
			if len(w.Commitments) != expectedLen {
				return &ErrIncorrectNumberOfCommitments{From: q}
			}

			if qIsJoiner == w.HasPoK {
				return &ErrMaliciousParticipant{From: q}
			}

			points := make([]curve.Point, 0, len(w.Commitments))
			for _, b := range w.Commitments {
				p, err := group.PointFromBytes(b)
				if err != nil {
					return &round.ErrMalformedMessage{From: q}
				}
				points = append(points, p)
			}
			if qIsJoiner {
				points = polynomial.InsertIdentity(group, points)
			}

			if !qIsJoiner {
				r, err := group.PointFromBytes(w.PoKR)
				if err != nil {
					return &round.ErrMalformedMessage{From: q}
				}
				mu, err := group.ScalarFromBytes(w.PoKMu)
				if err != nil {
					return &round.ErrMalformedMessage{From: q}
				}
				vctx := sch.Context{
					SessionID:    sessionID.Bytes(),
					DomainSep:    domPoK,
					ID:           q,
					ConstantTerm: points[0],
				}
				if err := sch.Verify(group, vctx, &sch.Proof{R: r, Mu: mu}); err != nil {
					return &ErrInvalidProofOfKnowledge{From: q}
				}
			}

			peerResults[i] = peerState{commitments: points}
			return nil
		})
		if err != nil {
			return nil, err
		}
		peers := make(map[party.Participant]peerState, len(others))
		for i, q := range others {
			peers[q] = peerResults[i]
		}

		w3 := round.NewSharedChannel(eng)
		for _, q := range others {
			share := f.Evaluate(q.Scalar(group))
			w3.SendTo(q, share.Bytes())
		}

		newShare := f.Evaluate(me.Scalar(group))
		var publicKey curve.Point
		if cfg.isJoiner {
			publicKey = group.Identity()
		} else {
			publicKey = myCommitments[0]
		}
		rawShares := make([][]byte, len(others))
		for i, q := range others {
			raw, err := w3.Recv(q)
			if err != nil {
				return nil, err
			}
			rawShares[i] = raw
		}

		verifiedShares := make([]curve.Scalar, len(others))
		err = verifyPool.Map(len(others), func(i int) error {
			q := others[i]
			s, err := group.ScalarFromBytes(rawShares[i])
			if err != nil {
				return &round.ErrMalformedMessage{From: q}
			}
			qState := peers[q]
			if !polynomial.VerifyShare(group, qState.commitments, me.Scalar(group), s) {
				return &ErrInvalidSecretShare{From: q}
			}
			verifiedShares[i] = s
			return nil
		})
		if err != nil {
			return nil, err
		}
		for i, q := range others {
			newShare = newShare.Add(verifiedShares[i])
			publicKey = publicKey.Add(peers[q].commitments[0])
		}

		if cfg.oldPublicKey != nil && !publicKey.Equal(cfg.oldPublicKey) {
			return nil, &ErrPublicKeyMismatch{}
		}

		if err := round5Confirm(eng, list, me, others, sessionID); err != nil {
			return nil, err
		}

		return &KeygenOutput{
			PrivateShare: newShare,
			PublicKey:    publicKey,
			MaxMalicious: cfg.maxMalicious,
			sessionID:    sessionID,
		}, nil
	}
}

func round0SessionID(eng *round.Engine, list *party.List, me party.Participant, rng io.Reader) (types.RID, error) {
	nonce, err := types.NewRID(rng)
	if err != nil {
		return types.RID{}, &ErrAssertionFailed{Reason: "sampling round-0 nonce: " + err.Error()}
	}
	nonceView, err := round.EchoBroadcast(eng, list, me, nonce.Bytes())
	if err != nil {
		return types.RID{}, err
	}

	ids := list.IDs()
	nonces := make(map[uint32]types.RID, len(ids))
	order := make([]uint32, 0, len(ids))
	for _, p := range ids {
		var r types.RID
		copy(r[:], nonceView[p])
		nonces[uint32(p)] = r
		order = append(order, uint32(p))
	}
	return types.SessionID(domSessionID, nonces, order), nil
}

func round5Confirm(eng *round.Engine, list *party.List, me party.Participant, others []party.Participant, sessionID types.RID) error {
	payload, err := cbor.Marshal(r5Wire{OK: true, SessionID: sessionID.Bytes()})
	if err != nil {
		return &ErrAssertionFailed{Reason: "encoding round 5 payload: " + err.Error()}
	}
	view, err := round.EchoBroadcast(eng, list, me, payload)
	if err != nil {
		return err
	}
	for _, q := range others {
		var w r5Wire
		if err := cbor.Unmarshal(view[q], &w); err != nil {
			return &round.ErrMalformedMessage{From: q}
		}
		if !w.OK || !bytes.Equal(w.SessionID, sessionID.Bytes()) {
			return &ErrAssertionFailed{Reason: fmt.Sprintf("%s voted to abort round 5", q)}
		}
	}
	return nil
}

func pointsToBytes(pts []curve.Point) ([][]byte, error) {
	out := make([][]byte, len(pts))
	for i, p := range pts {
		b, err := p.Bytes()
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

func hashCommitments(who party.Participant, commBytes [][]byte, sessionID types.RID) []byte {
	var idBuf [4]byte
	binary.BigEndian.PutUint32(idBuf[:], uint32(who))
	return hash.LabeledHash(domCommit, idBuf[:], encodeByteVectors(commBytes), sessionID.Bytes())
}

func encodeByteVectors(vs [][]byte) []byte {
	var buf bytes.Buffer
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(vs)))
	buf.Write(lenBuf[:])
	for _, v := range vs {
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(v)))
		buf.Write(lenBuf[:])
		buf.Write(v)
	}
	return buf.Bytes()
}
