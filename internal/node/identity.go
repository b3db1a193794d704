package node

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"sort"
	"strconv"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/gravnet/engine/internal/payload"
)

// MintAddr derives a node's initial addr from its UTC ISO-8601 birth
// timestamp, before it has any neighbors to hash over. It is the initial
// content digest the Registry assigns at creation (spec.md §3 lifecycle).
func MintAddr(birthISO string) chainhash.Hash {
	return chainhash.Hash(sha256.Sum256([]byte(birthISO)))
}

// UpdateAddr recomputes n.Addr as the SHA-256 digest over, in order: the
// ASCII decimal id, the UTF-8 canonical payload summary, the little-endian
// IEEE-754 bytes of pos, and each neighbor's addr in ascending neighbor-id
// order. addr carries no cryptographic security property — it is a content
// digest for change detection, not a signature (spec.md Non-goals).
//
// chainhash.Hash is reused here purely as a [32]byte hex-printable
// container from the teacher's bitcoin stack; nothing about its ECDSA
// lineage is exercised.
func UpdateAddr(n *Node) {
	h := sha256.New()
	h.Write([]byte(strconv.Itoa(n.ID)))

	summary, _ := payload.Summarize(n.Payload)
	h.Write([]byte(summary))

	var posBytes [24]byte
	binary.LittleEndian.PutUint64(posBytes[0:8], math.Float64bits(n.Pos.X))
	binary.LittleEndian.PutUint64(posBytes[8:16], math.Float64bits(n.Pos.Y))
	binary.LittleEndian.PutUint64(posBytes[16:24], math.Float64bits(n.Pos.Z))
	h.Write(posBytes[:])

	for _, addr := range sortedNeighborAddrs(n) {
		h.Write([]byte(addr.String()))
	}

	copy(n.Addr[:], h.Sum(nil))
}

func sortedNeighborAddrs(n *Node) []chainhash.Hash {
	type idAddr struct {
		id   int
		addr chainhash.Hash
	}
	pairs := make([]idAddr, 0, len(n.neighbors))
	for _, nb := range n.neighbors {
		pairs = append(pairs, idAddr{nb.ID, nb.Addr})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].id < pairs[j].id })
	addrs := make([]chainhash.Hash, len(pairs))
	for i, p := range pairs {
		addrs[i] = p.addr
	}
	return addrs
}
