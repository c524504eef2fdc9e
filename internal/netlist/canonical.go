package netlist

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DomainNetwork is the domain prefix for network fingerprints.
// Version suffix enables future canonical-form migration.
const DomainNetwork = "pulsenet/network/v1"

// buildCanonical renders declarations back into the line grammar, one
// module per line in declaration order, with all names NFC normalized.
// Blank lines and Unicode representation differences wash out; the
// graph as written is what remains.
func buildCanonical(decls []declaration) string {
	var b strings.Builder
	for _, d := range decls {
		b.WriteString(d.kind.Marker())
		b.WriteString(norm.NFC.String(d.name))
		b.WriteString(separator)
		for i, out := range d.outputs {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(norm.NFC.String(out))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Canonical returns the canonical text form of the network. The
// synthetic sink is derived from the declarations and is not rendered.
func (n *Network) Canonical() string {
	return n.canonical
}

// Fingerprint is the content address of the network: the hex SHA-256 of
// the canonical form under the DomainNetwork prefix. Stable across
// restarts, suitable as a cache key.
//
// Format: SHA256(domain + 0x00 + canonical). The null byte prevents
// domain/data boundary ambiguity.
func (n *Network) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(DomainNetwork))
	h.Write([]byte{0x00})
	h.Write([]byte(n.canonical))
	return hex.EncodeToString(h.Sum(nil))
}
