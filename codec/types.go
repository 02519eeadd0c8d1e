// Package codec implements the Prefix Codec: a length-prefixed binary
// serialisation for prefix-shard payloads (morphology dictionaries,
// positional postings, non-positional postings, and the title sequence),
// optional gzip wrapping, and gap (delta) coding of posting integers. The
// format carries no version marker: neither the payload nor the checksum
// frame records which layout wrote a file.
//
// The on-disk shape is deliberately simple and streaming-friendly, in the
// spirit of hand-rolled binary postings files (.mst/.trm/.pst/.uqi/.ofs
// framing) rather than a general-purpose codec like gob or protobuf: every
// value here is either a sorted integer sequence or a short string list, so
// a purpose-built varint framing is both simpler and smaller than a
// reflection-based encoder.
package codec

// DocPositions is one entry of a positional posting: a document id paired
// with the strictly increasing 1-based positions of the base form within
// that document.
type DocPositions struct {
	DocID     int32
	Positions []int32
}

// Posting is a positional posting: entries ordered by strictly increasing
// DocID.
type Posting []DocPositions

// NonPositional is the doc-id projection of a Posting: strictly increasing
// document ids with no position information.
type NonPositional []int32

// DocIDs returns the non-positional projection of a Posting, i.e. the doc
// ids alone in the same order.
func (p Posting) DocIDs() NonPositional {
	out := make(NonPositional, len(p))
	for i, e := range p {
		out[i] = e.DocID
	}
	return out
}
