package codec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"sort"

	"github.com/alistra/boolsearch/boolerr"
)

// Entry payload layout (all integers are unsigned LEB128 varints):
//
//	entryCount
//	for each entry, in ascending key order:
//	  keyLen, keyBytes
//	  <value-specific payload>
//
// Keys are always written in sorted order so that two builds of the same
// logical shard produce byte-identical output regardless of map iteration
// order.

func putUvarint(buf *bytes.Buffer, v uint64) {
	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scratch[:], v)
	buf.Write(scratch[:n])
}

func putString(buf *bytes.Buffer, s string) {
	putUvarint(buf, uint64(len(s)))
	buf.WriteString(s)
}

func readUvarint(r *bufio.Reader) (uint64, error) {
	v, err := binary.ReadUvarint(r)
	if err != nil {
		return 0, boolerr.Wrap(boolerr.KindCodecError, err, "read varint")
	}
	return v, nil
}

func readString(r *bufio.Reader) (string, error) {
	n, err := readUvarint(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", boolerr.Wrap(boolerr.KindCodecError, err, "read string of length %d", n)
	}
	return string(buf), nil
}

// EncodeMorphology serialises a surface->base-forms dictionary. Morphology
// values are never gap-coded (only posting integers are).
func EncodeMorphology(m map[string][]string) []byte {
	keys := sortedKeys(m)

	var buf bytes.Buffer
	putUvarint(&buf, uint64(len(keys)))
	for _, k := range keys {
		putString(&buf, k)
		bases := m[k]
		putUvarint(&buf, uint64(len(bases)))
		for _, b := range bases {
			putString(&buf, b)
		}
	}
	return buf.Bytes()
}

// DecodeMorphology is the inverse of EncodeMorphology.
func DecodeMorphology(payload []byte) (map[string][]string, error) {
	r := bufio.NewReader(bytes.NewReader(payload))
	count, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string, count)
	for i := uint64(0); i < count; i++ {
		key, err := readString(r)
		if err != nil {
			return nil, err
		}
		n, err := readUvarint(r)
		if err != nil {
			return nil, err
		}
		bases := make([]string, n)
		for j := range bases {
			bases[j], err = readString(r)
			if err != nil {
				return nil, err
			}
		}
		out[key] = bases
	}
	return out, nil
}

// EncodePositional serialises a base-form->positional-posting dictionary.
// When delta is true, each posting is gap-coded first.
func EncodePositional(m map[string]Posting, delta bool) []byte {
	keys := sortedKeys(m)

	var buf bytes.Buffer
	putUvarint(&buf, uint64(len(keys)))
	for _, k := range keys {
		putString(&buf, k)
		posting := m[k]
		if delta {
			posting = DeltaEncodePosting(posting)
		}
		putUvarint(&buf, uint64(len(posting)))
		for _, e := range posting {
			putUvarint(&buf, rawUint(e.DocID))
			putUvarint(&buf, uint64(len(e.Positions)))
			for _, p := range e.Positions {
				putUvarint(&buf, rawUint(p))
			}
		}
	}
	return buf.Bytes()
}

// DecodePositional is the inverse of EncodePositional.
func DecodePositional(payload []byte, delta bool) (map[string]Posting, error) {
	r := bufio.NewReader(bytes.NewReader(payload))
	count, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Posting, count)
	for i := uint64(0); i < count; i++ {
		key, err := readString(r)
		if err != nil {
			return nil, err
		}
		n, err := readUvarint(r)
		if err != nil {
			return nil, err
		}
		posting := make(Posting, n)
		for j := range posting {
			docRaw, err := readUvarint(r)
			if err != nil {
				return nil, err
			}
			pc, err := readUvarint(r)
			if err != nil {
				return nil, err
			}
			positions := make([]int32, pc)
			for k := range positions {
				pRaw, err := readUvarint(r)
				if err != nil {
					return nil, err
				}
				positions[k] = int32(pRaw)
			}
			posting[j] = DocPositions{DocID: int32(docRaw), Positions: positions}
		}
		if delta {
			posting = DeltaDecodePosting(posting)
		}
		out[key] = posting
	}
	return out, nil
}

// EncodeNonPositional serialises a base-form->doc-id-list dictionary.
func EncodeNonPositional(m map[string]NonPositional, delta bool) []byte {
	keys := sortedKeys(m)

	var buf bytes.Buffer
	putUvarint(&buf, uint64(len(keys)))
	for _, k := range keys {
		putString(&buf, k)
		docs := m[k]
		if delta {
			docs = DeltaEncodeNonPositional(docs)
		}
		putUvarint(&buf, uint64(len(docs)))
		for _, d := range docs {
			putUvarint(&buf, rawUint(d))
		}
	}
	return buf.Bytes()
}

// DecodeNonPositional is the inverse of EncodeNonPositional.
func DecodeNonPositional(payload []byte, delta bool) (map[string]NonPositional, error) {
	r := bufio.NewReader(bytes.NewReader(payload))
	count, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	out := make(map[string]NonPositional, count)
	for i := uint64(0); i < count; i++ {
		key, err := readString(r)
		if err != nil {
			return nil, err
		}
		n, err := readUvarint(r)
		if err != nil {
			return nil, err
		}
		docs := make(NonPositional, n)
		for j := range docs {
			raw, err := readUvarint(r)
			if err != nil {
				return nil, err
			}
			docs[j] = int32(raw)
		}
		if delta {
			docs = DeltaDecodeNonPositional(docs)
		}
		out[key] = docs
	}
	return out, nil
}

// EncodeTitles serialises the ordered title sequence.
func EncodeTitles(titles []string) []byte {
	var buf bytes.Buffer
	putUvarint(&buf, uint64(len(titles)))
	for _, t := range titles {
		putString(&buf, t)
	}
	return buf.Bytes()
}

// DecodeTitles is the inverse of EncodeTitles.
func DecodeTitles(payload []byte) ([]string, error) {
	r := bufio.NewReader(bytes.NewReader(payload))
	count, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	titles := make([]string, count)
	for i := range titles {
		titles[i], err = readString(r)
		if err != nil {
			return nil, err
		}
	}
	return titles, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// rawUint stores a non-negative gap/value as its own uvarint. Doc ids,
// positions and their gaps are never negative (strictly increasing
// sequences, gaps measured from a running total that never exceeds the
// current value), so a plain cast is sufficient and avoids the branching
// cost of real zigzag coding.
func rawUint(v int32) uint64 {
	return uint64(uint32(v))
}
