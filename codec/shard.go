package codec

import "os"

// WriteMorphologyShard writes a surface->base-forms dictionary to path,
// atomically, gzip-wrapped when compressed is set.
func WriteMorphologyShard(path string, m map[string][]string, compressed bool) error {
	return writeFrame(path, EncodeMorphology(m), compressed)
}

// ReadMorphologyShard reads back a shard written by WriteMorphologyShard.
// A missing file is reported as a boolerr KindMissingShard error; callers
// should test with boolerr.Is(err, boolerr.KindMissingShard) (or
// codec.IsNotExist) and treat it as an empty shard rather than surfacing
// the error.
func ReadMorphologyShard(path string, compressed bool) (map[string][]string, error) {
	payload, err := readFrame(path, compressed)
	if err != nil {
		return nil, err
	}
	return DecodeMorphology(payload)
}

// WritePositionalShard writes a base-form->positional-posting dictionary,
// gap-coding posting values when compressed is set.
func WritePositionalShard(path string, m map[string]Posting, compressed bool) error {
	return writeFrame(path, EncodePositional(m, compressed), compressed)
}

// ReadPositionalShard reads back a shard written by WritePositionalShard.
func ReadPositionalShard(path string, compressed bool) (map[string]Posting, error) {
	payload, err := readFrame(path, compressed)
	if err != nil {
		return nil, err
	}
	return DecodePositional(payload, compressed)
}

// WriteNonPositionalShard writes a base-form->doc-id-list dictionary.
func WriteNonPositionalShard(path string, m map[string]NonPositional, compressed bool) error {
	return writeFrame(path, EncodeNonPositional(m, compressed), compressed)
}

// ReadNonPositionalShard reads back a shard written by WriteNonPositionalShard.
func ReadNonPositionalShard(path string, compressed bool) (map[string]NonPositional, error) {
	payload, err := readFrame(path, compressed)
	if err != nil {
		return nil, err
	}
	return DecodeNonPositional(payload, compressed)
}

// WriteTitles writes the ordered title sequence.
func WriteTitles(path string, titles []string, compressed bool) error {
	return writeFrame(path, EncodeTitles(titles), compressed)
}

// ReadTitles reads back the title sequence written by WriteTitles.
func ReadTitles(path string, compressed bool) ([]string, error) {
	payload, err := readFrame(path, compressed)
	if err != nil {
		return nil, err
	}
	return DecodeTitles(payload)
}

// Exists reports whether a shard file is present, without reading it.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
