package reader

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/hupe1980/seqdata/dataset"
)

const bytesPerValue = 4

// Features reads feature sequences of Channels interleaved float32 values per
// frame. The first Shift frames are dropped.
type Features struct {
	Channels int
	Shift    int
}

func (f Features) channels() int {
	return max(f.Channels, 1)
}

// Decode returns the sequence stored in data.
func (f Features) Decode(data []byte) (*dataset.Sequence, error) {
	raw, err := Decompress(data)
	if err != nil {
		return nil, err
	}
	ch := f.channels()
	frameBytes := ch * bytesPerValue
	if len(raw)%frameBytes != 0 {
		return nil, fmt.Errorf("%w: %d bytes, %d channels", ErrMisaligned, len(raw), ch)
	}

	skip := min(max(f.Shift, 0)*frameBytes, len(raw))
	raw = raw[skip:]

	values := make([]float32, len(raw)/bytesPerValue)
	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*bytesPerValue:]))
	}
	return dataset.NewSequence(values, ch), nil
}

// ReadField implements FieldReader.
func (f Features) ReadField(data []byte) (any, error) {
	return f.Decode(data)
}

// Length returns the number of frames after the shift.
func (f Features) Length(data []byte) (int, error) {
	if Detect(data) == None {
		if len(data)%(f.channels()*bytesPerValue) != 0 {
			return 0, fmt.Errorf("%w: %d bytes, %d channels", ErrMisaligned, len(data), f.channels())
		}
		return f.Frames(int64(len(data))), nil
	}
	seq, err := f.Decode(data)
	if err != nil {
		return 0, err
	}
	return seq.Len, nil
}

// Frames returns the frame count of an uncompressed blob of size bytes.
func (f Features) Frames(size int64) int {
	n := int(size / int64(f.channels()*bytesPerValue))
	return max(n-max(f.Shift, 0), 0)
}

// EncodeFeatures serializes seq in the feature blob format.
func EncodeFeatures(seq *dataset.Sequence, c Compression) ([]byte, error) {
	raw := make([]byte, len(seq.Data)*bytesPerValue)
	for i, v := range seq.Data {
		binary.LittleEndian.PutUint32(raw[i*bytesPerValue:], math.Float32bits(v))
	}
	return Compress(raw, c)
}
