package dataset

// Merge combines records into one batch.
//
// Inputs are copied left-aligned into a zero-filled [len(recs), maxLen,
// channels] tensor; channels is taken from the first record. Targets and any
// other field are kept per example.
func Merge(recs []Record) (*Batch, error) {
	if len(recs) == 0 {
		return &Batch{Input: &Tensor{Shape: []int{0, 0, 0}}, Fields: map[string][]any{}}, nil
	}

	inputs := make([]*Sequence, len(recs))
	maxLen := 0
	channels := 0
	for i, rec := range recs {
		seq, ok := rec.Input()
		if !ok {
			return nil, &MissingFieldError{Index: i, Field: FieldInput}
		}
		if i == 0 {
			channels = seq.Channels
		} else if seq.Channels != channels {
			return nil, &ChannelMismatchError{Index: i, Want: channels, Got: seq.Channels}
		}
		if seq.Len < 0 || seq.Channels < 0 || seq.Len*seq.Channels > len(seq.Data) {
			return nil, &MalformedSequenceError{Index: i, Len: seq.Len, Channels: seq.Channels, Values: len(seq.Data)}
		}
		inputs[i] = seq
		maxLen = max(maxLen, seq.Len)
	}

	stride := maxLen * channels
	data := make([]float32, len(recs)*stride)
	lengths := make([]int, len(recs))
	for i, seq := range inputs {
		copy(data[i*stride:], seq.Data[:seq.Len*channels])
		lengths[i] = seq.Len
	}

	batch := &Batch{
		Input:   &Tensor{Data: data, Shape: []int{len(recs), maxLen, channels}},
		Lengths: lengths,
		Targets: make([][]int, len(recs)),
		Fields:  make(map[string][]any),
	}
	for i, rec := range recs {
		for k, v := range rec {
			switch k {
			case FieldInput:
				continue
			case FieldTarget:
				if t, ok := v.([]int); ok {
					batch.Targets[i] = t
					continue
				}
			}
			col, ok := batch.Fields[k]
			if !ok {
				col = make([]any, len(recs))
				batch.Fields[k] = col
			}
			col[i] = v
		}
	}
	return batch, nil
}
