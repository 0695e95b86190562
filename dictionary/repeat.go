package dictionary

import (
	"fmt"
	"strconv"
)

// WithRepeatLabels returns a copy of d extended with the repeat-count tokens
// "1".."n". Tokens already present are left untouched.
func (d *Dictionary) WithRepeatLabels(n int) (*Dictionary, error) {
	out := New()
	for _, e := range d.entries {
		if _, owned := out.token[e.index]; owned {
			if err := out.alias(e.token, e.index); err != nil {
				return nil, err
			}
			continue
		}
		if _, err := out.add(e.token, e.index, 0); err != nil {
			return nil, err
		}
	}
	for i := 1; i <= n; i++ {
		tok := strconv.Itoa(i)
		if out.Contains(tok) {
			continue
		}
		if _, err := out.Add(tok); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// PackRepeats replaces each run of a repeated label by the label followed by
// the repeat-count token, e.g. with n=2 "a a a b" becomes "a 2 b". Runs longer
// than n+1 are split.
func (d *Dictionary) PackRepeats(seq []int, n int) ([]int, error) {
	if n <= 0 {
		return seq, nil
	}
	reps, err := d.repeatIndices(n)
	if err != nil {
		return nil, err
	}

	out := make([]int, 0, len(seq))
	for i := 0; i < len(seq); {
		out = append(out, seq[i])
		j := i + 1
		for j < len(seq) && seq[j] == seq[i] && j-i <= n {
			j++
		}
		if count := j - i - 1; count > 0 {
			out = append(out, reps[count-1])
		}
		i = j
	}
	return out, nil
}

// UnpackRepeats reverses PackRepeats.
func (d *Dictionary) UnpackRepeats(seq []int, n int) ([]int, error) {
	if n <= 0 {
		return seq, nil
	}
	reps, err := d.repeatIndices(n)
	if err != nil {
		return nil, err
	}
	count := make(map[int]int, n)
	for i, idx := range reps {
		count[idx] = i + 1
	}

	out := make([]int, 0, len(seq))
	for i, idx := range seq {
		c, isRep := count[idx]
		if !isRep {
			out = append(out, idx)
			continue
		}
		if i == 0 {
			return nil, fmt.Errorf("repeat label %d at start of sequence", c)
		}
		prev := out[len(out)-1]
		for k := 0; k < c; k++ {
			out = append(out, prev)
		}
	}
	return out, nil
}

func (d *Dictionary) repeatIndices(n int) ([]int, error) {
	reps := make([]int, n)
	for i := range reps {
		idx, err := d.Index(strconv.Itoa(i + 1))
		if err != nil {
			return nil, err
		}
		reps[i] = idx
	}
	return reps, nil
}
