package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
)

type entry struct {
	token string
	index int
}

// Dictionary is a token ↔ index table with 1-based indices.
//
// Several tokens may share an index only through Collapse; Token(idx) then
// returns the canonical (first inserted) token.
type Dictionary struct {
	index   map[string]int
	token   map[int]string
	entries []entry
	max     int
}

// New returns an empty dictionary.
func New() *Dictionary {
	return &Dictionary{
		index: make(map[string]int),
		token: make(map[int]string),
	}
}

// FromTokens builds a dictionary by inserting tokens sequentially.
func FromTokens(tokens ...string) (*Dictionary, error) {
	d := New()
	for _, t := range tokens {
		if _, err := d.Add(t); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Load reads a dictionary file.
func Load(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	d, err := Build(f)
	if err != nil {
		return nil, fmt.Errorf("dictionary %s: %w", path, err)
	}
	return d, nil
}

// Build parses newline-delimited entries of the form `token` or `token index`.
func Build(r io.Reader) (*Dictionary, error) {
	d := New()
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		fields := strings.Fields(text)
		switch len(fields) {
		case 0:
			continue
		case 1:
			if _, err := d.add(fields[0], d.max+1, line); err != nil {
				return nil, err
			}
		case 2:
			idx, err := strconv.Atoi(fields[1])
			if err != nil || idx <= 0 {
				return nil, &InvalidLineError{Line: line, Text: text}
			}
			if _, err := d.add(fields[0], idx, line); err != nil {
				return nil, err
			}
		default:
			return nil, &InvalidLineError{Line: line, Text: text}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	return d, nil
}

// Add inserts token at MaxIndex()+1 and returns its index.
func (d *Dictionary) Add(token string) (int, error) {
	return d.add(token, d.max+1, 0)
}

// AddIndex inserts token at an explicit index.
func (d *Dictionary) AddIndex(token string, index int) error {
	if index <= 0 {
		return &InvalidLineError{Text: fmt.Sprintf("%s %d", token, index)}
	}
	_, err := d.add(token, index, 0)
	return err
}

func (d *Dictionary) add(token string, index, line int) (int, error) {
	if _, ok := d.index[token]; ok {
		return 0, &DuplicateTokenError{Token: token, Line: line}
	}
	if owner, ok := d.token[index]; ok {
		return 0, &DuplicateIndexError{Index: index, Token: token, Owner: owner, Line: line}
	}
	d.insert(token, index)
	d.token[index] = token
	return index, nil
}

// alias maps token onto an index that is already owned by a canonical token.
func (d *Dictionary) alias(token string, index int) error {
	if _, ok := d.index[token]; ok {
		return &DuplicateTokenError{Token: token}
	}
	d.insert(token, index)
	return nil
}

func (d *Dictionary) insert(token string, index int) {
	d.index[token] = index
	d.entries = append(d.entries, entry{token: token, index: index})
	if index > d.max {
		d.max = index
	}
}

// Index returns the index of token.
func (d *Dictionary) Index(token string) (int, error) {
	idx, ok := d.index[token]
	if !ok {
		return 0, &UnknownTokenError{Token: token}
	}
	return idx, nil
}

// Token returns the canonical token stored at index.
func (d *Dictionary) Token(index int) (string, error) {
	t, ok := d.token[index]
	if !ok {
		return "", &UnknownTokenError{Index: index}
	}
	return t, nil
}

// Contains reports whether token is known.
func (d *Dictionary) Contains(token string) bool {
	_, ok := d.index[token]
	return ok
}

// MaxIndex returns the greatest assigned index (0 for an empty dictionary).
func (d *Dictionary) MaxIndex() int {
	return d.max
}

// Len returns the number of tokens, aliases included.
func (d *Dictionary) Len() int {
	return len(d.index)
}

// Tokens returns the canonical tokens ordered by index.
func (d *Dictionary) Tokens() []string {
	idx := make([]int, 0, len(d.token))
	for i := range d.token {
		idx = append(idx, i)
	}
	slices.Sort(idx)

	out := make([]string, len(idx))
	for i, k := range idx {
		out[i] = d.token[k]
	}
	return out
}

// Encode maps tokens to their indices.
func (d *Dictionary) Encode(tokens []string) ([]int, error) {
	out := make([]int, len(tokens))
	for i, t := range tokens {
		idx, err := d.Index(t)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}

// EncodeString splits s on whitespace and encodes the tokens.
func (d *Dictionary) EncodeString(s string) ([]int, error) {
	return d.Encode(strings.Fields(s))
}

// Decode maps indices back to tokens joined by sep.
func (d *Dictionary) Decode(indices []int, sep string) (string, error) {
	var sb strings.Builder
	for i, idx := range indices {
		t, err := d.Token(idx)
		if err != nil {
			return "", err
		}
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(t)
	}
	return sb.String(), nil
}

// WriteTo writes the dictionary in the `token index` file format, one entry
// per line, in insertion order.
func (d *Dictionary) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, e := range d.entries {
		m, err := fmt.Fprintf(bw, "%s %d\n", e.token, e.index)
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}
