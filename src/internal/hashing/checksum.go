package hashing

import (
	"crypto/md5"
	"encoding/hex"
	"hash"
	"io"
	"sort"
	"strings"
)

// Reader fingerprints everything read through it.
type Reader struct {
	r io.Reader
	h hash.Hash
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, h: md5.New()}
}

func (p *Reader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	p.h.Write(buf[:n])
	return n, err
}

// Sum is the hex MD5 of the bytes read so far.
func (p *Reader) Sum() string {
	return hex.EncodeToString(p.h.Sum(nil))
}

// Set collects distinct strings. Its digest does not depend on the order
// they were added in, so two route lists that protect the same routes
// produce the same digest.
type Set struct {
	items map[string]struct{}
}

func NewSet() *Set {
	return &Set{items: make(map[string]struct{})}
}

// Add reports whether s was new.
func (s *Set) Add(item string) bool {
	if _, dup := s.items[item]; dup {
		return false
	}
	s.items[item] = struct{}{}
	return true
}

func (s *Set) Len() int {
	return len(s.items)
}

// Digest is the hex MD5 of the sorted items, one per line. An empty set
// yields "".
func (s *Set) Digest() string {
	if len(s.items) == 0 {
		return ""
	}
	sorted := make([]string, 0, len(s.items))
	for item := range s.items {
		sorted = append(sorted, item)
	}
	sort.Strings(sorted)

	sum := md5.Sum([]byte(strings.Join(sorted, "\n") + "\n"))
	return hex.EncodeToString(sum[:])
}
