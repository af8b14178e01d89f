// Package crc computes the CRC-32 checksum that ZIP archives use for
// content integrity.
//
// The checksum uses the reflected IEEE polynomial 0xEDB88320 with an
// all-ones initial value and a final complement, so that
// Checksum([]byte("123456789")) == 0xCBF43926.
package crc

import "hash"

// Size is the length of a CRC-32 checksum in bytes.
const Size = 4

// poly is the reflected form of the IEEE CRC-32 polynomial.
const poly = 0xEDB88320

var table = makeTable()

func makeTable() *[256]uint32 {
	t := new([256]uint32)
	for i := range t {
		c := uint32(i)
		for j := 0; j < 8; j++ {
			if c&1 == 1 {
				c = poly ^ c>>1
			} else {
				c >>= 1
			}
		}
		t[i] = c
	}
	return t
}

// Checksum returns the CRC-32 checksum of p.
func Checksum(p []byte) uint32 {
	return Update(0, p)
}

// Update adds the bytes in p to crc, a running checksum that starts at 0.
func Update(crc uint32, p []byte) uint32 {
	crc = ^crc
	for _, b := range p {
		crc = table[byte(crc)^b] ^ crc>>8
	}
	return ^crc
}

// New returns a new hash.Hash32 computing the CRC-32 checksum.
func New() hash.Hash32 {
	return new(digest)
}

type digest uint32

func (d *digest) Write(p []byte) (int, error) {
	*d = digest(Update(uint32(*d), p))
	return len(p), nil
}

func (d *digest) Sum32() uint32 { return uint32(*d) }

func (d *digest) Sum(in []byte) []byte {
	s := d.Sum32()
	return append(in, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
}

func (d *digest) Reset() { *d = 0 }

func (d *digest) Size() int { return Size }

func (d *digest) BlockSize() int { return 1 }
