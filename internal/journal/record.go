package journal

import (
	"encoding/binary"
	"hash/crc32"
)

// Entry framing: varint headerLen | header | payload | crc32c(header|payload)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// EncodeEntry frames a header and payload for storage.
func EncodeEntry(header, payload []byte) []byte {
	out := make([]byte, 0, 10+len(header)+len(payload)+4)
	var tmp [10]byte
	n := binary.PutUvarint(tmp[:], uint64(len(header)))
	out = append(out, tmp[:n]...)
	out = append(out, header...)
	out = append(out, payload...)

	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	var crcb [4]byte
	binary.BigEndian.PutUint32(crcb[:], crc)
	return append(out, crcb[:]...)
}

// DecodeEntry unframes a stored entry. It returns false on truncation or
// checksum mismatch.
func DecodeEntry(b []byte) ([]byte, []byte, bool) {
	if len(b) < 1+4 {
		return nil, nil, false
	}
	hlen, n := binary.Uvarint(b)
	if n <= 0 || int(n)+int(hlen)+4 > len(b) {
		return nil, nil, false
	}
	header := b[n : n+int(hlen)]
	payload := b[n+int(hlen) : len(b)-4]
	want := binary.BigEndian.Uint32(b[len(b)-4:])
	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	if crc != want {
		return nil, nil, false
	}
	return append([]byte(nil), header...), append([]byte(nil), payload...), true
}
