// Package payload implements the MP3S wire framing and the repeating-key
// XOR obfuscation applied to its body. Grounded on the Python original's
// mp3lsbsteg/stego/payload.py.
package payload

import (
	"encoding/binary"
	"strings"
)

// Magic is the 4-byte payload header magic.
var Magic = []byte("MP3S")

// HeaderSize is the fixed framing header length: 4-byte magic, 4-byte
// big-endian length, 8-byte extension field.
const HeaderSize = 16

const extFieldSize = 8

// Wrap builds the full MP3S-framed payload: MAGIC ∥ LENGTH(len(body),
// big-endian) ∥ EXT(8 bytes, null-padded) ∥ body. The extension is derived
// from srcPath's last dotted suffix, lower-cased, restricted to
// [a-z0-9_-], and truncated to 8 bytes.
func Wrap(body []byte, srcPath string) []byte {
	ext := extensionOf(srcPath)

	out := make([]byte, 0, HeaderSize+len(body))
	out = append(out, Magic...)

	lenField := make([]byte, 4)
	binary.BigEndian.PutUint32(lenField, uint32(len(body)))
	out = append(out, lenField...)

	extField := make([]byte, extFieldSize)
	copy(extField, ext)
	out = append(out, extField...)

	out = append(out, body...)
	return out
}

func extensionOf(srcPath string) []byte {
	dot := strings.LastIndexByte(srcPath, '.')
	slash := strings.LastIndexAny(srcPath, "/\\")
	if dot <= slash || dot == len(srcPath)-1 {
		return nil
	}
	raw := strings.ToLower(srcPath[dot+1:])
	var filtered []byte
	for _, c := range []byte(raw) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' || c == '-' {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) > extFieldSize {
		filtered = filtered[:extFieldSize]
	}
	return filtered
}

// TryParseHeader inspects the first HeaderSize bytes of buf (which must be
// at least that long) and reports whether the magic matches, the total
// framed size (16 + LENGTH field), and the extension string with trailing
// zero padding dropped.
func TryParseHeader(buf []byte) (magicOK bool, totalBytes int, ext string) {
	if len(buf) < HeaderSize {
		return false, 0, ""
	}
	if string(buf[0:4]) != string(Magic) {
		return false, 0, ""
	}
	length := int(binary.BigEndian.Uint32(buf[4:8]))
	extBytes := buf[8:16]
	end := len(extBytes)
	for i, b := range extBytes {
		if b == 0 {
			end = i
			break
		}
	}
	return true, HeaderSize + length, string(extBytes[:end])
}

// VigenereXOR applies a repeating-key XOR to data. It is its own inverse,
// and is the identity transform when key is empty.
func VigenereXOR(data []byte, key string) []byte {
	if len(key) == 0 {
		return data
	}
	out := make([]byte, len(data))
	kb := []byte(key)
	for i, b := range data {
		out[i] = b ^ kb[i%len(kb)]
	}
	return out
}
