// Package stego drives the frame walker shared by embedding, extraction,
// and capacity estimation: a single parameterised pass over a stream's
// frames that either counts, writes, or reads carrier bits, built once per
// call from the mask threshold, reservoir map, and carrier selector.
// Grounded on the Python original's stego/embed.py (embed_file,
// extract_file_auto, estimate_capacity), expressed as a position-sink
// polymorphism per spec.md §9's design note.
package stego

import (
	"errors"
	"fmt"

	"github.com/mp3lsbsteg/mp3lsbsteg/internal/bitio"
	"github.com/mp3lsbsteg/mp3lsbsteg/internal/carrier"
	"github.com/mp3lsbsteg/mp3lsbsteg/internal/mpegframe"
	"github.com/mp3lsbsteg/mp3lsbsteg/internal/payload"
	"github.com/mp3lsbsteg/mp3lsbsteg/internal/reservoir"
)

// Sentinel error kinds, per spec.md §7. Callers should use errors.Is
// against these; the wrapped message carries the offending detail.
var (
	ErrInvalidInput         = errors.New("stego: invalid input")
	ErrInsufficientCapacity = errors.New("stego: insufficient capacity")
	ErrMagicNotFound        = errors.New("stego: magic header not found")
	ErrIncompletePayload    = errors.New("stego: incomplete payload")
	ErrUnexpectedEarlyStop  = errors.New("stego: unexpected early stop")
	ErrMalformedStream      = errors.New("stego: malformed stream")
)

// Options bundles the knobs shared by Embed, Extract, and Capacity, per
// spec.md §4.7-4.8. Extract must be called with the same Options used for
// the matching Embed call, or recovery fails by design.
type Options struct {
	// BitsPerFrame caps how many carrier bits a single frame may supply.
	// Embed and Extract require it in [1,8] (spec.md §7/§8 boundary
	// behaviour); Capacity does not check it, and treats 0 or a negative
	// value as "uncapped", matching the Python original's
	// estimate_capacity(bits_per_frame=None).
	BitsPerFrame int
	// Fraction throttles the approximate per-frame carrier count; must be
	// in (0,1].
	Fraction float64
	// Key seeds the deterministic PRF; empty means position-ordered
	// (key-independent) selection.
	Key string
	// Vigenere, if true, XORs the payload body with Key on embed and
	// un-XORs it on extract.
	Vigenere bool
	// MaskPercentile selects the global-gain mask threshold; a negative
	// value disables masking entirely.
	MaskPercentile float64
	// MaxFrames caps how many leading frames the walker visits; 0 or
	// negative means unbounded.
	MaxFrames int
}

func (o Options) validateCommon() error {
	if o.Fraction <= 0 || o.Fraction > 1 {
		return fmt.Errorf("%w: fraction %v outside (0,1]", ErrInvalidInput, o.Fraction)
	}
	return nil
}

func (o Options) validateBitsPerFrameRequired() error {
	if o.BitsPerFrame < 1 || o.BitsPerFrame > 8 {
		return fmt.Errorf("%w: bits_per_frame %d outside [1,8]", ErrInvalidInput, o.BitsPerFrame)
	}
	return nil
}

// sink is the position-sink capability spec.md §9 describes: the walker
// visits one candidate file-bit position at a time and the sink decides
// what to do with it (count it, write a payload bit into it, or read a bit
// out of it), signalling when the walk can stop early.
type sink interface {
	visit(buf []byte, pos int) (stop bool, err error)
}

type countSink struct {
	n int
}

func (s *countSink) visit(buf []byte, pos int) (bool, error) {
	s.n++
	return false, nil
}

type writeSink struct {
	wrapped   []byte
	totalBits int
	bitIdx    int
}

func (s *writeSink) visit(buf []byte, pos int) (bool, error) {
	if s.bitIdx >= s.totalBits {
		return true, nil
	}
	byteIdx := s.bitIdx / 8
	bitInByte := 7 - (s.bitIdx % 8)
	bit := int((s.wrapped[byteIdx] >> uint(bitInByte)) & 1)
	if err := bitio.WriteBitAt(buf, pos, bit); err != nil {
		return false, err
	}
	s.bitIdx++
	return s.bitIdx >= s.totalBits, nil
}

type readSink struct {
	bits         []int
	headerParsed bool
	totalBytes   int
	ext          string
}

func (s *readSink) visit(buf []byte, pos int) (bool, error) {
	bit, err := bitio.ReadBitAt(buf, pos)
	if err != nil {
		return false, err
	}
	s.bits = append(s.bits, bit)

	if !s.headerParsed && len(s.bits) >= payload.HeaderSize*8 {
		hdr := bitio.BitsToBytes(s.bits[:payload.HeaderSize*8])
		magicOK, total, ext := payload.TryParseHeader(hdr)
		if !magicOK {
			return false, ErrMagicNotFound
		}
		s.headerParsed = true
		s.totalBytes = total
		s.ext = ext
	}

	if s.headerParsed && len(s.bits) >= s.totalBytes*8 {
		return true, nil
	}
	return false, nil
}

// buildMap parses frames and the reservoir map once per call, per spec.md
// §9's note that the walker needs both simultaneously.
func buildMap(data []byte) (*reservoir.Map, error) {
	frames := mpegframe.IterateFrames(data)
	rm, err := reservoir.Build(data, frames)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedStream, err)
	}
	return rm, nil
}

// walk drives the shared frame pass: compute the mask threshold once,
// then for each frame (bounded by MaxFrames) skip it if masked, else run
// the carrier selector and feed every deduplicated position to sink in
// order, stopping as soon as sink reports it is done.
func walk(data []byte, rm *reservoir.Map, opts Options, s sink) error {
	maskEnabled := opts.MaskPercentile >= 0
	var threshold float64
	if maskEnabled {
		threshold = carrier.MaskThreshold(rm.Frames, opts.MaskPercentile)
	}

	used := make(map[int]bool)
	for fi, fw := range rm.Frames {
		if opts.MaxFrames > 0 && fi >= opts.MaxFrames {
			break
		}
		if maskEnabled && carrier.FrameAvgGlobalGain(fw) < threshold {
			continue
		}
		positions := carrier.SelectPositions(fw, fi, opts.Key, opts.Fraction, opts.BitsPerFrame)
		for _, pos := range positions {
			if used[pos] {
				continue
			}
			used[pos] = true
			stop, err := s.visit(data, pos)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}
	}
	return nil
}

// Capacity counts how many carrier bit positions the walker would visit
// under opts, without reading or writing any payload (spec.md §4.8).
func Capacity(data []byte, opts Options) (int, error) {
	if err := opts.validateCommon(); err != nil {
		return 0, err
	}
	rm, err := buildMap(data)
	if err != nil {
		return 0, err
	}
	s := &countSink{}
	if err := walk(data, rm, opts, s); err != nil {
		return 0, err
	}
	return s.n, nil
}

// Embed wraps payloadBody per spec.md §4.5, optionally XORs it, verifies
// capacity, then writes it bit-by-bit into a mutable copy of data
// following the exact walk order Extract will later replay.
func Embed(data []byte, payloadBody []byte, srcName string, opts Options) ([]byte, error) {
	if err := opts.validateCommon(); err != nil {
		return nil, err
	}
	if err := opts.validateBitsPerFrameRequired(); err != nil {
		return nil, err
	}

	wrapped := payload.Wrap(payloadBody, srcName)
	if opts.Vigenere {
		body := wrapped[payload.HeaderSize:]
		xored := payload.VigenereXOR(body, opts.Key)
		copy(wrapped[payload.HeaderSize:], xored)
	}

	needBits := len(wrapped) * 8
	capBits, err := Capacity(data, opts)
	if err != nil {
		return nil, err
	}
	if needBits > capBits {
		return nil, fmt.Errorf("%w: need %d bits, capacity %d bits", ErrInsufficientCapacity, needBits, capBits)
	}

	rm, err := buildMap(data)
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(data))
	copy(out, data)

	ws := &writeSink{wrapped: wrapped, totalBits: needBits}
	if err := walk(out, rm, opts, ws); err != nil {
		return nil, err
	}
	if ws.bitIdx < ws.totalBits {
		return nil, fmt.Errorf("%w: wrote %d/%d payload bits", ErrUnexpectedEarlyStop, ws.bitIdx, ws.totalBits)
	}
	return out, nil
}

// Extract replays the same walk Embed used and recovers the payload body
// and its extension tag, per spec.md §4.7's Extract contract. opts must
// match the Options Embed was called with.
func Extract(data []byte, opts Options) (body []byte, ext string, err error) {
	if err := opts.validateCommon(); err != nil {
		return nil, "", err
	}
	if err := opts.validateBitsPerFrameRequired(); err != nil {
		return nil, "", err
	}

	rm, err := buildMap(data)
	if err != nil {
		return nil, "", err
	}

	rs := &readSink{}
	if werr := walk(data, rm, opts, rs); werr != nil {
		return nil, "", werr
	}
	if !rs.headerParsed || len(rs.bits) < rs.totalBytes*8 {
		return nil, "", fmt.Errorf("%w: collected %d bits", ErrIncompletePayload, len(rs.bits))
	}

	all := bitio.BitsToBytes(rs.bits[:rs.totalBytes*8])
	bodyBytes := all[payload.HeaderSize:]
	if opts.Vigenere {
		bodyBytes = payload.VigenereXOR(bodyBytes, opts.Key)
	}
	return bodyBytes, rs.ext, nil
}
