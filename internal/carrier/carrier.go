// Package carrier selects the deterministic set of file-bit positions used
// to carry payload bits within a frame's main-data region: a masking pass
// that skips quiet frames, a margin-trimmed safe window, a keyed PRF walk
// over that window, and a key-ordered ranking/truncation pass. Grounded on
// the Python original's stego/embed.py (_compute_min_gain_threshold,
// _deterministic_positions_in_window, _pos_score, _select_positions_for_frame).
package carrier

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"

	"github.com/mp3lsbsteg/mp3lsbsteg/internal/reservoir"
)

// StartMargin and EndMargin are the symmetric inner margins (in bits)
// applied to a frame's main-data span before carrier selection, per
// spec.md §4.6 Step 2.
const (
	StartMargin = 16
	EndMargin   = 16
)

// MaskDisabled is the sentinel percentile value that disables the global
// gain mask entirely (spec.md §4.6 Step 1).
const MaskDisabled = -1.0

// DefaultMaskPercentile is the 0.60 percentile the CLI flags and HTTP
// handlers use as their default, matching the Python original's
// estimate_capacity/embed_file default. Nothing in this package or in
// internal/stego applies it automatically: a zero MaskPercentile means
// percentile 0.
const DefaultMaskPercentile = 0.60

// FrameAvgGlobalGain is the arithmetic mean of global_gain across every
// granule and channel of a frame's side-info.
func FrameAvgGlobalGain(fw reservoir.FrameWindows) float64 {
	sum := 0
	n := 0
	for _, granule := range fw.SideInfo.Granules {
		for _, gc := range granule {
			sum += gc.GlobalGain
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// MaskThreshold computes the global-gain mask threshold over a set of
// frames at the given percentile (spec.md §4.6 Step 1). A percentile below
// 0 disables the mask; callers should skip thresholding entirely rather
// than call this function in that case, but it still returns a harmless
// value for convenience.
func MaskThreshold(frames []reservoir.FrameWindows, percentile float64) float64 {
	if percentile < 0 {
		return 0
	}
	p := percentile
	if p > 1 {
		p = 1
	}
	vals := make([]float64, len(frames))
	for i, fw := range frames {
		vals[i] = FrameAvgGlobalGain(fw)
	}
	sort.Float64s(vals)
	if len(vals) == 0 {
		return 0
	}
	idx := int(p * float64(len(vals)-1))
	return vals[idx]
}

// SafeWindow computes the margin-trimmed safe bit window for a frame's
// main-data span (spec.md §4.6 Step 2).
func SafeWindow(fw reservoir.FrameWindows) (start, end int) {
	start = fw.FileMainStartBit + StartMargin
	end = fw.FileMainEndBit - EndMargin
	if end < start {
		end = start
	}
	return start, end
}

// deterministicPositions walks a keyed PRF stride inside [start, end),
// stopping after maxTake positions if maxTake > 0 (spec.md §4.6 Step 3).
// frameIndex is encoded as 4 bytes big-endian for this PRF, distinct from
// the 8-byte encoding used by positionScore.
func deterministicPositions(start, end, frameIndex int, key string, maxTake int) []int {
	if end <= start {
		return nil
	}
	h := sha256.New()
	var fi [4]byte
	binary.BigEndian.PutUint32(fi[:], uint32(frameIndex))
	h.Write(fi[:])
	if key != "" {
		h.Write([]byte(key))
	}
	seed := h.Sum(nil)

	stride := 17 + int(seed[0])%25
	if stride%2 == 0 {
		stride++
	}
	offset0 := int(seed[1]) % stride

	var positions []int
	p := start + offset0
	for p < end {
		positions = append(positions, p)
		if maxTake > 0 && len(positions) >= maxTake {
			break
		}
		p += stride
	}
	return positions
}

// positionScore computes the 64-bit key-ordered ranking score for a
// position within a frame (spec.md §4.6 Step 5). frameIndex is encoded as 8
// bytes big-endian here, distinct from deterministicPositions' 4-byte
// encoding.
func positionScore(key string, frameIndex, pos int) uint64 {
	if key == "" {
		return uint64(pos)
	}
	h := sha256.New()
	h.Write([]byte("mp3lsbsteg/pos-rank/v1"))
	h.Write([]byte(key))
	var fi, fp [8]byte
	binary.BigEndian.PutUint64(fi[:], uint64(frameIndex))
	binary.BigEndian.PutUint64(fp[:], uint64(pos))
	h.Write(fi[:])
	h.Write(fp[:])
	digest := h.Sum(nil)
	return binary.BigEndian.Uint64(digest[:8])
}

// SelectPositions produces the ranked, deduplicated, throttled list of
// carrier positions for one frame, per spec.md §4.6 Steps 2-5. key may be
// empty (capacity/ranking becomes position-order instead of key-ordered).
// fraction must be in (0,1]; bitsPerFrame <= 0 means "no per-frame cap".
func SelectPositions(fw reservoir.FrameWindows, frameIndex int, key string, fraction float64, bitsPerFrame int) []int {
	start, end := SafeWindow(fw)
	span := end - start
	if span <= 0 {
		return nil
	}

	approx := span / 20
	if approx < 1 {
		approx = 1
	}
	want := approx
	if fraction < 1.0 {
		want = int(float64(want)*fraction + 1e-9)
		if want < 1 {
			want = 1
		}
	}
	if bitsPerFrame > 0 && want > bitsPerFrame {
		want = bitsPerFrame
	}

	raw := deterministicPositions(start, end, frameIndex, key, want)

	type scored struct {
		pos   int
		score uint64
	}
	byPos := make(map[int]uint64, len(raw))
	for _, p := range raw {
		s := positionScore(key, frameIndex, p)
		if existing, ok := byPos[p]; !ok || s < existing {
			byPos[p] = s
		}
	}
	ranked := make([]scored, 0, len(byPos))
	for p, s := range byPos {
		ranked = append(ranked, scored{pos: p, score: s})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score < ranked[j].score
		}
		return ranked[i].pos < ranked[j].pos
	})
	if bitsPerFrame > 0 && len(ranked) > bitsPerFrame {
		ranked = ranked[:bitsPerFrame]
	}

	positions := make([]int, len(ranked))
	for i, s := range ranked {
		positions[i] = s.pos
	}
	return positions
}
