// Package mpegframe walks an MP3 bitstream frame by frame: it skips any
// leading ID3v2 tag, re-synchronizes on frame headers, and reports each
// audio frame's offset, length, and header fields. It does not decode a
// frame's side-info (that is internal/sideinfo's job); the only main-data
// bytes it reads are the first frame's, to spot a VBR header.
package mpegframe

import "bytes"

// VersionID mirrors the 2-bit MPEG version field: 3=MPEG-1, 2=MPEG-2,
// 0=MPEG-2.5, 1=reserved.
type VersionID int

const (
	VersionReserved VersionID = 1
	VersionMPEG25   VersionID = 0
	VersionMPEG2    VersionID = 2
	VersionMPEG1    VersionID = 3
)

// IsMPEG1 reports whether this version uses the MPEG-1 side-info layout
// (two granules, wider side-info, 9-bit main_data_begin).
func (v VersionID) IsMPEG1() bool {
	return v == VersionMPEG1
}

// Header is the decoded 32-bit MP3 frame header plus the derived frame
// length, per spec §3's Frame record (offset/size live on Frame, not here).
type Header struct {
	VersionID    VersionID
	HasCRC       bool
	Channels     int
	SampleRateHz int
	BitrateBps   int
	FrameLength  int
}

// Frame is one audio frame located in the blob.
type Frame struct {
	Offset int
	Size   int
	Header Header
}

// bitrateTableV1 (MPEG-1) and bitrateTableV2 (MPEG-2/2.5) are indexed
// [layer][index-1] in kbps; layer 0=Layer I, 1=Layer II, 2=Layer III, matching the (version_id, layer_id) keying used
// throughout the ISO 11172-3 header tables.
var bitrateTableV1 = [3][15]int{
	{32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448, 0}, // Layer I
	{32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384, 0},    // Layer II
	{32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0},     // Layer III
}

var bitrateTableV2 = [3][15]int{
	{32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256, 0}, // Layer I
	{8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},      // Layer II
	{8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},      // Layer III
}

// sampleRateTable[version_id][sr_idx]
var sampleRateTable = [4][3]int{
	{11025, 12000, 8000},  // MPEG-2.5 (version_id=0)
	{0, 0, 0},             // reserved (version_id=1)
	{22050, 24000, 16000}, // MPEG-2 (version_id=2)
	{44100, 48000, 32000}, // MPEG-1 (version_id=3)
}

// ParseHeader decodes a 4-byte MP3 frame header. It returns ok=false for
// anything that fails the sync word, a reserved version/layer, a bad
// bitrate/samplerate index, or a computed frame length under 5 bytes — all
// of which mean "not a frame here", not a hard error (see spec §4.2).
func ParseHeader(b []byte) (Header, bool) {
	if len(b) < 4 {
		return Header{}, false
	}
	if b[0] != 0xFF || (b[1]&0xE0) != 0xE0 {
		return Header{}, false
	}
	versionBits := (b[1] >> 3) & 0x03
	if versionBits == 0x01 {
		return Header{}, false
	}
	layerBits := (b[1] >> 1) & 0x03
	if layerBits == 0x00 {
		return Header{}, false
	}
	hasCRC := (b[1] & 0x01) == 0

	bitrateIdx := int(b[2] >> 4)
	if bitrateIdx == 0x0F || bitrateIdx == 0x00 {
		return Header{}, false
	}
	sampleRateIdx := int((b[2] >> 2) & 0x03)
	if sampleRateIdx == 0x03 {
		return Header{}, false
	}
	padding := int((b[2] >> 1) & 0x01)

	chMode := (b[3] >> 6) & 0x03
	channels := 2
	if chMode == 3 {
		channels = 1
	}

	version := VersionID(versionBits)
	sr := sampleRateTable[versionBits][sampleRateIdx]
	if sr == 0 {
		return Header{}, false
	}

	var bitrateKbps int
	layerIdx := 4 - int(layerBits) // layerBits: 3=Layer I, 2=Layer II, 1=Layer III
	if layerIdx < 1 || layerIdx > 3 {
		return Header{}, false
	}
	if version == VersionMPEG1 {
		bitrateKbps = bitrateTableV1[layerIdx-1][bitrateIdx-1]
	} else {
		bitrateKbps = bitrateTableV2[layerIdx-1][bitrateIdx-1]
	}
	if bitrateKbps == 0 {
		return Header{}, false
	}

	var frameLength int
	if layerBits == 0x03 { // Layer I
		frameLength = (12*bitrateKbps*1000/sr + padding) * 4
	} else {
		factor := 72
		if version == VersionMPEG1 {
			factor = 144
		}
		frameLength = factor*bitrateKbps*1000/sr + padding
	}
	if frameLength < 5 {
		return Header{}, false
	}

	return Header{
		VersionID:    version,
		HasCRC:       hasCRC,
		Channels:     channels,
		SampleRateHz: sr,
		BitrateBps:   bitrateKbps * 1000,
		FrameLength:  frameLength,
	}, true
}

// sideInfoBytes returns the fixed side-info length in bytes for a given
// version/channel combination (spec §3: 136/256/72/136 bits).
func sideInfoBytes(version VersionID, channels int) int {
	if version == VersionMPEG1 {
		if channels == 1 {
			return 17
		}
		return 32
	}
	if channels == 1 {
		return 9
	}
	return 17
}

// SkipID3v2Size returns the byte offset of the first audio byte, i.e. the
// length of a leading ID3v2 tag (header + synchsafe size + optional
// footer), or 0 if the blob doesn't start with one.
func SkipID3v2Size(data []byte) int {
	if len(data) < 10 || string(data[0:3]) != "ID3" {
		return 0
	}
	size := (int(data[6]&0x7F) << 21) | (int(data[7]&0x7F) << 14) | (int(data[8]&0x7F) << 7) | int(data[9]&0x7F)
	footer := 0
	if data[5]&0x10 != 0 {
		footer = 10
	}
	return 10 + size + footer
}

// looksLikeVBRHeader reports whether the first 128 bytes of a frame's main
// data contain a Xing/Info/VBRI tag, identifying it as a VBR informational
// frame rather than audio (spec §4.2).
func looksLikeVBRHeader(data []byte, f Frame) bool {
	crcBits := 0
	if f.Header.HasCRC {
		crcBits = 16
	}
	bodyStart := f.Offset + 4 + crcBits/8 + sideInfoBytes(f.Header.VersionID, f.Header.Channels)
	end := f.Offset + f.Size
	if bodyStart >= end {
		return false
	}
	if bodyStart+128 < end {
		end = bodyStart + 128
	}
	if bodyStart >= len(data) {
		return false
	}
	if end > len(data) {
		end = len(data)
	}
	window := data[bodyStart:end]
	return bytes.Contains(window, []byte("Xing")) || bytes.Contains(window, []byte("Info")) || bytes.Contains(window, []byte("VBRI"))
}

// IterateFrames walks the blob, skipping any ID3v2 tag, and returns every
// audio frame in file order. Parse failures are treated as a one-byte
// mis-sync and retried (spec §4.2, §7 MalformedStream is reserved for
// failures *after* a header is accepted, not during frame discovery). The
// leading VBR informational frame (Xing/Info/VBRI), if present, is dropped.
func IterateFrames(data []byte) []Frame {
	var frames []Frame
	i := SkipID3v2Size(data)
	n := len(data)
	for i+4 <= n {
		h, ok := ParseHeader(data[i : i+4])
		if !ok || i+h.FrameLength > n {
			i++
			continue
		}
		frames = append(frames, Frame{Offset: i, Size: h.FrameLength, Header: h})
		i += h.FrameLength
	}
	if len(frames) > 0 && looksLikeVBRHeader(data, frames[0]) {
		frames = frames[1:]
	}
	return frames
}
