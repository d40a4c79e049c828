package mpegframe

import "testing"

// mpeg1Layer3Header is the canonical 0xFF 0xFB 0x90 0x00 header:
// version=11(MPEG-1), layer=01(Layer III), no CRC, bitrate idx=1001(128kbps),
// samplerate idx=00(44100Hz), no padding, stereo.
var mpeg1Layer3Header = []byte{0xFF, 0xFB, 0x90, 0x00}

func TestParseHeaderMPEG1Layer3(t *testing.T) {
	h, ok := ParseHeader(mpeg1Layer3Header)
	if !ok {
		t.Fatal("expected header to parse")
	}
	if h.VersionID != VersionMPEG1 {
		t.Errorf("expected MPEG1, got %v", h.VersionID)
	}
	if h.HasCRC {
		t.Error("expected no CRC")
	}
	if h.Channels != 2 {
		t.Errorf("expected stereo, got %d channels", h.Channels)
	}
	if h.SampleRateHz != 44100 {
		t.Errorf("expected 44100Hz, got %d", h.SampleRateHz)
	}
	if h.BitrateBps != 128000 {
		t.Errorf("expected 128000bps, got %d", h.BitrateBps)
	}
	if h.FrameLength != 417 {
		t.Errorf("expected frame length 417, got %d", h.FrameLength)
	}
}

func TestParseHeaderRejectsBadSync(t *testing.T) {
	b := []byte{0xFF, 0x00, 0x90, 0x00}
	if _, ok := ParseHeader(b); ok {
		t.Error("expected rejection of a non-sync second byte")
	}
}

func TestParseHeaderRejectsReservedVersion(t *testing.T) {
	b := []byte{0xFF, 0xE8, 0x90, 0x00} // version bits = 01 (reserved)
	if _, ok := ParseHeader(b); ok {
		t.Error("expected rejection of reserved version")
	}
}

func TestParseHeaderRejectsBadBitrateIndex(t *testing.T) {
	b := []byte{0xFF, 0xFB, 0xF0, 0x00} // bitrate idx = 1111 (bad)
	if _, ok := ParseHeader(b); ok {
		t.Error("expected rejection of bitrate index 0xF")
	}
}

func TestParseHeaderTooShort(t *testing.T) {
	if _, ok := ParseHeader([]byte{0xFF, 0xFB, 0x90}); ok {
		t.Error("expected rejection of a truncated header")
	}
}

func TestSkipID3v2SizeNoTag(t *testing.T) {
	if off := SkipID3v2Size(mpeg1Layer3Header); off != 0 {
		t.Errorf("expected 0, got %d", off)
	}
}

func TestSkipID3v2SizeWithTagNoFooter(t *testing.T) {
	tag := make([]byte, 10)
	copy(tag, []byte("ID3"))
	tag[3], tag[4] = 4, 0
	tag[5] = 0x00 // no footer flag
	// synchsafe size = 100 bytes
	tag[6], tag[7], tag[8], tag[9] = 0, 0, 0, 100
	if off := SkipID3v2Size(tag); off != 110 {
		t.Errorf("expected 110, got %d", off)
	}
}

func TestSkipID3v2SizeWithFooter(t *testing.T) {
	tag := make([]byte, 10)
	copy(tag, []byte("ID3"))
	tag[5] = 0x10 // footer flag set
	tag[6], tag[7], tag[8], tag[9] = 0, 0, 0, 50
	if off := SkipID3v2Size(tag); off != 70 { // 10 header + 50 size + 10 footer
		t.Errorf("expected 70, got %d", off)
	}
}

func buildFrames(n int) []byte {
	const frameSize = 417
	data := make([]byte, n*frameSize)
	for i := 0; i < n; i++ {
		copy(data[i*frameSize:], mpeg1Layer3Header)
	}
	return data
}

func TestIterateFramesCountsAndOffsets(t *testing.T) {
	data := buildFrames(3)
	frames := IterateFrames(data)
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	for i, f := range frames {
		if f.Offset != i*417 {
			t.Errorf("frame %d: expected offset %d, got %d", i, i*417, f.Offset)
		}
		if f.Size != 417 {
			t.Errorf("frame %d: expected size 417, got %d", i, f.Size)
		}
	}
}

func TestIterateFramesSkipsID3v2(t *testing.T) {
	tag := make([]byte, 10)
	copy(tag, []byte("ID3"))
	tag[6], tag[7], tag[8], tag[9] = 0, 0, 0, 20
	data := append(tag, make([]byte, 20)...)
	data = append(data, buildFrames(2)...)

	frames := IterateFrames(data)
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames after ID3v2 skip, got %d", len(frames))
	}
	if frames[0].Offset != 30 {
		t.Errorf("expected first frame at offset 30, got %d", frames[0].Offset)
	}
}

func TestIterateFramesDropsLeadingVBRHeader(t *testing.T) {
	data := buildFrames(3)
	// Stamp "Xing" into the main-data area of the first frame, right past
	// its (stereo, no-CRC) 32-byte side-info block.
	bodyStart := 0 + 4 + 32
	copy(data[bodyStart:], []byte("Xing"))

	frames := IterateFrames(data)
	if len(frames) != 2 {
		t.Fatalf("expected the leading VBR frame dropped, got %d frames", len(frames))
	}
	if frames[0].Offset != 417 {
		t.Errorf("expected first remaining frame at offset 417, got %d", frames[0].Offset)
	}
}

func TestIterateFramesEmptyOnGarbage(t *testing.T) {
	data := []byte("not an mp3 file at all, just text padding out to more bytes")
	frames := IterateFrames(data)
	if len(frames) != 0 {
		t.Errorf("expected zero frames on non-MP3 data, got %d", len(frames))
	}
}
