package sideinfo

import (
	"testing"

	"github.com/mp3lsbsteg/mp3lsbsteg/internal/bitio"
	"github.com/mp3lsbsteg/mp3lsbsteg/internal/mpegframe"
)

// buildMPEG1StereoFrame lays out one MPEG-1 stereo, no-CRC frame: a 4-byte
// header, a 32-byte all-zero side-info block (legal, just quiet granules),
// and filler main data.
func buildMPEG1StereoFrame(size int) []byte {
	data := make([]byte, size)
	copy(data, []byte{0xFF, 0xFB, 0x90, 0x00})
	return data
}

func TestBytesTable(t *testing.T) {
	cases := []struct {
		version  mpegframe.VersionID
		channels int
		want     int
	}{
		{mpegframe.VersionMPEG1, 2, 32},
		{mpegframe.VersionMPEG1, 1, 17},
		{mpegframe.VersionMPEG2, 2, 17},
		{mpegframe.VersionMPEG2, 1, 9},
		{mpegframe.VersionMPEG25, 2, 17},
	}
	for _, c := range cases {
		if got := Bytes(c.version, c.channels); got != c.want {
			t.Errorf("Bytes(%v,%d) = %d, want %d", c.version, c.channels, got, c.want)
		}
	}
}

func TestParseAllZeroSideInfo(t *testing.T) {
	data := buildMPEG1StereoFrame(417)
	f := mpegframe.Frame{Offset: 0, Size: 417, Header: mpegframe.Header{
		VersionID: mpegframe.VersionMPEG1, HasCRC: false, Channels: 2,
	}}

	si, err := Parse(data, f)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if si.MainDataBegin != 0 {
		t.Errorf("expected main_data_begin=0, got %d", si.MainDataBegin)
	}
	if si.SideInfoBits != 32*8 {
		t.Errorf("expected 256 side-info bits, got %d", si.SideInfoBits)
	}
	if len(si.Granules) != 2 {
		t.Fatalf("expected 2 granules for MPEG-1, got %d", len(si.Granules))
	}
	for g := range si.Granules {
		if len(si.Granules[g]) != 2 {
			t.Fatalf("granule %d: expected 2 channels, got %d", g, len(si.Granules[g]))
		}
		for ch := range si.Granules[g] {
			gc := si.Granules[g][ch]
			if gc.WindowSwitching {
				t.Errorf("granule %d channel %d: expected window_switching_flag=0 on all-zero input", g, ch)
			}
			if gc.Region0Count != 0 || gc.Region1Count != 0 {
				t.Errorf("granule %d channel %d: expected zero region counts, got %d/%d", g, ch, gc.Region0Count, gc.Region1Count)
			}
		}
	}
}

func TestParseMainDataBeginNonZero(t *testing.T) {
	data := buildMPEG1StereoFrame(417)
	w := bitio.NewWriter(data)
	// main_data_begin is the first 9 bits after the 4-byte header; set it
	// to 5 (0b000000101).
	_ = w.SetBit(32+6, 1)
	_ = w.SetBit(32+8, 1)

	f := mpegframe.Frame{Offset: 0, Size: 417, Header: mpegframe.Header{
		VersionID: mpegframe.VersionMPEG1, HasCRC: false, Channels: 2,
	}}
	si, err := Parse(data, f)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if si.MainDataBegin != 5 {
		t.Errorf("expected main_data_begin=5, got %d", si.MainDataBegin)
	}
}

func TestParseWindowSwitchingBranch(t *testing.T) {
	data := buildMPEG1StereoFrame(417)
	// The first granule/channel's window_switching_flag sits after
	// main_data_begin(9) + private_bits(3) + scfsi(8, stereo MPEG-1) +
	// part2_3_length(12) + big_values(9) + global_gain(8) +
	// scalefac_compress(4) = 53 bits past the header, i.e. absolute bit
	// 32+53=85.
	w := bitio.NewWriter(data)
	_ = w.SetBit(32+53, 1)

	f := mpegframe.Frame{Offset: 0, Size: 417, Header: mpegframe.Header{
		VersionID: mpegframe.VersionMPEG1, HasCRC: false, Channels: 2,
	}}
	si, err := Parse(data, f)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !si.Granules[0][0].WindowSwitching {
		t.Error("expected window_switching_flag=1 on the first granule/channel")
	}
}

func TestParseTooShortIsError(t *testing.T) {
	data := buildMPEG1StereoFrame(10) // shorter than header+side-info
	f := mpegframe.Frame{Offset: 0, Size: 10, Header: mpegframe.Header{
		VersionID: mpegframe.VersionMPEG1, HasCRC: false, Channels: 2,
	}}
	if _, err := Parse(data, f); err == nil {
		t.Error("expected error for a frame too short to hold its side-info block")
	}
}

func TestParseMPEG2HasNoSCFSIAndOneGranule(t *testing.T) {
	data := make([]byte, 200)
	copy(data, []byte{0xFF, 0xE3, 0x90, 0x00})
	f := mpegframe.Frame{Offset: 0, Size: 200, Header: mpegframe.Header{
		VersionID: mpegframe.VersionMPEG2, HasCRC: false, Channels: 2,
	}}
	si, err := Parse(data, f)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(si.Granules) != 1 {
		t.Errorf("expected 1 granule for MPEG-2, got %d", len(si.Granules))
	}
	if si.SCFSI != ([2][4]int{}) {
		t.Error("expected zero-value SCFSI for non-MPEG-1 frames")
	}
}
