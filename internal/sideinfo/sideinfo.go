// Package sideinfo decodes the Layer III side-information block that
// immediately follows an MP3 frame header (and optional CRC), exposing the
// per-granule/per-channel fields spec.md §3 and §4.3 define. It never reads
// main-data itself; internal/reservoir resolves where that data lives.
package sideinfo

import (
	"fmt"

	"github.com/mp3lsbsteg/mp3lsbsteg/internal/bitio"
	"github.com/mp3lsbsteg/mp3lsbsteg/internal/mpegframe"
)

// GranuleChannel is one granule/channel pair's decoded side-info fields, per
// spec.md §3.
type GranuleChannel struct {
	Part2_3Length     int
	BigValues         int
	GlobalGain        int
	ScalefacCompress  int
	WindowSwitching   bool
	BlockType         int
	MixedBlockFlag    bool
	TableSelect       [3]int
	SubblockGain      [3]int
	Region0Count      int
	Region1Count      int
	Preflag           int
	ScalefacScale     int
	Count1TableSelect int
}

// FrameSideInfo is the fully decoded side-info block for one frame.
type FrameSideInfo struct {
	MainDataBegin int
	SCFSI         [2][4]int          // [channel][band], MPEG-1 only; zero value elsewhere
	Granules      [][]GranuleChannel // [granule][channel]
	SideInfoBits  int
}

// Bytes returns the fixed side-info length in bytes for a version/channel
// combination (spec.md §3: 136/256 bits MPEG-1 mono/stereo, 72/136 bits
// MPEG-2/2.5 mono/stereo).
func Bytes(version mpegframe.VersionID, channels int) int {
	if version.IsMPEG1() {
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

// Parse decodes the side-info block of the frame at f within data, per
// spec.md §4.3's exact bit-field sequence. It returns a MalformedStream-style
// error if the block would run past the end of data.
func Parse(data []byte, f mpegframe.Frame) (FrameSideInfo, error) {
	crcBytes := 0
	if f.Header.HasCRC {
		crcBytes = 2
	}
	start := f.Offset + 4 + crcBytes
	siBytes := Bytes(f.Header.VersionID, f.Header.Channels)
	if start+siBytes > len(data) {
		return FrameSideInfo{}, fmt.Errorf("sideinfo: frame at offset %d: side-info block runs past end of stream", f.Offset)
	}

	r := bitio.NewReader(data)
	r.Seek(start * 8)

	mpeg1 := f.Header.VersionID.IsMPEG1()
	mdbBits := 9
	if !mpeg1 {
		mdbBits = 8
	}
	mdb, err := r.ReadBits(mdbBits)
	if err != nil {
		return FrameSideInfo{}, fmt.Errorf("sideinfo: frame at offset %d: %w", f.Offset, err)
	}

	// private_bits: 5 (MPEG-1 mono), 3 (MPEG-1 stereo), 1 (MPEG-2 mono), 2
	// (MPEG-2 stereo).
	privateBits := 0
	switch {
	case mpeg1 && f.Header.Channels == 1:
		privateBits = 5
	case mpeg1 && f.Header.Channels == 2:
		privateBits = 3
	case !mpeg1 && f.Header.Channels == 1:
		privateBits = 1
	default:
		privateBits = 2
	}
	if _, err := r.ReadBits(privateBits); err != nil {
		return FrameSideInfo{}, fmt.Errorf("sideinfo: frame at offset %d: %w", f.Offset, err)
	}

	var scfsi [2][4]int
	if mpeg1 {
		for ch := 0; ch < f.Header.Channels; ch++ {
			for band := 0; band < 4; band++ {
				v, err := r.ReadBits(1)
				if err != nil {
					return FrameSideInfo{}, fmt.Errorf("sideinfo: frame at offset %d: %w", f.Offset, err)
				}
				scfsi[ch][band] = v
			}
		}
	}

	numGranules := 1
	if mpeg1 {
		numGranules = 2
	}

	granules := make([][]GranuleChannel, numGranules)
	for g := 0; g < numGranules; g++ {
		granules[g] = make([]GranuleChannel, f.Header.Channels)
		for ch := 0; ch < f.Header.Channels; ch++ {
			gc, err := readGranuleChannel(r, mpeg1)
			if err != nil {
				return FrameSideInfo{}, fmt.Errorf("sideinfo: frame at offset %d granule %d channel %d: %w", f.Offset, g, ch, err)
			}
			granules[g][ch] = gc
		}
	}

	return FrameSideInfo{
		MainDataBegin: mdb,
		SCFSI:         scfsi,
		Granules:      granules,
		SideInfoBits:  siBytes * 8,
	}, nil
}

func readGranuleChannel(r *bitio.Reader, mpeg1 bool) (GranuleChannel, error) {
	var gc GranuleChannel

	part23, err := r.ReadBits(12)
	if err != nil {
		return gc, err
	}
	gc.Part2_3Length = part23

	bigValues, err := r.ReadBits(9)
	if err != nil {
		return gc, err
	}
	gc.BigValues = bigValues

	globalGain, err := r.ReadBits(8)
	if err != nil {
		return gc, err
	}
	gc.GlobalGain = globalGain

	scalefacCompressBits := 4
	if !mpeg1 {
		scalefacCompressBits = 9
	}
	scalefacCompress, err := r.ReadBits(scalefacCompressBits)
	if err != nil {
		return gc, err
	}
	gc.ScalefacCompress = scalefacCompress

	windowSwitching, err := r.ReadBits(1)
	if err != nil {
		return gc, err
	}
	gc.WindowSwitching = windowSwitching != 0

	if gc.WindowSwitching {
		blockType, err := r.ReadBits(2)
		if err != nil {
			return gc, err
		}
		gc.BlockType = blockType

		mixedBlockFlag, err := r.ReadBits(1)
		if err != nil {
			return gc, err
		}
		gc.MixedBlockFlag = mixedBlockFlag != 0

		for i := 0; i < 2; i++ {
			ts, err := r.ReadBits(5)
			if err != nil {
				return gc, err
			}
			gc.TableSelect[i] = ts
		}
		for i := 0; i < 3; i++ {
			sg, err := r.ReadBits(3)
			if err != nil {
				return gc, err
			}
			gc.SubblockGain[i] = sg
		}
		gc.Region0Count = 0
		gc.Region1Count = 0
	} else {
		for i := 0; i < 3; i++ {
			ts, err := r.ReadBits(5)
			if err != nil {
				return gc, err
			}
			gc.TableSelect[i] = ts
		}
		region0, err := r.ReadBits(4)
		if err != nil {
			return gc, err
		}
		gc.Region0Count = region0

		region1, err := r.ReadBits(3)
		if err != nil {
			return gc, err
		}
		gc.Region1Count = region1
	}

	if mpeg1 {
		preflag, err := r.ReadBits(1)
		if err != nil {
			return gc, err
		}
		gc.Preflag = preflag
	}

	scalefacScale, err := r.ReadBits(1)
	if err != nil {
		return gc, err
	}
	gc.ScalefacScale = scalefacScale

	count1table, err := r.ReadBits(1)
	if err != nil {
		return gc, err
	}
	gc.Count1TableSelect = count1table

	return gc, nil
}

// ScalefacSlen is the standard ISO 11172-3 Table B.8 mapping from
// scalefac_compress (MPEG-1 only) to the bit widths used to encode the two
// scalefactor bands, slen1 and slen2.
var ScalefacSlen = [16][2]int{
	{0, 0}, {0, 1}, {0, 2}, {0, 3},
	{3, 0}, {1, 1}, {1, 2}, {1, 3},
	{2, 1}, {2, 2}, {2, 3}, {3, 1},
	{3, 2}, {3, 3}, {4, 2}, {4, 3},
}
