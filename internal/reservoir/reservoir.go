// Package reservoir builds the bit-reservoir map that ties each frame's
// main-data window to its place in the logical reservoir stream, and
// resolves main_data_begin back-references to absolute file-bit positions.
// Grounded on the Python original's iter_frames_with_windows.
package reservoir

import (
	"fmt"
	"sort"

	"github.com/mp3lsbsteg/mp3lsbsteg/internal/mpegframe"
	"github.com/mp3lsbsteg/mp3lsbsteg/internal/sideinfo"
)

// Window is one granule/channel's slice of the logical reservoir, expressed
// as reservoir-relative bit offsets; Map.ResolveToFileBit maps such an
// offset to its file-absolute bit.
type Window struct {
	Granule, Channel int
	ReservoirStart   int
	ReservoirEnd     int
}

// FrameWindows is one frame's reservoir bookkeeping: its side-info, the
// absolute bit range of its main-data in the file, and the per-granule
// windows carved out of the logical reservoir stream.
type FrameWindows struct {
	Frame             mpegframe.Frame
	SideInfo          sideinfo.FrameSideInfo
	FileMainStartBit  int
	FileMainEndBit    int
	AvailableMainBits int
	Windows           []Window
}

// Map is the full reservoir map for a stream: every frame's windows plus a
// sorted segment list used to resolve a reservoir-relative bit to its
// absolute file-bit position.
type Map struct {
	Frames   []FrameWindows
	segments []segment
}

type segment struct {
	reservoirStart int
	reservoirEnd   int
	fileStart      int
}

// Build parses side-info for every frame and lays out the bit reservoir,
// exactly mirroring the original's sequential reservoir_end accumulation:
// each frame's available_main_bits is appended to the logical stream, and
// main_data_begin resolves backwards into the bits preceding it.
func Build(data []byte, frames []mpegframe.Frame) (*Map, error) {
	m := &Map{}
	reservoirEnd := 0

	for _, f := range frames {
		si, err := sideinfo.Parse(data, f)
		if err != nil {
			return nil, fmt.Errorf("reservoir: %w", err)
		}

		crcBits := 0
		if f.Header.HasCRC {
			crcBits = 16
		}
		fileMainStartBit := (f.Offset+4)*8 + crcBits + si.SideInfoBits
		fileMainEndBit := (f.Offset + f.Size) * 8
		availableMainBits := fileMainEndBit - fileMainStartBit

		readPtr := reservoirEnd - si.MainDataBegin*8

		var windows []Window
		cursor := readPtr
		for g := range si.Granules {
			for ch := range si.Granules[g] {
				length := si.Granules[g][ch].Part2_3Length
				w := Window{
					Granule:        g,
					Channel:        ch,
					ReservoirStart: cursor,
					ReservoirEnd:   cursor + length,
				}
				windows = append(windows, w)
				cursor += length
			}
		}

		m.Frames = append(m.Frames, FrameWindows{
			Frame:             f,
			SideInfo:          si,
			FileMainStartBit:  fileMainStartBit,
			FileMainEndBit:    fileMainEndBit,
			AvailableMainBits: availableMainBits,
			Windows:           windows,
		})

		m.segments = append(m.segments, segment{
			reservoirStart: reservoirEnd,
			reservoirEnd:   reservoirEnd + availableMainBits,
			fileStart:      fileMainStartBit,
		})

		reservoirEnd += availableMainBits
	}

	sort.Slice(m.segments, func(i, j int) bool {
		return m.segments[i].reservoirStart < m.segments[j].reservoirStart
	})

	return m, nil
}

// ResolveToFileBit maps a reservoir-relative bit index to its absolute
// file-bit position via binary search over the segment list, returning an
// error if the reservoir bit falls outside every frame's window (a
// malformed main_data_begin reference).
func (m *Map) ResolveToFileBit(reservoirBit int) (int, error) {
	idx := sort.Search(len(m.segments), func(i int) bool {
		return m.segments[i].reservoirEnd > reservoirBit
	})
	if idx >= len(m.segments) || reservoirBit < m.segments[idx].reservoirStart {
		return 0, fmt.Errorf("reservoir: bit %d has no backing segment", reservoirBit)
	}
	seg := m.segments[idx]
	return seg.fileStart + (reservoirBit - seg.reservoirStart), nil
}
