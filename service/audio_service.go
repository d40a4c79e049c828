package service

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"math"

	"github.com/hajimehoshi/go-mp3"
)

// audioService implements the AudioService interface, grounded on C9: an
// external decoder turns MP3 back into PCM, and PSNR is computed on the
// decoded samples.
type audioService struct{}

// NewAudioService creates a new audio service instance.
func NewAudioService() AudioService {
	return &audioService{}
}

// decodePCM decodes an MP3 buffer into interleaved little-endian 16-bit
// PCM samples via hajimehoshi/go-mp3.
func decodePCM(data []byte) ([]byte, error) {
	dec, err := mp3.NewDecoder(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("decodePCM: %w", err)
	}
	var pcm bytes.Buffer
	if _, err := pcm.ReadFrom(dec); err != nil {
		return nil, fmt.Errorf("decodePCM: %w", err)
	}
	return pcm.Bytes(), nil
}

// CalculatePSNR decodes both the original and modified MP3 buffers to PCM
// and reports the peak signal-to-noise ratio between them, in dB. A perfect
// match reports +Inf.
func (a *audioService) CalculatePSNR(original, modified []byte) (float64, error) {
	origPCM, err := decodePCM(original)
	if err != nil {
		return 0, fmt.Errorf("CalculatePSNR: decoding original: %w", err)
	}
	modPCM, err := decodePCM(modified)
	if err != nil {
		return 0, fmt.Errorf("CalculatePSNR: decoding modified: %w", err)
	}

	n := len(origPCM)
	if len(modPCM) < n {
		n = len(modPCM)
	}
	n -= n % 2

	if n == 0 {
		log.Printf("[WARN] CalculatePSNR: no comparable PCM samples decoded")
		return 0, nil
	}

	var mse float64
	sampleCount := n / 2
	for i := 0; i < n; i += 2 {
		o := int16(binary.LittleEndian.Uint16(origPCM[i : i+2]))
		m := int16(binary.LittleEndian.Uint16(modPCM[i : i+2]))
		diff := float64(o - m)
		mse += diff * diff
	}
	mse /= float64(sampleCount)

	if mse == 0 {
		return math.Inf(1), nil
	}

	const maxValue = 32767.0
	psnr := 20 * math.Log10(maxValue/math.Sqrt(mse))
	log.Printf("[DEBUG] CalculatePSNR: %d samples compared, psnr=%.2fdB", sampleCount, psnr)
	return psnr, nil
}
