// Package service holds the business-logic layer between the gin handlers
// and the MP3 bit-domain engine under internal/. This file binds
// SteganographyService to internal/stego, the C7/C8 walker.
package service

import (
	"fmt"
	"log"

	"github.com/mp3lsbsteg/mp3lsbsteg/internal/stego"
	"github.com/mp3lsbsteg/mp3lsbsteg/models"
)

// stegoService implements the SteganographyService interface.
type stegoService struct {
	crypto CryptographyService
	audio  AudioService
}

// NewStegoService creates a new steganography service instance.
func NewStegoService(crypto CryptographyService, audio AudioService) SteganographyService {
	return &stegoService{crypto: crypto, audio: audio}
}

func toOptions(bitsPerFrame int, fraction float64, key string, vigenere bool, maskPercentile float64, maxFrames int) stego.Options {
	return stego.Options{
		BitsPerFrame:   bitsPerFrame,
		Fraction:       fraction,
		Key:            key,
		Vigenere:       vigenere,
		MaskPercentile: maskPercentile,
		MaxFrames:      maxFrames,
	}
}

// CalculateCapacity reports how many carrier bits the audio can hold,
// along with the derived byte-level metrics spec.md §4.8/§6 define.
func (s *stegoService) CalculateCapacity(audioData []byte, bitsPerFrame int, fraction float64, vigenere bool, maskPercentile float64, maxFrames int) (*models.CapacityResult, error) {
	opts := toOptions(bitsPerFrame, fraction, "", vigenere, maskPercentile, maxFrames)
	bits, err := stego.Capacity(audioData, opts)
	if err != nil {
		log.Printf("[ERROR] CalculateCapacity: %v", err)
		return nil, err
	}

	bytesAvail := bits / 8
	usable := bytesAvail - 16
	if usable < 0 {
		usable = 0
	}

	log.Printf("[DEBUG] CalculateCapacity: capacity_bits=%d capacity_bytes=%d usable=%d", bits, bytesAvail, usable)

	return &models.CapacityResult{
		CapacityBits:       bits,
		CapacityBytes:      bytesAvail,
		HeaderSizeBytes:    16,
		UsablePayloadBytes: usable,
		BitsPerFrame:       bitsPerFrame,
		Vigenere:           vigenere,
	}, nil
}

// EmbedMessage embeds req.SecretFile into req.CoverAudio, per spec.md §4.7's
// Embed contract.
func (s *stegoService) EmbedMessage(req *models.EmbedRequest) ([]byte, error) {
	if req.Vigenere && req.StegoKey == "" {
		return nil, models.ErrInvalidStegoKey
	}

	opts := toOptions(req.BitsPerFrame, req.Fraction, req.StegoKey, req.Vigenere, req.MaskPercentile, req.MaxFrames)

	log.Printf("[INFO] EmbedMessage: embedding %d secret bytes, bits_per_frame=%d fraction=%.2f vigenere=%v",
		len(req.SecretFile), req.BitsPerFrame, req.Fraction, req.Vigenere)

	out, err := stego.Embed(req.CoverAudio, req.SecretFile, req.SecretFileName, opts)
	if err != nil {
		log.Printf("[ERROR] EmbedMessage: %v", err)
		return nil, fmt.Errorf("embed failed: %w", err)
	}
	return out, nil
}

// ExtractMessage recovers the embedded payload from req.StegoAudio, per
// spec.md §4.7's Extract contract.
func (s *stegoService) ExtractMessage(req *models.ExtractRequest) ([]byte, string, error) {
	opts := toOptions(req.BitsPerFrame, 1.0, req.StegoKey, req.Vigenere, req.MaskPercentile, req.MaxFrames)

	log.Printf("[INFO] ExtractMessage: extracting with bits_per_frame=%d vigenere=%v", req.BitsPerFrame, req.Vigenere)

	body, ext, err := stego.Extract(req.StegoAudio, opts)
	if err != nil {
		log.Printf("[ERROR] ExtractMessage: %v", err)
		return nil, "", fmt.Errorf("extraction failed: %w", err)
	}
	return body, ext, nil
}
