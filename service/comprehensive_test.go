package service

import (
	"bytes"
	"testing"

	"github.com/mp3lsbsteg/mp3lsbsteg/internal/mpegframe"
	"github.com/mp3lsbsteg/mp3lsbsteg/internal/stego"
	"github.com/mp3lsbsteg/mp3lsbsteg/models"
)

// buildTestMP3 synthesizes nFrames valid MPEG-1 Layer III stereo frames at
// 128kbps/44100Hz (header 0xFF 0xFB 0x90 0x00, frame length 417 bytes),
// each with an all-zero side-info block (a legal, if quiet, granule
// layout) and a pseudo-random main-data fill, so the frame walker has
// real frames and side-info to parse.
func buildTestMP3(nFrames int) []byte {
	const frameSize = 417
	const sideInfoBytes = 32 // MPEG-1 stereo
	data := make([]byte, nFrames*frameSize)
	for f := 0; f < nFrames; f++ {
		base := f * frameSize
		data[base] = 0xFF
		data[base+1] = 0xFB
		data[base+2] = 0x90
		data[base+3] = 0x00
		for i := base + 4 + sideInfoBytes; i < base+frameSize; i++ {
			data[i] = byte((i * 37) % 256)
		}
	}
	return data
}

var testMP3Data = buildTestMP3(50)
var testSecretData = []byte("This is a secret message for testing steganography methods!")

func TestCapacityCalculation(t *testing.T) {
	stegoSvc := NewStegoService(NewCryptographyService(), NewAudioService())

	capacity, err := stegoSvc.CalculateCapacity(testMP3Data, 4, 1.0, false, -1, 0)
	if err != nil {
		t.Fatalf("CalculateCapacity failed: %v", err)
	}
	if capacity.CapacityBits <= 0 {
		t.Error("capacity should be positive for a synthetic multi-frame carrier")
	}
	if capacity.UsablePayloadBytes != max0(capacity.CapacityBytes-16) {
		t.Errorf("usable payload bytes should be capacity_bytes-16, got %d vs %d", capacity.UsablePayloadBytes, capacity.CapacityBytes-16)
	}
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func TestEmbedExtractRoundTrip(t *testing.T) {
	stegoSvc := NewStegoService(NewCryptographyService(), NewAudioService())

	req := &models.EmbedRequest{
		CoverAudio:     testMP3Data,
		SecretFile:     testSecretData,
		SecretFileName: "secret.txt",
		StegoKey:       "test-key",
		BitsPerFrame:   4,
		Fraction:       1.0,
		Vigenere:       false,
		MaskPercentile: -1,
	}

	stegoAudio, err := stegoSvc.EmbedMessage(req)
	if err != nil {
		t.Fatalf("EmbedMessage failed: %v", err)
	}

	extractReq := &models.ExtractRequest{
		StegoAudio:     stegoAudio,
		BitsPerFrame:   4,
		StegoKey:       "test-key",
		Vigenere:       false,
		MaskPercentile: -1,
	}

	recovered, ext, err := stegoSvc.ExtractMessage(extractReq)
	if err != nil {
		t.Fatalf("ExtractMessage failed: %v", err)
	}
	if !bytes.Equal(recovered, testSecretData) {
		t.Errorf("recovered payload does not match: got %q want %q", recovered, testSecretData)
	}
	if ext != "txt" {
		t.Errorf("expected extension 'txt', got %q", ext)
	}
}

func TestEmbedExtractWithVigenere(t *testing.T) {
	stegoSvc := NewStegoService(NewCryptographyService(), NewAudioService())

	req := &models.EmbedRequest{
		CoverAudio:     testMP3Data,
		SecretFile:     []byte("hello"),
		SecretFileName: "note.txt",
		StegoKey:       "k",
		BitsPerFrame:   4,
		Fraction:       1.0,
		Vigenere:       true,
		MaskPercentile: -1,
	}
	stegoAudio, err := stegoSvc.EmbedMessage(req)
	if err != nil {
		t.Fatalf("EmbedMessage failed: %v", err)
	}

	extractReq := &models.ExtractRequest{
		StegoAudio:     stegoAudio,
		BitsPerFrame:   4,
		StegoKey:       "k",
		Vigenere:       true,
		MaskPercentile: -1,
	}
	recovered, _, err := stegoSvc.ExtractMessage(extractReq)
	if err != nil {
		t.Fatalf("ExtractMessage failed: %v", err)
	}
	if string(recovered) != "hello" {
		t.Errorf("expected 'hello', got %q", recovered)
	}
}

func TestEmbedWrongKeyFailsOrDiverges(t *testing.T) {
	stegoSvc := NewStegoService(NewCryptographyService(), NewAudioService())

	req := &models.EmbedRequest{
		CoverAudio:     testMP3Data,
		SecretFile:     testSecretData,
		SecretFileName: "secret.txt",
		StegoKey:       "A",
		BitsPerFrame:   4,
		Fraction:       1.0,
		MaskPercentile: -1,
	}
	stegoAudio, err := stegoSvc.EmbedMessage(req)
	if err != nil {
		t.Fatalf("EmbedMessage failed: %v", err)
	}

	extractReq := &models.ExtractRequest{
		StegoAudio:     stegoAudio,
		BitsPerFrame:   4,
		StegoKey:       "B",
		MaskPercentile: -1,
	}
	recovered, _, err := stegoSvc.ExtractMessage(extractReq)
	if err == nil && bytes.Equal(recovered, testSecretData) {
		t.Error("extraction with the wrong key should not silently succeed")
	}
}

func TestEmbedInsufficientCapacity(t *testing.T) {
	stegoSvc := NewStegoService(NewCryptographyService(), NewAudioService())

	tiny := buildTestMP3(1)
	hugeSecret := make([]byte, 1<<20)

	req := &models.EmbedRequest{
		CoverAudio:     tiny,
		SecretFile:     hugeSecret,
		SecretFileName: "big.bin",
		BitsPerFrame:   4,
		Fraction:       1.0,
		MaskPercentile: -1,
	}
	if _, err := stegoSvc.EmbedMessage(req); err == nil {
		t.Error("expected insufficient capacity error for an oversized payload")
	}
}

func TestFramePreservation(t *testing.T) {
	stegoSvc := NewStegoService(NewCryptographyService(), NewAudioService())

	req := &models.EmbedRequest{
		CoverAudio:     testMP3Data,
		SecretFile:     testSecretData,
		SecretFileName: "secret.txt",
		StegoKey:       "key",
		BitsPerFrame:   4,
		Fraction:       1.0,
		MaskPercentile: -1,
	}
	stegoAudio, err := stegoSvc.EmbedMessage(req)
	if err != nil {
		t.Fatalf("EmbedMessage failed: %v", err)
	}

	before := mpegframe.IterateFrames(testMP3Data)
	after := mpegframe.IterateFrames(stegoAudio)
	if len(before) != len(after) {
		t.Fatalf("frame count changed: before=%d after=%d", len(before), len(after))
	}
	for i := range before {
		if before[i].Offset != after[i].Offset || before[i].Size != after[i].Size {
			t.Errorf("frame %d geometry changed: before=%+v after=%+v", i, before[i], after[i])
		}
	}
}

func TestEmbedDeterminism(t *testing.T) {
	req := &models.EmbedRequest{
		CoverAudio:     testMP3Data,
		SecretFile:     testSecretData,
		SecretFileName: "secret.txt",
		StegoKey:       "det-key",
		BitsPerFrame:   4,
		Fraction:       1.0,
		MaskPercentile: -1,
	}
	opts := stego.Options{
		BitsPerFrame:   req.BitsPerFrame,
		Fraction:       req.Fraction,
		Key:            req.StegoKey,
		MaskPercentile: req.MaskPercentile,
	}

	out1, err := stego.Embed(testMP3Data, req.SecretFile, req.SecretFileName, opts)
	if err != nil {
		t.Fatalf("first embed failed: %v", err)
	}
	out2, err := stego.Embed(testMP3Data, req.SecretFile, req.SecretFileName, opts)
	if err != nil {
		t.Fatalf("second embed failed: %v", err)
	}
	if !bytes.Equal(out1, out2) {
		t.Error("embed is not deterministic across runs with identical inputs")
	}
}

func TestEmptyPayloadRoundTrip(t *testing.T) {
	stegoSvc := NewStegoService(NewCryptographyService(), NewAudioService())

	req := &models.EmbedRequest{
		CoverAudio:     testMP3Data,
		SecretFile:     []byte{},
		SecretFileName: "empty.bin",
		BitsPerFrame:   4,
		Fraction:       1.0,
		MaskPercentile: -1,
	}
	stegoAudio, err := stegoSvc.EmbedMessage(req)
	if err != nil {
		t.Fatalf("EmbedMessage failed on empty payload: %v", err)
	}

	recovered, ext, err := stegoSvc.ExtractMessage(&models.ExtractRequest{
		StegoAudio:     stegoAudio,
		BitsPerFrame:   4,
		MaskPercentile: -1,
	})
	if err != nil {
		t.Fatalf("ExtractMessage failed on empty payload: %v", err)
	}
	if len(recovered) != 0 {
		t.Errorf("expected zero-length body, got %d bytes", len(recovered))
	}
	if ext != "bin" {
		t.Errorf("expected extension 'bin', got %q", ext)
	}
}
