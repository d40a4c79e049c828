package service

import (
	"github.com/mp3lsbsteg/mp3lsbsteg/models"
)

// SteganographyService defines the interface for MP3 bit-domain
// steganography operations.
type SteganographyService interface {
	// CalculateCapacity reports how many carrier bits the audio can hold
	// under the given knobs.
	CalculateCapacity(audioData []byte, bitsPerFrame int, fraction float64, vigenere bool, maskPercentile float64, maxFrames int) (*models.CapacityResult, error)

	// EmbedMessage embeds req.SecretFile (with req.SecretFileName used for
	// the extension tag) into req.CoverAudio and returns the modified bytes.
	EmbedMessage(req *models.EmbedRequest) ([]byte, error)

	// ExtractMessage recovers the embedded payload and its extension tag
	// from stego audio.
	ExtractMessage(req *models.ExtractRequest) ([]byte, string, error)
}

// CryptographyService defines the interface for cryptographic operations.
type CryptographyService interface {
	// VigenereCipher performs repeating-key XOR; encrypt and decrypt are
	// the same operation.
	VigenereCipher(data []byte, key string) []byte
}

// AudioService defines the interface for audio-quality operations.
type AudioService interface {
	// CalculatePSNR decodes both buffers to PCM and reports the peak
	// signal-to-noise ratio between them, in dB.
	CalculatePSNR(original, modified []byte) (float64, error)
}
