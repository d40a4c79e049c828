package service

import (
	"log"

	"github.com/mp3lsbsteg/mp3lsbsteg/internal/payload"
)

// cryptographyService implements the CryptographyService interface.
type cryptographyService struct{}

// NewCryptographyService creates a new cryptography service instance.
func NewCryptographyService() CryptographyService {
	return &cryptographyService{}
}

// VigenereCipher performs repeating-key XOR obfuscation, delegating to the
// core's payload package. XOR is symmetric, so encryption and decryption
// are the same operation.
func (c *cryptographyService) VigenereCipher(data []byte, key string) []byte {
	if len(key) == 0 {
		log.Printf("[WARN] VigenereCipher: empty key provided, returning data unchanged")
		return data
	}
	log.Printf("[DEBUG] VigenereCipher: processing %d bytes with key length %d", len(data), len(key))
	return payload.VigenereXOR(data, key)
}
