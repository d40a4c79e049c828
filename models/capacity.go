package models

// CapacityResult matches spec.md §6's /capacity JSON response shape.
type CapacityResult struct {
	CapacityBits       int   `json:"capacity_bits"`
	CapacityBytes      int   `json:"capacity_bytes"`
	HeaderSizeBytes    int   `json:"header_size_bytes"`
	UsablePayloadBytes int   `json:"usable_payload_bytes"`
	BitsPerFrame       int   `json:"bits_per_frame"`
	Vigenere           bool  `json:"vigenere"`
	PayloadSize        int   `json:"payload_size,omitempty"`
	Fits               *bool `json:"fits,omitempty"`
}
