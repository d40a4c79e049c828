package models

// EmbedRequest carries the parameters for one embed operation, per
// spec.md §6's /embed form: carrier MP3, secret payload, and the carrier
// selector's tuning knobs.
type EmbedRequest struct {
	CoverAudio     []byte
	SecretFile     []byte
	SecretFileName string
	StegoKey       string
	BitsPerFrame   int
	Fraction       float64
	Vigenere       bool
	MaskPercentile float64
	MaxFrames      int
}

type EmbedResponse struct {
	StegoAudio   []byte
	PSNRDb       float64
	BitsPerFrame int
}
