package models

type ExtractRequest struct {
	StegoAudio     []byte  `json:"stego_audio"`
	BitsPerFrame   int     `json:"bits_per_frame"`
	StegoKey       string  `json:"stego_key"`
	Vigenere       bool    `json:"vigenere"`
	MaskPercentile float64 `json:"mask_percentile"`
	MaxFrames      int     `json:"max_frames"`
}

type ExtractResponse struct {
	SecretData   []byte `json:"secret_data"`
	Filename     string `json:"filename"`
	Extension    string `json:"extension"`
	FileSize     int    `json:"file_size"`
	ExtractionOK bool   `json:"extraction_ok"`
}
