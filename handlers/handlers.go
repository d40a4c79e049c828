package handlers

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mp3lsbsteg/mp3lsbsteg/models"
	"github.com/mp3lsbsteg/mp3lsbsteg/service"
)

// Handlers struct holds service dependencies.
type Handlers struct {
	steganographyService service.SteganographyService
	cryptographyService  service.CryptographyService
	audioService         service.AudioService
}

// NewHandlers creates a new handlers instance with service dependencies.
func NewHandlers(
	stegoService service.SteganographyService,
	cryptoService service.CryptographyService,
	audioService service.AudioService,
) *Handlers {
	return &Handlers{
		steganographyService: stegoService,
		cryptographyService:  cryptoService,
		audioService:         audioService,
	}
}

// Hardcoded HTTP-surface tuning per spec.md §6: library/CLI callers may
// vary these, but the HTTP endpoints do not expose them.
const (
	httpFraction       = 1.0
	httpMaskPercentile = 0.60
	httpMaxFrames      = 0 // unbounded
)

const maxUploadBytes = 100 * 1024 * 1024

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    time.Time         `json:"timestamp"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies"`
}

func requestID(c *gin.Context) string {
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return fmt.Sprintf("req_%d", time.Now().UnixNano())
}

// HealthHandler handles the health check endpoint.
//
//	@Summary		Health Check
//	@Description	Returns the health status of the API service
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	HealthResponse	"Service is healthy"
//	@Router			/health [get]
func (h *Handlers) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Dependencies: map[string]string{
			"engine": "healthy",
		},
	})
}

// CalculateCapacityHandler reports how many bytes can be hidden in a
// carrier MP3 under the given knobs.
//
//	@Summary		Calculate embedding capacity
//	@Description	Calculates carrier bit capacity for an uploaded MP3, per the main-data carrier selector.
//	@Tags			Steganography
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			carrier			formData	file	true	"Carrier MP3 file"
//	@Param			bits_per_frame	formData	int		false	"Per-frame carrier bit cap (1-8), default 4"
//	@Param			payload_size	formData	int		false	"Optional payload size in bytes, to report whether it fits"
//	@Param			vigenere		formData	bool	false	"Whether the payload will be Vigenère-XORed"
//	@Success		200	{object}	models.CapacityResult
//	@Failure		400	{object}	models.ErrorResponse
//	@Failure		500	{object}	models.ErrorResponse
//	@Router			/capacity [post]
func (h *Handlers) CalculateCapacityHandler(c *gin.Context) {
	reqID := requestID(c)
	log.Printf("[INFO] [%s] CalculateCapacityHandler: request from %s", reqID, c.ClientIP())

	carrierHeader, err := c.FormFile("carrier")
	if err != nil {
		log.Printf("[ERROR] [%s] CalculateCapacityHandler: no carrier file: %v", reqID, err)
		sendError(c, http.StatusBadRequest, "MISSING_FILE", "carrier file not provided")
		return
	}
	if carrierHeader.Size > maxUploadBytes {
		sendError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "carrier exceeds maximum allowed size")
		return
	}

	carrierData, err := readFormFile(carrierHeader)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "PROCESSING_ERROR", "failed to read carrier file")
		return
	}

	bitsPerFrame, err := parseBitsPerFrame(c.PostForm("bits_per_frame"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_BITS_PER_FRAME", err.Error())
		return
	}
	vigenere := c.PostForm("vigenere") == "true"

	capacity, err := h.steganographyService.CalculateCapacity(carrierData, bitsPerFrame, httpFraction, vigenere, httpMaskPercentile, httpMaxFrames)
	if err != nil {
		log.Printf("[ERROR] [%s] CalculateCapacityHandler: %v", reqID, err)
		sendError(c, http.StatusInternalServerError, "PROCESSING_ERROR", "failed to calculate capacity")
		return
	}

	if sizeStr := c.PostForm("payload_size"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			sendError(c, http.StatusBadRequest, "INVALID_PAYLOAD_SIZE", "payload_size must be an integer")
			return
		}
		capacity.PayloadSize = size
		fits := size+16 <= capacity.CapacityBytes
		capacity.Fits = &fits
	}

	c.JSON(http.StatusOK, capacity)
}

// EmbedHandler embeds a secret file into the MP3 bitstream.
//
//	@Summary		Embed a payload into an MP3's bitstream
//	@Description	Hides a payload file inside selected Huffman-region bits of the carrier MP3.
//	@Tags			Steganography
//	@Accept			multipart/form-data
//	@Produce		audio/mpeg
//	@Param			carrier			formData	file	true	"Carrier MP3 file"
//	@Param			payload			formData	file	true	"Payload file to embed"
//	@Param			bits_per_frame	formData	int		false	"Per-frame carrier bit cap (1-8), default 4"
//	@Param			key				formData	string	false	"Stego key seeding the carrier selector"
//	@Param			vigenere		formData	bool	false	"XOR the payload body with key"
//	@Success		200	{file}	binary	"Stego MP3 with embedded payload"
//	@Header			200	{number}	X-PSNR-dB			"PCM-decoded PSNR between carrier and stego audio"
//	@Header			200	{int}		X-Bits-Per-Frame	"Per-frame carrier cap used"
//	@Failure		400	{object}	models.ErrorResponse
//	@Failure		500	{object}	models.ErrorResponse
//	@Router			/embed [post]
func (h *Handlers) EmbedHandler(c *gin.Context) {
	reqID := requestID(c)
	log.Printf("[INFO] [%s] EmbedHandler: request from %s", reqID, c.ClientIP())

	carrierHeader, err := c.FormFile("carrier")
	if err != nil {
		sendError(c, http.StatusBadRequest, "MISSING_FILE", "carrier file not provided")
		return
	}
	payloadHeader, err := c.FormFile("payload")
	if err != nil {
		sendError(c, http.StatusBadRequest, "MISSING_FILE", "payload file not provided")
		return
	}
	if carrierHeader.Size > maxUploadBytes {
		sendError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "carrier exceeds maximum allowed size")
		return
	}

	carrierData, err := readFormFile(carrierHeader)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "PROCESSING_ERROR", "failed to read carrier file")
		return
	}
	payloadData, err := readFormFile(payloadHeader)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "PROCESSING_ERROR", "failed to read payload file")
		return
	}

	bitsPerFrame, err := parseBitsPerFrame(c.PostForm("bits_per_frame"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_BITS_PER_FRAME", err.Error())
		return
	}
	key := c.PostForm("key")
	vigenere := c.PostForm("vigenere") == "true"

	req := &models.EmbedRequest{
		CoverAudio:     carrierData,
		SecretFile:     payloadData,
		SecretFileName: payloadHeader.Filename,
		StegoKey:       key,
		BitsPerFrame:   bitsPerFrame,
		Fraction:       httpFraction,
		Vigenere:       vigenere,
		MaskPercentile: httpMaskPercentile,
		MaxFrames:      httpMaxFrames,
	}

	stegoAudio, err := h.steganographyService.EmbedMessage(req)
	if err != nil {
		log.Printf("[ERROR] [%s] EmbedHandler: %v", reqID, err)
		sendError(c, http.StatusInternalServerError, "EMBED_ERROR", err.Error())
		return
	}

	psnr, err := h.audioService.CalculatePSNR(carrierData, stegoAudio)
	if err != nil {
		log.Printf("[WARN] [%s] EmbedHandler: PSNR computation failed: %v", reqID, err)
	}

	c.Header("Content-Disposition", "attachment; filename=\"stego.mp3\"")
	c.Header("X-PSNR-dB", fmt.Sprintf("%.2f", psnr))
	c.Header("X-Bits-Per-Frame", strconv.Itoa(bitsPerFrame))
	c.Data(http.StatusOK, "audio/mpeg", stegoAudio)
}

// ExtractHandler recovers a previously embedded payload.
//
//	@Summary		Extract a payload from a stego MP3
//	@Description	Recovers the payload embedded by /embed, replaying the same deterministic carrier walk.
//	@Tags			Steganography
//	@Accept			multipart/form-data
//	@Produce		application/octet-stream
//	@Param			stego			formData	file	true	"Stego MP3 file"
//	@Param			bits_per_frame	formData	int		false	"Per-frame carrier bit cap (1-8), must match the value used for /embed"
//	@Param			key				formData	string	false	"Stego key used for /embed"
//	@Param			vigenere		formData	bool	false	"Whether /embed XORed the payload body"
//	@Success		200	{file}	binary	"Recovered payload file"
//	@Header			200	{string}	X-Ext	"Recovered file extension"
//	@Failure		400	{object}	models.ErrorResponse
//	@Failure		500	{object}	models.ErrorResponse
//	@Router			/extract [post]
func (h *Handlers) ExtractHandler(c *gin.Context) {
	reqID := requestID(c)
	log.Printf("[INFO] [%s] ExtractHandler: request from %s", reqID, c.ClientIP())

	stegoHeader, err := c.FormFile("stego")
	if err != nil {
		sendError(c, http.StatusBadRequest, "MISSING_FILE", "stego file not provided")
		return
	}
	stegoData, err := readFormFile(stegoHeader)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "PROCESSING_ERROR", "failed to read stego file")
		return
	}

	bitsPerFrame, err := parseBitsPerFrame(c.PostForm("bits_per_frame"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_BITS_PER_FRAME", err.Error())
		return
	}
	key := c.PostForm("key")
	vigenere := c.PostForm("vigenere") == "true"

	req := &models.ExtractRequest{
		StegoAudio:     stegoData,
		BitsPerFrame:   bitsPerFrame,
		StegoKey:       key,
		Vigenere:       vigenere,
		MaskPercentile: httpMaskPercentile,
		MaxFrames:      httpMaxFrames,
	}

	secretData, ext, err := h.steganographyService.ExtractMessage(req)
	if err != nil {
		log.Printf("[ERROR] [%s] ExtractHandler: %v", reqID, err)
		sendError(c, http.StatusInternalServerError, "EXTRACTION_ERROR", err.Error())
		return
	}

	filename := "recovered"
	if ext != "" {
		filename += "." + ext
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("X-Ext", ext)
	c.Data(http.StatusOK, "application/octet-stream", secretData)
}

func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func parseBitsPerFrame(raw string) (int, error) {
	if raw == "" {
		return 4, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("bits_per_frame must be an integer")
	}
	if n < 1 || n > 8 {
		return 0, fmt.Errorf("bits_per_frame must be between 1 and 8")
	}
	return n, nil
}

// sendError sends a standardized error response.
func sendError(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, models.ErrorResponse{
		Success: false,
		Error: models.ErrorDetail{
			Message: message,
			Details: map[string]interface{}{
				"code": code,
			},
		},
	})
}
