package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// MaxTTSTextLength membatasi panjang teks yang disintesis.
const MaxTTSTextLength = 500

// TTSService mem-proxy sintesis suara ke provider eksternal bergaya
// ElevenLabs. Balasan berupa audio mpeg mentah.
type TTSService struct {
	apiURL     string
	apiKey     string
	voiceID    string
	httpClient *http.Client
}

func NewTTSService() *TTSService {
	voice := os.Getenv("TTS_VOICE_ID")
	if voice == "" {
		voice = "21m00Tcm4TlvDq8ikWAM"
	}
	return &TTSService{
		apiURL:  os.Getenv("TTS_API_URL"),
		apiKey:  os.Getenv("TTS_API_KEY"),
		voiceID: voice,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

type ttsRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Synthesize mengubah teks menjadi audio. Teks kosong atau terlalu panjang
// ditolak sebelum memanggil provider.
func (s *TTSService) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: teks kosong", ErrValidation)
	}
	if len([]rune(text)) > MaxTTSTextLength {
		return nil, fmt.Errorf("%w: teks melebihi %d karakter", ErrValidation, MaxTTSTextLength)
	}
	if s.apiURL == "" || s.apiKey == "" {
		return nil, fmt.Errorf("%w: TTS belum dikonfigurasi", ErrUpstreamUnavailable)
	}

	payload, err := json.Marshal(ttsRequest{Text: text, ModelID: "eleven_multilingual_v2"})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", s.apiURL, s.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider TTS status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
