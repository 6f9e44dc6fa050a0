// Package speech turns letter text into MP3 audio through the Google Cloud
// text-to-speech REST API.
package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type Config struct {
	APIKey       string
	Endpoint     string
	LanguageCode string
	VoiceGender  string
}

type GoogleSynthesizer struct {
	httpClient *http.Client
	cfg        Config
}

func NewGoogleSynthesizer(cfg Config) *GoogleSynthesizer {
	return &GoogleSynthesizer{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cfg:        cfg,
	}
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		SSMLGender   string `json:"ssmlGender"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string `json:"audioEncoding"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

func (s *GoogleSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	var reqBody synthesizeRequest
	reqBody.Input.Text = text
	reqBody.Voice.LanguageCode = s.cfg.LanguageCode
	reqBody.Voice.SSMLGender = s.cfg.VoiceGender
	reqBody.AudioConfig.AudioEncoding = "MP3"

	encoded, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode synthesize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint+"?key="+s.cfg.APIKey, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to build synthesize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call speech service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("speech service returned %d: %s", resp.StatusCode, body)
	}

	var result synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode synthesize response: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(result.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio content: %w", err)
	}

	return audio, nil
}
