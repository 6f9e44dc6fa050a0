package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vieerr/dearmom-backend/internal/logger"
	"github.com/vieerr/dearmom-backend/internal/speech"
)

type SpeechHandler struct {
	synth speech.Synthesizer
	log   *logger.Logger
}

func NewSpeechHandler(synth speech.Synthesizer) *SpeechHandler {
	return &SpeechHandler{
		synth: synth,
		log:   logger.New("speech-handler"),
	}
}

type SynthesizeRequest struct {
	Text string `json:"text"`
}

func (h *SpeechHandler) Synthesize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SynthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "Text is required")
		return
	}

	audio, err := h.synth.Synthesize(r.Context(), req.Text)
	if err != nil {
		h.log.Error("Failed to synthesize speech: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", `attachment; filename="output.mp3"`)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(audio)))
	w.Write(audio)
}
