package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vieerr/dearmom-backend/internal/logger"
	"github.com/vieerr/dearmom-backend/internal/mail"
)

// maxImageSize caps how much of a fetched letter image gets embedded.
const maxImageSize = 10 << 20

type MailHandler struct {
	sender     mail.Sender
	httpClient *http.Client
	appURL     string
	log        *logger.Logger
}

func NewMailHandler(sender mail.Sender, appURL string) *MailHandler {
	return &MailHandler{
		sender:     sender,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		appURL:     appURL,
		log:        logger.New("mail-handler"),
	}
}

type SendEmailRequest struct {
	RecipientEmail string `json:"recipientEmail"`
	ImageURL       string `json:"imageUrl"`
}

type SendEmailResponse struct {
	Message string `json:"message"`
}

// SendEmail fetches the letter image by URL and mails it embedded inline in
// the HTML body.
func (h *MailHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondJSON(w, http.StatusMethodNotAllowed, SendEmailResponse{Message: "Method not allowed"})
		return
	}

	var req SendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, SendEmailResponse{Message: "Invalid request body"})
		return
	}

	if req.RecipientEmail == "" || req.ImageURL == "" {
		respondJSON(w, http.StatusBadRequest, SendEmailResponse{Message: "Recipient email and image URL are required."})
		return
	}

	image, err := h.fetchImage(r, req.ImageURL)
	if err != nil {
		h.log.Error("Failed to fetch image: %v", err)
		respondJSON(w, http.StatusInternalServerError, SendEmailResponse{Message: "Failed to fetch image."})
		return
	}

	msg := mail.Message{
		To:      req.RecipientEmail,
		Subject: "A Letter from Your Child",
		HTML: fmt.Sprintf(`
			<p>Here's a letter from your child:</p>
			<img src="cid:letter.png" alt="Letter" style="width: 400px; height: auto;" />
			<a href="%s" target="_blank" rel="noopener noreferrer">Dear Mom</a>!
		`, h.appURL),
		Attachment: &mail.Attachment{
			Filename: "letter.png",
			Content:  image,
		},
	}

	if err := h.sender.Send(r.Context(), msg); err != nil {
		h.log.Error("Failed to send email: %v", err)
		respondJSON(w, http.StatusInternalServerError, SendEmailResponse{Message: "Failed to send email."})
		return
	}

	respondJSON(w, http.StatusOK, SendEmailResponse{Message: "Email sent successfully!"})
}

func (h *MailHandler) fetchImage(r *http.Request, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
}
