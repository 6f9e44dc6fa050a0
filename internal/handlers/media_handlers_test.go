package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vieerr/dearmom-backend/internal/mail"
)

type fakeUploader struct {
	data        []byte
	contentType string
	err         error
}

func (f *fakeUploader) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	f.data = data
	f.contentType = contentType
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.example.com/letters/abc.png", nil
}

type fakeSynthesizer struct {
	text string
	err  error
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	f.text = text
	if f.err != nil {
		return nil, f.err
	}
	return []byte("mp3-bytes"), nil
}

type fakeSender struct {
	msg mail.Message
	err error
}

func (f *fakeSender) Send(ctx context.Context, msg mail.Message) error {
	f.msg = msg
	return f.err
}

func TestUpload_OK(t *testing.T) {
	uploader := &fakeUploader{}
	h := NewUploadHandler(uploader)

	image := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("raw-image"))
	rec := doJSON(t, h.Upload, http.MethodPost, "/upload", UploadRequest{Image: image})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp UploadResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ImageURL == "" {
		t.Error("expected image URL in response")
	}
	if string(uploader.data) != "raw-image" {
		t.Errorf("uploader received wrong bytes: %q", uploader.data)
	}
	if uploader.contentType != "image/jpeg" {
		t.Errorf("expected content type from data URL, got %q", uploader.contentType)
	}
}

func TestUpload_MissingImage(t *testing.T) {
	h := NewUploadHandler(&fakeUploader{})

	rec := doJSON(t, h.Upload, http.MethodPost, "/upload", UploadRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestUpload_BadEncoding(t *testing.T) {
	h := NewUploadHandler(&fakeUploader{})

	rec := doJSON(t, h.Upload, http.MethodPost, "/upload", UploadRequest{Image: "%%% not base64 %%%"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestUpload_ProviderFailure(t *testing.T) {
	h := NewUploadHandler(&fakeUploader{err: errors.New("bucket gone")})

	image := base64.StdEncoding.EncodeToString([]byte("raw-image"))
	rec := doJSON(t, h.Upload, http.MethodPost, "/upload", UploadRequest{Image: image})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestSynthesize_OK(t *testing.T) {
	synth := &fakeSynthesizer{}
	h := NewSpeechHandler(synth)

	rec := doJSON(t, h.Synthesize, http.MethodPost, "/synthesize", SynthesizeRequest{Text: "querida mamá"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "audio/mpeg" {
		t.Errorf("expected audio/mpeg, got %q", got)
	}
	if rec.Body.String() != "mp3-bytes" {
		t.Errorf("expected raw audio body, got %q", rec.Body.String())
	}
	if synth.text != "querida mamá" {
		t.Errorf("synthesizer received wrong text: %q", synth.text)
	}
}

func TestSynthesize_MissingText(t *testing.T) {
	h := NewSpeechHandler(&fakeSynthesizer{})

	rec := doJSON(t, h.Synthesize, http.MethodPost, "/synthesize", SynthesizeRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestSendEmail_OK(t *testing.T) {
	imageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png-bytes"))
	}))
	defer imageServer.Close()

	sender := &fakeSender{}
	h := NewMailHandler(sender, "https://dearmom.vercel.app")

	rec := doJSON(t, h.SendEmail, http.MethodPost, "/send-email", SendEmailRequest{
		RecipientEmail: "mom@x.com",
		ImageURL:       imageServer.URL + "/letter.png",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if sender.msg.To != "mom@x.com" {
		t.Errorf("expected recipient 'mom@x.com', got %q", sender.msg.To)
	}
	if sender.msg.Subject != "A Letter from Your Child" {
		t.Errorf("unexpected subject %q", sender.msg.Subject)
	}
	if sender.msg.Attachment == nil || string(sender.msg.Attachment.Content) != "png-bytes" {
		t.Error("expected fetched image embedded as attachment")
	}
}

func TestSendEmail_MissingFields(t *testing.T) {
	h := NewMailHandler(&fakeSender{}, "https://dearmom.vercel.app")

	rec := doJSON(t, h.SendEmail, http.MethodPost, "/send-email", SendEmailRequest{RecipientEmail: "mom@x.com"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp SendEmailResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "Recipient email and image URL are required." {
		t.Errorf("unexpected message: %q", resp.Message)
	}
}

func TestSendEmail_FetchFailure(t *testing.T) {
	imageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer imageServer.Close()

	h := NewMailHandler(&fakeSender{}, "https://dearmom.vercel.app")

	rec := doJSON(t, h.SendEmail, http.MethodPost, "/send-email", SendEmailRequest{
		RecipientEmail: "mom@x.com",
		ImageURL:       imageServer.URL + "/missing.png",
	})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestSendEmail_SendFailure(t *testing.T) {
	imageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png-bytes"))
	}))
	defer imageServer.Close()

	h := NewMailHandler(&fakeSender{err: errors.New("smtp down")}, "https://dearmom.vercel.app")

	rec := doJSON(t, h.SendEmail, http.MethodPost, "/send-email", SendEmailRequest{
		RecipientEmail: "mom@x.com",
		ImageURL:       imageServer.URL + "/letter.png",
	})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
