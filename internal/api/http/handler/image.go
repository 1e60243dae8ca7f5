package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mkravets/cutout-server/internal/model"
	"github.com/mkravets/cutout-server/internal/service"
)

// maxUploadBytes bounds multipart form memory use.
const maxUploadBytes = 32 << 20

// Index renders the upload form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "index.html", pageData{LoggedIn: h.sessions.State(r).Authenticated})
}

// Upload handles the removal form submission: reads the file, runs the
// pipeline and records anonymous quota use on success.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.State(r)
	page := pageData{LoggedIn: sess.Authenticated}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.flashAndRender(w, r, "danger", "No file part in the request", "index.html", page)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.flashAndRender(w, r, "danger", "No file part in the request", "index.html", page)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		h.flashAndRender(w, r, "danger", "No file selected", "index.html", page)
		return
	}
	if !service.AllowedExtension(header.Filename) {
		h.flashAndRender(w, r, "danger", "Only PNG, JPG, JPEG files allowed.", "index.html", page)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read upload", "error", err.Error())
		h.flashAndRender(w, r, "danger", "Processing failed. Please try again.", "index.html", page)
		return
	}

	result, err := h.images.RemoveBackground(r.Context(), data, sess)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrQuotaExceeded):
			h.flashAndRender(w, r, "danger",
				"You have reached the upload limit. Please log in to continue.",
				"index.html", pageData{LoggedIn: false})
		case errors.Is(err, model.ErrEmptyUpload):
			h.flashAndRender(w, r, "danger", "Empty file uploaded", "index.html", page)
		case errors.Is(err, model.ErrUnsupportedFormat):
			h.flashAndRender(w, r, "danger", "Invalid image file.", "index.html", page)
		case errors.Is(err, model.ErrSegmentationFailed):
			h.flashAndRender(w, r, "danger", "Background removal failed - empty result", "index.html", page)
		case errors.Is(err, model.ErrStorageUpload):
			h.flashAndRender(w, r, "danger",
				"Failed to upload processed image to storage",
				"index.html", page)
		default:
			h.logger.Error("removal pipeline failed", "error", err.Error())
			h.flashAndRender(w, r, "danger", "Processing failed. Please try again.", "index.html", page)
		}
		return
	}

	if !sess.Authenticated {
		if err := h.sessions.RecordAnonymousUse(w, r); err != nil {
			h.logger.Error("failed to record anonymous use", "error", err.Error())
		}
	}

	h.render(w, r, "result.html", pageData{
		LoggedIn: sess.Authenticated,
		ImgURL:   result.URL,
		Filename: result.Filename,
	})
}

// Download streams a locally stored artifact as an attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]

	f, err := h.images.Download(filename)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidFormat):
			h.flashAndRedirect(w, r, "danger", "Invalid file format for download.", "/")
		default:
			h.flashAndRedirect(w, r, "danger", "File not found.", "/")
		}
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if _, err := io.Copy(w, f); err != nil {
		h.logger.Error("failed to stream download", "filename", filename, "error", err.Error())
	}
}

// ChangeBackground renders the background picker for a produced foreground.
func (h *Handler) ChangeBackground(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.State(r)
	if !sess.Authenticated {
		h.flashAndRedirect(w, r, "warning", "You need to login to select background.", "/login")
		return
	}

	filename := mux.Vars(r)["filename"]

	assets, err := h.images.ListBackgrounds(r.Context(), sess.UserID)
	if err != nil {
		h.logger.Error("failed to list backgrounds", "user_id", sess.UserID, "error", err.Error())
		h.flashAndRedirect(w, r, "danger", genericFailureMessage, "/")
		return
	}

	urls := make([]string, 0, len(assets))
	for _, a := range assets {
		urls = append(urls, a.URL)
	}

	h.render(w, r, "change_background.html", pageData{
		LoggedIn:    true,
		Filename:    filename,
		Backgrounds: urls,
	})
}

// ApplyBackground composites the chosen background under the foreground.
func (h *Handler) ApplyBackground(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.State(r)

	filename := r.PostFormValue("filename")
	backgroundURL := r.PostFormValue("background_url")

	result, err := h.images.ApplyBackground(r.Context(), filename, backgroundURL, sess)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUnauthorized):
			h.flashAndRedirect(w, r, "warning", "You need to login to select background.", "/login")
		case errors.Is(err, model.ErrMissingInput):
			h.flashAndRedirect(w, r, "danger", "Missing required data to apply background.", "/")
		default:
			h.logger.Error("apply background failed", "filename", filename, "error", err.Error())
			h.flashAndRedirect(w, r, "danger", "Failed to apply background.", "/")
		}
		return
	}

	h.render(w, r, "result.html", pageData{
		LoggedIn: sess.Authenticated,
		ImgURL:   result.URL,
		Filename: result.Filename,
	})
}

// UploadBackground stores a user-supplied background image.
func (h *Handler) UploadBackground(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.State(r)
	if !sess.Authenticated {
		h.flashAndRedirect(w, r, "danger", "You must be logged in to upload a background.", "/login")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.flashAndRedirect(w, r, "danger", "No background file selected.", "/")
		return
	}

	filenameParam := r.PostFormValue("filename")
	returnTo := "/change-background/" + filenameParam

	file, header, err := r.FormFile("background_file")
	if err != nil || header.Filename == "" {
		h.flashAndRedirect(w, r, "danger", "No background file selected.", returnTo)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read background upload", "error", err.Error())
		h.flashAndRedirect(w, r, "danger", "Failed to upload background.", returnTo)
		return
	}

	if _, err := h.images.UploadBackgroundAsset(r.Context(), header.Filename, data, sess); err != nil {
		switch {
		case errors.Is(err, model.ErrEmptyUpload):
			h.flashAndRedirect(w, r, "danger", "No background file selected.", returnTo)
		case errors.Is(err, model.ErrUnsupportedFormat):
			h.flashAndRedirect(w, r, "danger", "Only PNG, JPG, JPEG files are allowed.", returnTo)
		default:
			h.logger.Error("background upload failed", "error", err.Error())
			h.flashAndRedirect(w, r, "danger", "Failed to upload background.", returnTo)
		}
		return
	}

	h.flashAndRedirect(w, r, "success",
		"Background uploaded successfully. You can now select it.",
		returnTo)
}
