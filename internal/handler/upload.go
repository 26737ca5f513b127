package handler

import (
	"io"
	"log"
	"net/http"
)

// maxUploadBytes caps a single file upload.
const maxUploadBytes = 10 << 20 // 10MB

// BlobStore persists an uploaded file and returns its public URL.
type BlobStore interface {
	Store(data []byte, originalName string) (string, error)
}

// Upload accepts a multipart file and stores it, returning the URL a message
// can later reference as its file attachment.
func Upload(blobs BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondError(w, http.StatusBadRequest, "no file uploaded")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			respondError(w, http.StatusBadRequest, "no file uploaded")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			log.Printf("failed to read uploaded file: %v", err)
			respondError(w, http.StatusInternalServerError, "server error")
			return
		}

		fileURL, err := blobs.Store(data, header.Filename)
		if err != nil {
			log.Printf("failed to store uploaded file: %v", err)
			respondError(w, http.StatusInternalServerError, "server error")
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{"file_url": fileURL})
	}
}
