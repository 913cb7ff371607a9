package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/devsearch-backend/errs"
	"github.com/rpupo63/devsearch-backend/media"
	"github.com/rpupo63/devsearch-backend/pagination"
)

const (
	maxJSONBody   = 1 << 20
	maxUploadBody = media.MaxUploadSize + 1<<20
)

// decodeJSON reads a bounded JSON body into dst
func decodeJSON(r *http.Request, dst any, payloadName string) error {
	body := http.MaxBytesReader(nil, r.Body, maxJSONBody)
	decoder := json.NewDecoder(body)
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.BadRequest(payloadName + " body is empty")
		}
		return errs.Malformed(payloadName)
	}
	return nil
}

// urlID parses a uuid chi URL parameter
func urlID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, errs.InvalidID(name)
	}
	return id, nil
}

// queryID parses a required uuid query parameter
func queryID(r *http.Request, name string) (uuid.UUID, error) {
	return parseID(r.URL.Query().Get(name), name)
}

func parseID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, errs.InvalidID(name)
	}
	return id, nil
}

// parseUploadForm bounds the multipart body before anything is buffered.
func parseUploadForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errs.NewMaxBodySizeExceededError(media.MaxUploadSize)
		}
		return errs.NewBadRequestErrorWithField("invalid multipart form", "image")
	}
	return nil
}

// readUpload returns the named file from a parsed multipart form, or nil when no file was sent.
// The caller closes the returned file.
func readUpload(r *http.Request, field string) (*media.Upload, multipart.File, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, errs.NewBadRequestErrorWithField("invalid upload", field)
	}
	if header.Filename == "" {
		file.Close()
		return nil, nil, nil
	}
	return &media.Upload{Filename: header.Filename, Size: header.Size, Body: file}, file, nil
}

// requireUpload is readUpload for endpoints where the file is mandatory
func requireUpload(r *http.Request, field string) (*media.Upload, multipart.File, error) {
	upload, file, err := readUpload(r, field)
	if err != nil {
		return nil, nil, err
	}
	if upload == nil {
		return nil, nil, errs.NewBadRequestErrorWithField("image is required", field)
	}
	return upload, file, nil
}

const maxPageSize = 100

// pageParams reads page and size for the JSON API. A missing size uses defaultSize.
func pageParams(r *http.Request, defaultSize int) (int, int) {
	q := r.URL.Query()
	size := q.Get("size")
	if size == "" {
		size = strconv.Itoa(defaultSize)
	}
	page, n := pagination.Parse(q.Get("page"), size, 1)
	if n > maxPageSize {
		n = maxPageSize
	}
	return page, n
}

// withUpload parses a multipart form and hands fn the "image" file, nil when optional and absent.
// The file is closed when fn returns.
func withUpload(w http.ResponseWriter, r *http.Request, required bool, fn func(upload *media.Upload) error) error {
	if err := parseUploadForm(w, r); err != nil {
		return err
	}
	read := readUpload
	if required {
		read = requireUpload
	}
	upload, file, err := read(r, "image")
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	return fn(upload)
}
