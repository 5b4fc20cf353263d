package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/blog"
	"github.com/cmlabs-hris/hr-portal-go/internal/handler/http/response"
)

// maxUploadMemory is what ParseMultipartForm keeps in memory; the rest
// spills to temp files.
const maxUploadMemory = 32 << 20

type BlogHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Like(w http.ResponseWriter, r *http.Request)
	Unlike(w http.ResponseWriter, r *http.Request)
	UploadImages(w http.ResponseWriter, r *http.Request)
	ServeImage(w http.ResponseWriter, r *http.Request)
}

type blogHandlerImpl struct {
	blogService blog.BlogService
}

func NewBlogHandler(blogService blog.BlogService) BlogHandler {
	return &blogHandlerImpl{blogService: blogService}
}

// List implements BlogHandler.
func (h *blogHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	employeeNumber, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	resp, err := h.blogService.List(r.Context(), blog.ListPostsFilter{
		Tag:          optionalQuery(r, "tag"),
		ViewerNumber: employeeNumber,
		Page:         intQuery(r, "page"),
		Limit:        intQuery(r, "limit"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, resp.Posts, &response.Meta{
		Page:       resp.Page,
		Limit:      resp.Limit,
		TotalItems: resp.TotalCount,
		TotalPages: resp.TotalPages,
	})
}

// Get implements BlogHandler.
func (h *blogHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	employeeNumber, ok := currentEmployee(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	post, err := h.blogService.Get(r.Context(), id, employeeNumber)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, post)
}

// Create implements BlogHandler.
func (h *blogHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	employeeNumber, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	var req blog.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreatePost decode error", "error", err)
		response.BadRequest(w, "Formato de solicitud inválido", nil)
		return
	}
	req.AuthorNumber = employeeNumber

	post, err := h.blogService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Publicación creada", post)
}

// Update implements BlogHandler.
func (h *blogHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	employeeNumber, ok := currentEmployee(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req blog.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdatePost decode error", "error", err)
		response.BadRequest(w, "Formato de solicitud inválido", nil)
		return
	}
	req.ID = id
	req.EditorNumber = employeeNumber

	post, err := h.blogService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Publicación actualizada", post)
}

// Delete implements BlogHandler.
func (h *blogHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	employeeNumber, ok := currentEmployee(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.blogService.Delete(r.Context(), id, employeeNumber); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Publicación eliminada", nil)
}

// Like implements BlogHandler.
func (h *blogHandlerImpl) Like(w http.ResponseWriter, r *http.Request) {
	employeeNumber, ok := currentEmployee(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	resp, err := h.blogService.Like(r.Context(), id, employeeNumber)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Unlike implements BlogHandler.
func (h *blogHandlerImpl) Unlike(w http.ResponseWriter, r *http.Request) {
	employeeNumber, ok := currentEmployee(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	resp, err := h.blogService.Unlike(r.Context(), id, employeeNumber)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// UploadImages implements BlogHandler. Files come in the multipart field "images".
func (h *blogHandlerImpl) UploadImages(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentEmployee(w, r); !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "No se pudo leer el formulario", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	resp, err := h.blogService.UploadImages(r.Context(), blog.UploadImagesRequest{
		Files: r.MultipartForm.File["images"],
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Imágenes cargadas", resp)
}

// ServeImage implements BlogHandler.
func (h *blogHandlerImpl) ServeImage(w http.ResponseWriter, r *http.Request) {
	rc, contentType, err := h.blogService.OpenImage(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	// Names are ULIDs and never reused.
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("Failed to stream image", "name", chi.URLParam(r, "name"), "error", err)
	}
}
