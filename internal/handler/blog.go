package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/estatehub/estatehub-admin/internal/model"
	"github.com/estatehub/estatehub-admin/internal/service"
)

const (
	multipartMemory = 8 << 20 // 8MB

	msgImageNotUploaded = "The featured image could not be uploaded."
)

// BlogHandler serves the add-blog-post screen.
type BlogHandler struct {
	service  *service.BlogService
	view     *View
	maxImage int64
}

// NewBlogHandler creates a new BlogHandler. maxImage bounds the featured
// image; the request body may exceed it by the size of the text fields.
// A maxImage of zero or less disables both limits, as in upload.Check.
func NewBlogHandler(svc *service.BlogService, view *View, maxImage int64) *BlogHandler {
	return &BlogHandler{service: svc, view: view, maxImage: maxImage}
}

func (h *BlogHandler) page(r *http.Request) Page {
	page := Page{Title: "Add blog post", Actor: actorPtr(r), Statuses: model.PostStatuses}

	categories, err := h.service.Categories(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list blog categories")
		page.Warnings = append(page.Warnings, "Categories could not be loaded.")
		return page
	}
	page.Categories = categories
	return page
}

// HandleForm handles GET /admin/blog/new requests.
func (h *BlogHandler) HandleForm(w http.ResponseWriter, r *http.Request) {
	h.view.render(w, http.StatusOK, pageBlog, h.page(r))
}

// HandleCreate handles POST /admin/blog/new requests.
func (h *BlogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if h.maxImage > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxImage+formBodyLimit)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		status, msg := formReadFailure(err)
		page := h.page(r)
		page.Errors = []string{msg}
		h.view.render(w, status, pageBlog, page)
		return
	}
	defer r.MultipartForm.RemoveAll()

	image, err := h.featuredImage(r)
	if err != nil {
		page := h.page(r)
		page.Errors = []string{msgBadForm}
		page.Form = retained(r.PostForm)
		h.view.render(w, http.StatusBadRequest, pageBlog, page)
		return
	}

	form := r.PostForm
	res, err := h.service.CreateBlogPost(r.Context(), actor, model.BlogPostInput{
		Title:         form.Get("title"),
		Content:       form.Get("content"),
		Excerpt:       form.Get("excerpt"),
		Status:        form.Get("status"),
		FeaturedImage: image,
		CategoryIDs:   form["category_ids"],
	})

	page := h.page(r)
	if err != nil {
		status, msgs := failure(r, err)
		page.Errors = msgs
		page.Form = retained(form)
		if res.UploadWarning != nil {
			page.Warnings = append(page.Warnings, msgImageNotUploaded)
		}
		h.view.render(w, status, pageBlog, page)
		return
	}

	page.Success = fmt.Sprintf("Blog post created successfully at /blog/%s.", res.Post.Slug)
	if res.UploadWarning != nil {
		page.Warnings = append(page.Warnings, "The post was saved but the featured image could not be uploaded.")
	}
	h.view.render(w, http.StatusOK, pageBlog, page)
}

// featuredImage reads the optional file field. A missing file is not an
// error. With a positive maxImage at most maxImage+1 bytes are read so the
// size check still fires.
func (h *BlogHandler) featuredImage(r *http.Request) (*model.ImageUpload, error) {
	file, header, err := r.FormFile("featured_image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var src io.Reader = file
	if h.maxImage > 0 {
		src = io.LimitReader(file, h.maxImage+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return &model.ImageUpload{Filename: header.Filename, Data: data}, nil
}
