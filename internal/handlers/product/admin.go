package product

import (
	"errors"
	"mime/multipart"
	"net/http"

	"lorve_back_end/internal/catalog"
	"lorve_back_end/internal/handlers"
	"lorve_back_end/internal/middleware"
	"lorve_back_end/internal/validation"

	"github.com/gin-gonic/gin"
)

const maxImageSize = 10 << 20

// imageFromForm returns the optional "image" upload. A missing or empty
// file is not an error.
func imageFromForm(c *gin.Context) (*catalog.Image, func(), error) {
	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || (err == nil && header.Size == 0) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if header.Size > maxImageSize {
		return nil, nil, errors.New("image must be 10MB or smaller")
	}
	return openImage(header)
}

func openImage(header *multipart.FileHeader) (*catalog.Image, func(), error) {
	f, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	img := &catalog.Image{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
	}
	return img, func() { _ = f.Close() }, nil
}

func bindForm(c *gin.Context) (validation.ProductForm, bool) {
	var form validation.ProductForm
	if err := c.ShouldBind(&form); err != nil {
		handlers.FormError(c, http.StatusBadRequest, validation.Global("Invalid form data."))
		return form, false
	}
	return form, true
}

func (h *Handler) CreateProduct(c *gin.Context) {
	form, ok := bindForm(c)
	if !ok {
		return
	}
	img, done, err := imageFromForm(c)
	if err != nil {
		handlers.FormError(c, http.StatusBadRequest, validation.Global("Upload Error: "+err.Error()))
		return
	}
	defer done()

	p, err := h.catalog.Create(c.Request.Context(), form, img)
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	c.Set(middleware.ContextAuditID, p.ID)
	c.JSON(http.StatusCreated, gin.H{"success": true, "product": p})
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	form, ok := bindForm(c)
	if !ok {
		return
	}
	img, done, err := imageFromForm(c)
	if err != nil {
		handlers.FormError(c, http.StatusBadRequest, validation.Global("Upload Error: "+err.Error()))
		return
	}
	defer done()

	p, err := h.catalog.Update(c.Request.Context(), c.Param("id"), form, c.PostForm("image_url"), img)
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Product not found"})
		return
	}
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "product": p})
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handlers.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
