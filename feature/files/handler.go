package files

import (
	"bytes"
	"errors"
	"io"
	"net/url"

	"blob-gateway/core/logger"
	"blob-gateway/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for files.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the file routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/files")
	group.Post("/", h.HandleUpload)
	group.Put("/stream/:name", h.HandleUploadStream)
	group.Get("/:key/url", h.HandleRetrievalURL)
	group.Get("/:key", h.HandleDownload)
	group.Delete("/:key", h.HandleDelete)
}

// HandleUpload stores the raw request body.
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	visibility, err := ParseVisibility(c.Query("visibility"))
	if err != nil {
		return h.fail(c, l, "Upload rejected", err)
	}

	var result UploadResult
	if visibility == Public {
		result, err = h.service.Upload(c.Context(), requestBody(c), c.Query("filename"))
	} else {
		result, err = h.service.UploadProtected(c.Context(), requestBody(c), c.Query("filename"))
	}
	if err != nil {
		return h.fail(c, l, "Upload failed", err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleUploadStream pipes the request body through an upload stream.
func (h *Handler) HandleUploadStream(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	visibility, err := ParseVisibility(c.Query("visibility"))
	if err != nil {
		return h.fail(c, l, "Stream upload rejected", err)
	}
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return h.fail(c, l, "Stream upload rejected", ErrInvalidKey)
	}

	stream, err := h.service.OpenUploadStream(c.Context(), UploadStreamDescriptor{
		Name:       name,
		Ext:        c.Query("ext"),
		Visibility: visibility,
	})
	if err != nil {
		return h.fail(c, l, "Stream upload rejected", err)
	}

	if _, err := io.Copy(stream, requestBody(c)); err != nil {
		stream.Abort(err)
		_ = stream.Wait(c.Context())
		return h.fail(c, l, "Stream upload failed", err)
	}
	if err := stream.Close(); err != nil {
		_ = stream.Wait(c.Context())
		return h.fail(c, l, "Stream upload failed", err)
	}
	if err := stream.Wait(c.Context()); err != nil {
		return h.fail(c, l, "Stream upload failed", err)
	}

	return c.Status(fiber.StatusCreated).JSON(UploadResult{URL: stream.URL, Key: stream.Key})
}

// HandleDownload streams a stored file.
func (h *Handler) HandleDownload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	key, visibility, err := keyAndVisibility(c)
	if err != nil {
		return h.fail(c, l, "Download rejected", err)
	}

	rc, err := h.service.OpenDownloadStream(c.Context(), key, visibility)
	if err != nil {
		return h.fail(c, l, "Download failed", err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.SendStream(rc)
}

// HandleRetrievalURL returns a retrieval URL for a file.
func (h *Handler) HandleRetrievalURL(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	key, visibility, err := keyAndVisibility(c)
	if err != nil {
		return h.fail(c, l, "URL request rejected", err)
	}

	u, err := h.service.GetRetrievalURL(c.Context(), key, visibility)
	if err != nil {
		return h.fail(c, l, "URL generation failed", err)
	}

	return c.JSON(fiber.Map{"url": u, "key": key})
}

// HandleDelete removes a file from both containers. It always answers 200;
// the body tells which containers held the key and which attempts failed.
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	key, err := url.PathUnescape(c.Params("key"))
	if err != nil {
		key = c.Params("key")
	}

	res := h.service.Delete(c.Context(), key)
	return c.JSON(fiber.Map{
		"key":       key,
		"deleted":   res.Deleted(),
		"public":    deletionReport(res.Public),
		"protected": deletionReport(res.Protected),
	})
}

func deletionReport(d ContainerDeletion) fiber.Map {
	m := fiber.Map{"deleted": d.Deleted}
	if d.Err != nil {
		m["error"] = d.Err.Error()
	}
	return m
}

func keyAndVisibility(c *fiber.Ctx) (string, Visibility, error) {
	visibility, err := ParseVisibility(c.Query("visibility"))
	if err != nil {
		return "", visibility, err
	}
	key, err := url.PathUnescape(c.Params("key"))
	if err != nil {
		return "", visibility, ErrInvalidKey
	}
	return key, visibility, nil
}

// requestBody prefers the streamed body when the server runs with
// StreamRequestBody.
func requestBody(c *fiber.Ctx) io.Reader {
	if r := c.Context().RequestBodyStream(); r != nil {
		return r
	}
	return bytes.NewReader(c.Body())
}

func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	status := fiber.StatusBadGateway
	switch {
	case errors.Is(err, ErrInvalidKey), errors.Is(err, ErrInvalidVisibility):
		status = fiber.StatusBadRequest
	case storage.IsNotFound(err):
		status = fiber.StatusNotFound
	}

	if status == fiber.StatusBadGateway {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
