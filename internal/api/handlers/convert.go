package handlers

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/denisAlshanov/ytmp3/internal/models"
	"github.com/denisAlshanov/ytmp3/internal/utils"
)

// Some proxies collapse "https://" in a path to "https:/".
var collapsedScheme = regexp.MustCompile(`(?i)^(https?):/+`)

type ConversionService interface {
	Convert(ctx context.Context, req models.ConversionRequest) (*models.ConversionResult, error)
}

type ConvertHandler struct {
	converter ConversionService
}

func NewConvertHandler(converter ConversionService) *ConvertHandler {
	return &ConvertHandler{
		converter: converter,
	}
}

// Convert godoc
// @Summary Convert a YouTube video to MP3 and publish it
// @Description Downloads the audio track through the configured providers, stores it as mp3/<fileName> and returns its public URL
// @Tags convert
// @Accept json
// @Produce json
// @Param youtubelink query string false "YouTube URL"
// @Param youtubeUrl query string false "YouTube URL (alias of youtubelink)"
// @Param fileName query string false "Requested file name"
// @Param request body models.ConvertRequestBody false "Conversion request"
// @Success 200 {object} models.ConvertSuccessResponse
// @Failure 400 {object} models.ConvertErrorResponse
// @Failure 500 {object} models.ConvertErrorResponse
// @Router /convert [get]
// @Router /convert [post]
// @Router /api/v1/convert [get]
// @Router /api/v1/convert [post]
func (h *ConvertHandler) Convert(c *gin.Context) {
	h.run(c, h.parseRequest(c))
}

// ConvertPath godoc
// @Summary Convert a YouTube video given in the path
// @Description The remainder of the path after /convert/ is taken as the YouTube URL
// @Tags convert
// @Produce json
// @Param link path string true "YouTube URL"
// @Success 200 {object} models.ConvertSuccessResponse
// @Failure 400 {object} models.ConvertErrorResponse
// @Failure 500 {object} models.ConvertErrorResponse
// @Router /convert/{link} [get]
func (h *ConvertHandler) ConvertPath(c *gin.Context) {
	link := strings.TrimPrefix(c.Param("link"), "/")
	link = collapsedScheme.ReplaceAllString(link, "$1://")

	// The query string of the embedded URL (?v=...) arrives as our own.
	req := models.ConversionRequest{SourceURL: link}
	query := c.Request.URL.Query()
	req.RequestedFileName = query.Get("fileName")
	query.Del("fileName")
	if encoded := query.Encode(); encoded != "" && link != "" {
		req.SourceURL = link + "?" + encoded
	}

	h.run(c, req)
}

// Preflight answers CORS preflight requests; the headers come from the CORS
// middleware.
func (h *ConvertHandler) Preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (h *ConvertHandler) parseRequest(c *gin.Context) models.ConversionRequest {
	req := models.ConversionRequest{
		SourceURL:         firstNonEmpty(c.Query("youtubelink"), c.Query("youtubeUrl")),
		RequestedFileName: c.Query("fileName"),
	}

	if c.Request.Method == http.MethodPost && c.Request.ContentLength != 0 {
		// Anything that is not a form is read as JSON, whatever the client
		// declared (text/plain and missing types are common).
		var body models.ConvertRequestBody
		var err error
		switch c.ContentType() {
		case binding.MIMEPOSTForm:
			err = c.ShouldBindWith(&body, binding.Form)
		case binding.MIMEMultipartPOSTForm:
			err = c.ShouldBindWith(&body, binding.FormMultipart)
		default:
			err = c.ShouldBindBodyWith(&body, binding.JSON)
		}
		if err != nil {
			utils.LogWarn(c.Request.Context(), "Ignoring unreadable request body", utils.Fields{
				"error": err.Error(),
			})
		}
		if req.SourceURL == "" {
			req.SourceURL = firstNonEmpty(body.YoutubeURL, body.YoutubeLink)
		}
		if req.RequestedFileName == "" {
			req.RequestedFileName = body.FileName
		}
	}

	return req
}

func (h *ConvertHandler) run(c *gin.Context, req models.ConversionRequest) {
	// A client that disconnects must not abort a publish already under way.
	ctx := context.WithoutCancel(c.Request.Context())

	result, err := h.converter.Convert(ctx, req)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewConvertSuccessResponse(result))
}

func (h *ConvertHandler) errorResponse(c *gin.Context, err error) {
	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		appErr = utils.NewInternalError(err)
	}
	c.JSON(appErr.StatusCode, models.NewConvertErrorResponse(appErr.Message))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
