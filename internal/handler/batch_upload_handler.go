package handler

import (
	"errors"
	"io"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gradex-go-api/internal/dto"
	"github.com/noah-isme/gradex-go-api/internal/service"
	"github.com/noah-isme/gradex-go-api/internal/utils"
)

// BatchUploadHandler accepts multi-file answer-sheet uploads for an exam.
type BatchUploadHandler struct {
	service service.BatchIngestService
	logger  zerolog.Logger
}

// NewBatchUploadHandler builds a batch upload handler instance.
func NewBatchUploadHandler(service service.BatchIngestService, logger zerolog.Logger) *BatchUploadHandler {
	return &BatchUploadHandler{
		service: service,
		logger:  logger.With().Str("component", "batch_upload_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. Extra
// middlewares run before the ingest handler.
func (h *BatchUploadHandler) Register(router fiber.Router, middlewares ...fiber.Handler) {
	handlers := append(middlewares, h.ingest)
	router.Post("/:id/submissions/batch", handlers...)
}

func (h *BatchUploadHandler) ingest(c *fiber.Ctx) error {
	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	form, err := c.MultipartForm()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "multipart form is required")
	}

	files, unreadable := collectBatchFiles(form.File["files"])

	result, err := h.service.Ingest(c.Context(), actorFromContext(c), examID, files)
	if err != nil {
		// A batch where every part failed to read is still a processed
		// batch, not an empty one.
		if errors.Is(err, service.ErrEmptyBatch) && len(unreadable) > 0 {
			result = dto.BatchIngestResponse{
				Results: []dto.BatchFileResult{},
				Errors:  []dto.BatchFileError{},
			}
		} else {
			return h.handleError(c, err)
		}
	}

	result.Failed += len(unreadable)
	result.Errors = append(result.Errors, unreadable...)

	return utils.SendSuccess(c, "batch processed", result)
}

// collectBatchFiles reads every multipart part, isolating parts that
// cannot be opened or read as per-file errors instead of failing the
// whole batch.
func collectBatchFiles(headers []*multipart.FileHeader) ([]service.BatchFile, []dto.BatchFileError) {
	files := make([]service.BatchFile, 0, len(headers))
	var unreadable []dto.BatchFileError
	for _, header := range headers {
		file, err := readBatchFile(header)
		if err != nil {
			unreadable = append(unreadable, dto.BatchFileError{Filename: header.Filename, Error: err.Error()})
			continue
		}
		files = append(files, file)
	}

	return files, unreadable
}

func readBatchFile(header *multipart.FileHeader) (service.BatchFile, error) {
	file, err := header.Open()
	if err != nil {
		return service.BatchFile{}, errors.New("could not read uploaded file " + header.Filename)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return service.BatchFile{}, errors.New("could not read uploaded file " + header.Filename)
	}

	return service.BatchFile{
		Name:        header.Filename,
		Content:     content,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}, nil
}

func (h *BatchUploadHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "you do not own this exam")
	case errors.Is(err, service.ErrExamNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "exam not found")
	case errors.Is(err, service.ErrInstructorNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "instructor profile not found")
	case errors.Is(err, service.ErrEmptyBatch):
		return utils.SendError(c, fiber.StatusBadRequest, "at least one file is required")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
