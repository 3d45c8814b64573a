package book

import (
	"net/http"

	"bookreview/internal/httpx"

	"go.uber.org/zap"
)

type HTTPHandler struct {
	service *Service
	logger  *zap.Logger
}

func NewHTTPHandler(service *Service, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

type createBookReq struct {
	Title           *string `json:"title" validate:"required,notblank"`
	Author          *string `json:"author" validate:"required"`
	PublicationYear *int    `json:"publication_year" validate:"required"`
}

// Create handles POST /books/
// @Summary Add a book
// @Tags books
// @Accept json
// @Produce json
// @Param request body createBookReq true "Book"
// @Success 201 {object} Book
// @Failure 422 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books/ [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookReq
	if details := httpx.DecodeJSON(r, &req); len(details) > 0 {
		httpx.JSONValidationError(w, r, details)
		return
	}

	created, err := h.service.AddBook(r.Context(), NewBook{
		Title:           *req.Title,
		Author:          *req.Author,
		PublicationYear: *req.PublicationYear,
	})
	if err != nil {
		h.logger.Error("add book failed", zap.Error(err), zap.String("request_id", httpx.RequestIDFrom(r)))
		httpx.JSONInternalError(w, r)
		return
	}

	httpx.JSONSuccessCreated(w, created)
}

// List handles GET /books/
// @Summary List books
// @Tags books
// @Produce json
// @Param author query string false "Filter by author"
// @Param publication_year query int false "Filter by publication year"
// @Success 200 {array} Book
// @Failure 422 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books/ [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	year, details := httpx.QueryInt(r, "publication_year")
	if len(details) > 0 {
		httpx.JSONValidationError(w, r, details)
		return
	}

	q := Query{
		Author:          httpx.QueryString(r, "author"),
		PublicationYear: year,
	}

	books, err := h.service.List(r.Context(), q)
	if err != nil {
		h.logger.Error("list books failed", zap.Error(err), zap.String("request_id", httpx.RequestIDFrom(r)))
		httpx.JSONInternalError(w, r)
		return
	}

	httpx.JSONSuccess(w, books)
}
