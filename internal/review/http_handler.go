package review

import (
	"errors"
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

type createReviewReq struct {
	TextReview *string `json:"text_review" validate:"required"`
	Rating     *int    `json:"rating" validate:"required,min=1,max=5"`
}

// Create handles POST /books/{book_id}/reviews/
// @Summary Review a book
// @Description Rate a book (1-5 stars) with a text review
// @Tags reviews
// @Accept json
// @Produce json
// @Param book_id path int true "Book ID"
// @Param request body createReviewReq true "Review"
// @Success 201 {object} Review
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books/{book_id}/reviews/ [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	bookID, details := httpx.PathInt64(r, "book_id")
	if len(details) > 0 {
		httpx.JSONValidationError(w, r, details)
		return
	}

	var req createReviewReq
	if details := httpx.DecodeJSON(r, &req); len(details) > 0 {
		httpx.JSONValidationError(w, r, details)
		return
	}

	created, err := h.service.AddReview(r.Context(), NewReview{
		BookID:     bookID,
		TextReview: *req.TextReview,
		Rating:     *req.Rating,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrBookNotFound):
			httpx.JSONNotFound(w, r, "Book not found")
		case errors.Is(err, ErrInvalidRating):
			httpx.JSONValidationError(w, r, []httpx.ErrorDetail{{Field: "rating", Message: err.Error()}})
		default:
			h.logger.Error("add review failed",
				zap.Int64("book_id", bookID),
				zap.Error(err),
				zap.String("request_id", httpx.RequestIDFrom(r)),
			)
			httpx.JSONInternalError(w, r)
		}
		return
	}

	httpx.JSONSuccessCreated(w, created)
}

// List handles GET /books/{book_id}/reviews/
// @Summary List reviews of a book
// @Tags reviews
// @Produce json
// @Param book_id path int true "Book ID"
// @Success 200 {array} Review
// @Failure 422 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books/{book_id}/reviews/ [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	bookID, details := httpx.PathInt64(r, "book_id")
	if len(details) > 0 {
		httpx.JSONValidationError(w, r, details)
		return
	}

	reviews, err := h.service.List(r.Context(), bookID)
	if err != nil {
		h.logger.Error("list reviews failed",
			zap.Int64("book_id", bookID),
			zap.Error(err),
			zap.String("request_id", httpx.RequestIDFrom(r)),
		)
		httpx.JSONInternalError(w, r)
		return
	}

	httpx.JSONSuccess(w, reviews)
}
