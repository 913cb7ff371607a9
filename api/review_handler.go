package api

import (
	"net/http"

	"github.com/rpupo63/devsearch-backend/pagination"
	"github.com/rpupo63/devsearch-backend/services"
	"github.com/rpupo63/devsearch-backend/validation"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type reviewHandler struct {
	responder Responder
	logger    zerolog.Logger
	reviews   *services.ReviewService
}

func newReviewHandler(reviews *services.ReviewService) reviewHandler {
	logger := log.With().Str("handlerName", "reviewHandler").Logger()

	return reviewHandler{
		responder: NewResponder(logger),
		logger:    logger,
		reviews:   reviews,
	}
}

// @Router /api/reviews-api/ [get]
func (h reviewHandler) getProjectReviews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := queryID(r, "project_id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		page, size := pageParams(r, pagination.DefaultReviewSize)

		reviews, paginator, err := h.reviews.ForProject(r.Context(), projectID, page, size)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, reviewPage{Reviews: reviews, Paginator: paginator})
	}
}

// getMyReview returns the caller's review of a project
// @Router /api/reviews-api/mine [get]
func (h reviewHandler) getMyReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := queryID(r, "project_id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		review, err := h.reviews.Mine(r.Context(), ctxGetProfileID(r.Context()), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, review)
	}
}

// createReview records a vote and recomputes the project's ratio
// @Router /api/reviews-api/ [post]
func (h reviewHandler) createReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reviewRequest
		if err := decodeJSON(r, &req, "review"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		projectID, err := parseID(req.ProjectID, "project_id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		in := validation.ReviewInput{Value: req.Value, Body: req.Body}
		review, err := h.reviews.Create(r.Context(), ctxGetProfileID(r.Context()), projectID, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteCreated(w, review)
	}
}

// @Router /api/reviews-api/{reviewID} [put]
func (h reviewHandler) updateReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "reviewID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var update validation.ReviewUpdate
		if err := decodeJSON(r, &update, "review"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.reviews.Update(r.Context(), ctxGetProfileID(r.Context()), id, update); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteNoContent(w)
	}
}

// @Router /api/reviews-api/{reviewID} [delete]
func (h reviewHandler) deleteReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "reviewID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.reviews.Delete(r.Context(), ctxGetProfileID(r.Context()), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteNoContent(w)
	}
}
