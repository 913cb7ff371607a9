package api

import (
	"github.com/rpupo63/devsearch-backend/media"
	"github.com/rpupo63/devsearch-backend/models"
	"github.com/rpupo63/devsearch-backend/pagination"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	userHandler    userHandler
	skillHandler   skillHandler
	messageHandler messageHandler
	projectHandler projectHandler
	tagHandler     tagHandler
	reviewHandler  reviewHandler
	healthHandler  healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
}

// ValidationResponse carries every failed field at once
type ValidationResponse struct {
	Errors map[string][]string `json:"errors"`
}

// profileResponse is a profile with its image resolved to a URL
type profileResponse struct {
	models.Profile
	ProfileImageURL string `json:"profile_image_url"`
}

func newProfileResponse(p models.Profile, images *media.Ingestor) profileResponse {
	return profileResponse{Profile: p, ProfileImageURL: images.URL(p.ProfileImage)}
}

type profilePage struct {
	Profiles  []profileResponse    `json:"profiles"`
	Paginator pagination.Paginator `json:"paginator"`
}

// projectResponse is a project with its image resolved to a URL
type projectResponse struct {
	models.Project
	FeaturedImageURL string `json:"featured_image_url"`
}

func newProjectResponse(p models.Project, images *media.Ingestor) projectResponse {
	if p.Tags == nil {
		p.Tags = []models.Tag{}
	}
	return projectResponse{Project: p, FeaturedImageURL: images.URL(p.FeaturedImage)}
}

type projectPage struct {
	Projects  []projectResponse    `json:"projects"`
	Paginator pagination.Paginator `json:"paginator"`
}

// projectDetail adds the first page of reviews to a project
type projectDetail struct {
	projectResponse
	Reviews   []models.Review      `json:"reviews"`
	Paginator pagination.Paginator `json:"reviews_paginator"`
}

type reviewPage struct {
	Reviews   []models.Review      `json:"reviews"`
	Paginator pagination.Paginator `json:"paginator"`
}

type inboxResponse struct {
	Messages []models.Message `json:"messages"`
	Unread   int              `json:"unread"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tagRequest struct {
	Name      string `json:"name"`
	ProjectID string `json:"project_id"`
}

type reviewRequest struct {
	ProjectID string             `json:"project_id"`
	Value     models.ReviewValue `json:"value"`
	Body      *string            `json:"body"`
}

type messageRequest struct {
	RecipientID string `json:"recipient_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
