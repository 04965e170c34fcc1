package controllers

import (
	"capsule-desk-backend/search/repositories"
)

type SearchController struct {
	repo *repositories.SearchRepository
}

func NewSearchController(repo *repositories.SearchRepository) *SearchController {
	return &SearchController{repo: repo}
}
