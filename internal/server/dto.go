package server

import "inkwell/internal/models"

// Request and response envelopes for the public API.

type userBody struct {
	User struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
		Bio      *string `json:"bio"`
		Image    *string `json:"image"`
	} `json:"user"`
}

type articleBody struct {
	Article struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Body        *string  `json:"body"`
		TagList     []string `json:"tagList"`
	} `json:"article"`
}

type commentBody struct {
	Comment struct {
		Body string `json:"body"`
	} `json:"comment"`
}

type authUser struct {
	Email    string  `json:"email"`
	Token    string  `json:"token"`
	Username string  `json:"username"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
}

type userResponse struct {
	User authUser `json:"user"`
}

type profileResponse struct {
	Profile *models.Profile `json:"profile"`
}

type articleResponse struct {
	Article *models.ArticleView `json:"article"`
}

type articlesResponse struct {
	Articles      []models.ArticleListView `json:"articles"`
	ArticlesCount int64                    `json:"articlesCount"`
}

type commentResponse struct {
	Comment *models.CommentView `json:"comment"`
}

type commentsResponse struct {
	Comments []models.CommentView `json:"comments"`
}

type tagsResponse struct {
	Tags []string `json:"tags"`
}

// newArticlesResponse keeps an empty page encoded as [] rather than null.
func newArticlesResponse(views []models.ArticleListView, count int64) articlesResponse {
	if views == nil {
		views = []models.ArticleListView{}
	}
	return articlesResponse{Articles: views, ArticlesCount: count}
}
