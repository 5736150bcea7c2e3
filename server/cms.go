package server

import (
	"errors"
	"net/http"

	"github.com/example/tmstore/pkg/cms"
	"github.com/example/tmstore/pkg/contact"
	"github.com/gin-gonic/gin"
)

func (s *Server) listPosts(c *gin.Context) {
	page, limit := parsePagination(c)
	offset := (page - 1) * limit

	posts, total, err := s.deps.CMS.ListPosts(c.Request.Context(), offset, limit)
	if err != nil {
		serverError(c, s.logger, err)
		return
	}
	respondPage(c, posts, newMeta(total, page, limit))
}

func (s *Server) getPost(c *gin.Context) {
	post, err := s.deps.CMS.GetPostBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, cms.ErrPostNotFound) {
			clientError(c, http.StatusNotFound, "blog post not found")
			return
		}
		serverError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, post)
}

func (s *Server) listPages(c *gin.Context) {
	pages, err := s.deps.CMS.ListPages(c.Request.Context())
	if err != nil {
		serverError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, pages)
}

func (s *Server) getPage(c *gin.Context) {
	page, err := s.deps.CMS.GetPageBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, cms.ErrPageNotFound) {
			clientError(c, http.StatusNotFound, "page not found")
			return
		}
		serverError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, page)
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (s *Server) createContact(c *gin.Context) {
	var req contactRequest
	if err := c.BindJSON(&req); err != nil {
		clientError(c, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := s.deps.Contacts.Create(c.Request.Context(), req.Name, req.Email, req.Message)
	if err != nil {
		var ve *contact.ValidationError
		if errors.As(err, &ve) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":  ve.Error(),
				"fields": ve.Fields,
			})
			return
		}
		serverError(c, s.logger, err)
		return
	}
	respond(c, http.StatusCreated, msg)
}
