package server

import (
	"net/http"
	"strings"

	referencedomain "github.com/fieldline/fieldline/internal/reference/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListReferenceData(c *gin.Context) {
	data, err := s.referenceSvc.All(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}

type createReferenceItemRequest struct {
	Name string `json:"name"`
}

func (s *Server) CreateReferenceItem(c *gin.Context) {
	var req createReferenceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.referenceSvc.CreateItem(c.Request.Context(), referencedomain.CreateReferenceItemRequest{
		Kind: strings.TrimSpace(c.Param("kind")),
		Name: strings.TrimSpace(req.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": item})
}
