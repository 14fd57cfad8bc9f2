package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avasilenko/scribe/internal/auth"
)

// PagesController renders the public static views.
type PagesController struct{}

func NewPagesController() *PagesController {
	return &PagesController{}
}

func (pc *PagesController) Landing(c *gin.Context) {
	c.HTML(http.StatusOK, "index", gin.H{
		"Title":         "Scribe",
		"Authenticated": auth.IsAuthenticated(c),
	})
}

func (pc *PagesController) PrivacyPolicy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy_policy", gin.H{
		"Title": "Privacy Policy",
	})
}

func (pc *PagesController) Terms(c *gin.Context) {
	c.HTML(http.StatusOK, "terms", gin.H{
		"Title": "Terms of Service",
	})
}
