package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/avasilenko/scribe/internal/auth"
	"github.com/avasilenko/scribe/internal/database/posts"
)

// PostsController handles the dashboard and post views. All of its
// routes sit behind the access guard; handlers can assume a resolved
// user in the context.
type PostsController struct {
	store *posts.Repository
}

func NewPostsController(store *posts.Repository) *PostsController {
	return &PostsController{store: store}
}

// Dashboard renders the authenticated landing view.
func (pc *PostsController) Dashboard(c *gin.Context) {
	count, err := pc.store.Count()
	if err != nil {
		log.Printf("failed to count posts: %v", err)
		c.String(http.StatusInternalServerError, "Something went wrong")
		return
	}

	c.HTML(http.StatusOK, "dashboard", gin.H{
		"Title":     "Dashboard",
		"Username":  auth.GetUsername(c),
		"PostCount": count,
	})
}

// CreatePage renders the post creation form.
func (pc *PostsController) CreatePage(c *gin.Context) {
	c.HTML(http.StatusOK, "create", gin.H{
		"Title":     "New Post",
		"CSRFToken": auth.GetCSRFToken(c),
		"Error":     c.Query("error"),
	})
}

// Create handles the post creation form submission.
func (pc *PostsController) Create(c *gin.Context) {
	title := c.PostForm("title")
	content := c.PostForm("content")

	if title == "" {
		c.Redirect(http.StatusFound, "/create?error="+urlQueryEscape("Title is required"))
		return
	}

	if _, err := pc.store.Create(title, content, auth.GetUserID(c)); err != nil {
		log.Printf("failed to create post: %v", err)
		c.String(http.StatusInternalServerError, "Something went wrong")
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

// ListPosts renders all posts in insertion order.
func (pc *PostsController) ListPosts(c *gin.Context) {
	all, err := pc.store.ListAll()
	if err != nil {
		log.Printf("failed to list posts: %v", err)
		c.String(http.StatusInternalServerError, "Something went wrong")
		return
	}

	c.HTML(http.StatusOK, "posts", gin.H{
		"Title": "Posts",
		"Posts": all,
	})
}

// ViewPost renders a single post looked up by id.
func (pc *PostsController) ViewPost(c *gin.Context) {
	idStr := c.Param("postId")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid post ID")
		return
	}

	post, err := pc.store.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, posts.ErrNotFound) {
			c.String(http.StatusNotFound, "Post not found")
			return
		}
		log.Printf("failed to load post %d: %v", id, err)
		c.String(http.StatusInternalServerError, "Something went wrong")
		return
	}

	c.HTML(http.StatusOK, "view_post", gin.H{
		"Title": post.Title,
		"Post":  post,
	})
}
