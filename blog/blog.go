package blog

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"inkwell/common"
	"inkwell/database"
	"inkwell/views"
)

// BlogModule serves the public pages: the post listing, post detail and the
// static about/contact pages.
type BlogModule struct {
	posts *database.PostStore
	pages map[string]staticPage
}

type staticPage struct {
	Title      string
	Subheading string
	Content    template.HTML
}

// markdown renderer for the static pages
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Linkify,
	),
)

func NewBlogModule(posts *database.PostStore) (*BlogModule, error) {
	b := &BlogModule{
		posts: posts,
		pages: make(map[string]staticPage),
	}

	for name, meta := range map[string]staticPage{
		"about":   {Title: "About Me", Subheading: "This is what I do."},
		"contact": {Title: "Contact Me", Subheading: "Have questions? I have answers."},
	} {
		src, err := views.Page(name)
		if err != nil {
			return nil, fmt.Errorf("load %s page: %w", name, err)
		}
		html, err := renderMarkdown(src)
		if err != nil {
			return nil, fmt.Errorf("render %s page: %w", name, err)
		}
		meta.Content = template.HTML(html)
		b.pages[name] = meta
	}

	return b, nil
}

func (b *BlogModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/", b.index)
	router.GET("/post/:id", b.post)
	router.GET("/about", b.page("about"))
	router.GET("/contact", b.page("contact"))
	router.GET("/healthz", b.health)
}

func (b *BlogModule) index(c *gin.Context) {
	posts, err := b.posts.ListAll(c.Request.Context())
	if err != nil {
		common.ServerError(c, err)
		return
	}

	common.Render(c, http.StatusOK, "index.html", gin.H{
		"posts": posts,
	})
}

func (b *BlogModule) post(c *gin.Context) {
	id, ok := common.ParsePostID(c.Param("id"))
	if !ok {
		common.NotFound(c, "Post not found")
		return
	}

	post, err := b.posts.GetByID(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		common.NotFound(c, "Post not found")
		return
	}
	if err != nil {
		common.ServerError(c, err)
		return
	}

	// the body is trusted editor output and is written unescaped
	common.Render(c, http.StatusOK, "post.html", gin.H{
		"title": post.Title,
		"post":  post,
		"body":  template.HTML(post.Body),
	})
}

func (b *BlogModule) page(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := b.pages[name]
		common.Render(c, http.StatusOK, "page.html", gin.H{
			"title":      p.Title,
			"subheading": p.Subheading,
			"content":    p.Content,
		})
	}
}

func (b *BlogModule) health(c *gin.Context) {
	if err := b.posts.Ping(c.Request.Context()); err != nil {
		c.String(http.StatusServiceUnavailable, "unavailable")
		return
	}
	c.String(http.StatusOK, "ok")
}

func renderMarkdown(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
