package admin

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog/log"

	"inkwell/common"
	"inkwell/database"
	"inkwell/models"
)

const (
	formErrorKey          = "_form"
	duplicateTitleMessage = "A post with this title already exists."
)

// AdminModule serves the post editor: create, edit and delete. There is no
// login; anyone who can reach these routes may use them.
type AdminModule struct {
	posts *database.PostStore
	now   func() time.Time
}

func NewAdminModule(posts *database.PostStore) *AdminModule {
	return &AdminModule{
		posts: posts,
		now:   time.Now,
	}
}

func (a *AdminModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/add-new-post", a.newPost)
	router.POST("/add-new-post", a.savePost)
	router.GET("/edit-post/:id", a.editPost)
	router.POST("/edit-post/:id", a.updatePost)
	router.GET("/delete", a.deletePost)
}

func (a *AdminModule) renderForm(c *gin.Context, status int, mode FormMode, action string, form PostForm, errs FieldErrors) {
	if errs == nil {
		errs = FieldErrors{}
	}
	title := "New Post"
	if mode == ModeEdit {
		title = "Edit Post"
	}

	common.Render(c, status, "make-post.html", gin.H{
		"title":     title,
		"mode":      mode.String(),
		"isEdit":    mode == ModeEdit,
		"action":    action,
		"form":      form,
		"errors":    errs,
		"formError": errs[formErrorKey],
	})
}

func (a *AdminModule) newPost(c *gin.Context) {
	a.renderForm(c, http.StatusOK, ModeCreate, "/add-new-post", PostForm{}, nil)
}

func (a *AdminModule) savePost(c *gin.Context) {
	const action = "/add-new-post"

	var form PostForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		a.renderForm(c, http.StatusBadRequest, ModeCreate, action, form, FieldErrors{
			formErrorKey: "The form could not be read. Please try again.",
		})
		return
	}

	if errs := form.Validate(); errs != nil {
		a.renderForm(c, http.StatusBadRequest, ModeCreate, action, form, errs)
		return
	}

	fields := form.Fields()
	post := models.BlogPost{
		Title:    fields.Title,
		Subtitle: fields.Subtitle,
		Date:     a.now().Format(models.DateLayout),
		Body:     fields.Body,
		Author:   fields.Author,
		ImgURL:   fields.ImgURL,
	}

	id, err := a.posts.Create(c.Request.Context(), post)
	if errors.Is(err, database.ErrConstraintViolation) {
		a.renderForm(c, http.StatusBadRequest, ModeCreate, action, form, FieldErrors{
			"title": duplicateTitleMessage,
		})
		return
	}
	if err != nil {
		common.ServerError(c, err)
		return
	}

	log.Info().
		Uint("post_id", id).
		Str("request_id", c.GetString(common.RequestIDKey)).
		Msg("post created")
	common.AddFlash(c, "Post created.")
	c.Redirect(http.StatusSeeOther, "/")
}

func (a *AdminModule) editPost(c *gin.Context) {
	id, ok := common.ParsePostID(c.Param("id"))
	if !ok {
		common.NotFound(c, "Post not found")
		return
	}

	post, err := a.posts.GetByID(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		common.NotFound(c, "Post not found")
		return
	}
	if err != nil {
		common.ServerError(c, err)
		return
	}

	a.renderForm(c, http.StatusOK, ModeEdit, editAction(id), formFromPost(post), nil)
}

func (a *AdminModule) updatePost(c *gin.Context) {
	id, ok := common.ParsePostID(c.Param("id"))
	if !ok {
		common.NotFound(c, "Post not found")
		return
	}
	action := editAction(id)

	if _, err := a.posts.GetByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			common.NotFound(c, "Post not found")
			return
		}
		common.ServerError(c, err)
		return
	}

	var form PostForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		a.renderForm(c, http.StatusBadRequest, ModeEdit, action, form, FieldErrors{
			formErrorKey: "The form could not be read. Please try again.",
		})
		return
	}

	if errs := form.Validate(); errs != nil {
		a.renderForm(c, http.StatusBadRequest, ModeEdit, action, form, errs)
		return
	}

	err := a.posts.Update(c.Request.Context(), id, form.Fields())
	switch {
	case errors.Is(err, database.ErrNotFound):
		common.NotFound(c, "Post not found")
		return
	case errors.Is(err, database.ErrConstraintViolation):
		a.renderForm(c, http.StatusBadRequest, ModeEdit, action, form, FieldErrors{
			"title": duplicateTitleMessage,
		})
		return
	case err != nil:
		common.ServerError(c, err)
		return
	}

	log.Info().
		Uint("post_id", id).
		Str("request_id", c.GetString(common.RequestIDKey)).
		Msg("post updated")
	common.AddFlash(c, "Post updated.")
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/post/%d", id))
}

func (a *AdminModule) deletePost(c *gin.Context) {
	id, ok := common.ParsePostID(c.Query("post_id"))
	if !ok {
		common.NotFound(c, "Post not found")
		return
	}

	err := a.posts.Delete(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		common.NotFound(c, "Post not found")
		return
	}
	if err != nil {
		common.ServerError(c, err)
		return
	}

	log.Info().
		Uint("post_id", id).
		Str("request_id", c.GetString(common.RequestIDKey)).
		Msg("post deleted")
	common.AddFlash(c, "Post deleted.")
	c.Redirect(http.StatusSeeOther, "/")
}

func editAction(id uint) string {
	return fmt.Sprintf("/edit-post/%d", id)
}
