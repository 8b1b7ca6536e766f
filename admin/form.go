package admin

import (
	"errors"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"inkwell/models"
)

// FormMode tells the post form template whether it is creating or editing.
type FormMode int

const (
	ModeCreate FormMode = iota
	ModeEdit
)

func (m FormMode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// PostForm is the submitted post form. Field names match the HTML inputs.
type PostForm struct {
	Title      string `form:"title" validate:"required,max=250"`
	Subtitle   string `form:"subtitle" validate:"required,max=250"`
	AuthorName string `form:"author_name" validate:"required,max=250"`
	ImageURL   string `form:"image_url" validate:"required,http_url,url_host,max=250"`
	Body       string `form:"body" validate:"required"`
}

// FieldErrors maps an input name to the message shown under it.
type FieldErrors map[string]string

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("url_host", func(fl validator.FieldLevel) bool {
		return hasPublicHost(v, fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// hasPublicHost requires the URL's host to be an IP or a name with a
// top-level domain, so "http://localhost/x.png" is rejected.
func hasPublicHost(v *validator.Validate, raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return v.Var(u.Hostname(), "fqdn|ip") == nil
}

func formFromPost(post *models.BlogPost) PostForm {
	return PostForm{
		Title:      post.Title,
		Subtitle:   post.Subtitle,
		AuthorName: post.Author,
		ImageURL:   post.ImgURL,
		Body:       post.Body,
	}
}

func (f *PostForm) normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Subtitle = strings.TrimSpace(f.Subtitle)
	f.AuthorName = strings.TrimSpace(f.AuthorName)
	f.ImageURL = strings.TrimSpace(f.ImageURL)
	f.Body = strings.TrimSpace(f.Body)
}

// Validate trims the form and returns one message per invalid field, or nil.
func (f *PostForm) Validate() FieldErrors {
	f.normalize()

	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_form": err.Error()}
	}

	errs := FieldErrors{}
	for _, fe := range verrs {
		if _, seen := errs[fe.Field()]; seen {
			continue
		}
		errs[fe.Field()] = messageFor(fe)
	}
	return errs
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "http_url", "url_host":
		return "Invalid URL."
	case "max":
		return "Field cannot be longer than " + fe.Param() + " characters."
	}
	return "Invalid value."
}

// Fields converts a validated form into the columns the store writes.
func (f PostForm) Fields() models.PostFields {
	return models.PostFields{
		Title:    f.Title,
		Subtitle: f.Subtitle,
		Body:     f.Body,
		Author:   f.AuthorName,
		ImgURL:   f.ImageURL,
	}
}
