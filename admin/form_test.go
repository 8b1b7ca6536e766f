package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"inkwell/models"
)

func TestFormMode_String(t *testing.T) {
	assert.Equal(t, "create", ModeCreate.String())
	assert.Equal(t, "edit", ModeEdit.String())
}

func TestPostForm_ValidateOK(t *testing.T) {
	form := PostForm{
		Title:      " Hello ",
		Subtitle:   "World",
		AuthorName: "A",
		ImageURL:   "https://x.test/i.png",
		Body:       "<p>hi</p>\n",
	}

	assert.Nil(t, form.Validate())
	assert.Equal(t, "Hello", form.Title)
	assert.Equal(t, "<p>hi</p>", form.Body)
}

func TestPostForm_ValidateReportsEveryField(t *testing.T) {
	form := PostForm{ImageURL: "not-a-url"}

	errs := form.Validate()

	assert.Equal(t, FieldErrors{
		"title":       "This field is required.",
		"subtitle":    "This field is required.",
		"author_name": "This field is required.",
		"image_url":   "Invalid URL.",
		"body":        "This field is required.",
	}, errs)
}

func TestPostForm_ImageURL(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"https://x.test/i.png", true},
		{"http://example.com", true},
		{"HTTPS://EXAMPLE.COM/A.JPG", true},
		{"not-a-url", false},
		{"example.com/image.png", false},
		{"ftp://example.com/i.png", false},
		{"javascript:alert(1)", false},
		{"https://", false},
		{"http://localhost/x.png", false},
		{"http://intranet:8080/x.png", false},
		{"http://example.com:8080/x.png", true},
		{"http://203.0.113.7/x.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			form := PostForm{
				Title:      "t",
				Subtitle:   "s",
				AuthorName: "a",
				ImageURL:   tt.input,
				Body:       "b",
			}
			errs := form.Validate()
			if tt.valid {
				assert.Nil(t, errs)
			} else {
				assert.Equal(t, "Invalid URL.", errs["image_url"])
			}
		})
	}
}

func TestPostForm_FieldsRoundTrip(t *testing.T) {
	post := &models.BlogPost{
		ID:       3,
		Title:    "Hello",
		Subtitle: "World",
		Date:     "January, 01, 2024",
		Body:     "<p>hi</p>",
		Author:   "A",
		ImgURL:   "https://x.test/i.png",
	}

	form := formFromPost(post)

	assert.Equal(t, "A", form.AuthorName)
	assert.Equal(t, "https://x.test/i.png", form.ImageURL)
	assert.Equal(t, post.Fields(), form.Fields())
}
