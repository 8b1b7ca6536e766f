package models

// DateLayout is how a post's creation day is stored, e.g. "January, 01, 2024".
const DateLayout = "January, 02, 2006"

type BlogPost struct {
	ID       uint   `gorm:"primary_key;autoIncrement" json:"id"`
	Title    string `gorm:"size:250;unique;not null" json:"title"`
	Subtitle string `gorm:"size:250;not null" json:"subtitle"`
	Date     string `gorm:"size:250;not null" json:"date"` // set once on create
	Body     string `gorm:"type:text;not null" json:"body"` // raw HTML from the editor
	Author   string `gorm:"size:250;not null" json:"author"`
	ImgURL   string `gorm:"column:img_url;size:250;not null" json:"img_url"`
}

// PostFields are the columns an edit is allowed to replace.
type PostFields struct {
	Title    string
	Subtitle string
	Body     string
	Author   string
	ImgURL   string
}

// Fields returns the mutable part of the post.
func (p BlogPost) Fields() PostFields {
	return PostFields{
		Title:    p.Title,
		Subtitle: p.Subtitle,
		Body:     p.Body,
		Author:   p.Author,
		ImgURL:   p.ImgURL,
	}
}
