// Package values holds the validated value objects shared by request parsing,
// service commands and persistence.
package values

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError reports why a raw value was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// text is the shared representation of every string-backed value object.
type text struct {
	v string
}

func (t text) String() string { return t.v }

// IsZero reports whether the value was never constructed.
func (t text) IsZero() bool { return t.v == "" }

// Value implements driver.Valuer so value objects bind directly as query args.
func (t text) Value() (driver.Value, error) { return t.v, nil }

func nonBlank(field, raw string, max int) (text, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return text{}, invalid(field, "can't be blank")
	}
	if max > 0 && utf8.RuneCountInString(s) > max {
		return text{}, invalid(field, fmt.Sprintf("is too long (maximum is %d characters)", max))
	}
	return text{v: s}, nil
}

// Title is an article title.
type Title struct{ text }

// NewTitle validates an article title.
func NewTitle(raw string) (Title, error) {
	t, err := nonBlank("title", raw, 255)
	return Title{t}, err
}

// Description is an article summary.
type Description struct{ text }

func NewDescription(raw string) (Description, error) {
	t, err := nonBlank("description", raw, 0)
	return Description{t}, err
}

// ArticleBody is the full article text.
type ArticleBody struct{ text }

func NewArticleBody(raw string) (ArticleBody, error) {
	t, err := nonBlank("body", raw, 0)
	return ArticleBody{t}, err
}

// CommentBody is the text of a comment.
type CommentBody struct{ text }

func NewCommentBody(raw string) (CommentBody, error) {
	t, err := nonBlank("body", raw, 0)
	return CommentBody{t}, err
}

// TagName is a tag label.
type TagName struct{ text }

func NewTagName(raw string) (TagName, error) {
	t, err := nonBlank("tag", raw, 64)
	return TagName{t}, err
}

// NewTagNames validates a list of tags, dropping duplicates while keeping order.
func NewTagNames(raw []string) ([]TagName, error) {
	seen := make(map[string]struct{}, len(raw))
	out := make([]TagName, 0, len(raw))
	for _, r := range raw {
		tag, err := NewTagName(r)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[tag.v]; dup {
			continue
		}
		seen[tag.v] = struct{}{}
		out = append(out, tag)
	}
	return out, nil
}

// Slug is the URL-safe article identifier.
type Slug struct{ text }

func NewSlug(raw string) (Slug, error) {
	t, err := nonBlank("slug", raw, 255)
	return Slug{t}, err
}

// Username is a public user handle.
type Username struct{ text }

func NewUsername(raw string) (Username, error) {
	s := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(s)
	switch {
	case n == 0:
		return Username{}, invalid("username", "can't be blank")
	case n < 2:
		return Username{}, invalid("username", "is too short (minimum is 2 characters)")
	case n > 50:
		return Username{}, invalid("username", "is too long (maximum is 50 characters)")
	}
	return Username{text{v: s}}, nil
}

// Email is a login address.
type Email struct{ text }

func NewEmail(raw string) (Email, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Email{}, invalid("email", "can't be blank")
	}
	if len(s) > 254 {
		return Email{}, invalid("email", "is too long (maximum is 254 characters)")
	}
	if err := validate.Var(s, "email"); err != nil {
		return Email{}, invalid("email", "is invalid")
	}
	return Email{text{v: s}}, nil
}

// Bio is free-form profile text. An empty bio is valid.
type Bio struct{ text }

func NewBio(raw string) (Bio, error) {
	s := strings.TrimSpace(raw)
	if utf8.RuneCountInString(s) > 1000 {
		return Bio{}, invalid("bio", "is too long (maximum is 1000 characters)")
	}
	return Bio{text{v: s}}, nil
}

// Image is an absolute http(s) URL to an avatar.
type Image struct{ text }

func NewImage(raw string) (Image, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Image{}, invalid("image", "can't be blank")
	}
	if len(s) > 2048 {
		return Image{}, invalid("image", "is too long (maximum is 2048 characters)")
	}
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return Image{}, invalid("image", "must be an http or https URL")
	}
	if err := validate.Var(s, "url"); err != nil {
		return Image{}, invalid("image", "is not a valid URL")
	}
	return Image{text{v: s}}, nil
}

// Password is a plaintext password awaiting hashing. It is never trimmed.
type Password struct {
	v string
}

func NewPassword(raw string) (Password, error) {
	n := utf8.RuneCountInString(raw)
	switch {
	case n < 8:
		return Password{}, invalid("password", "is too short (minimum is 8 characters)")
	case n > 128:
		return Password{}, invalid("password", "is too long (maximum is 128 characters)")
	}
	return Password{v: raw}, nil
}

// Reveal returns the plaintext for hashing or comparison.
func (p Password) Reveal() string { return p.v }

func (Password) String() string { return "********" }

// IsZero reports whether the password was never constructed.
func (p Password) IsZero() bool { return p.v == "" }
