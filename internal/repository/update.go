package repository

import (
	"sort"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/values"
)

var errNoFieldsToUpdate = models.NewValidationError("no fields to update")

// patch collects only the columns a caller actually set.
type patch map[string]interface{}

func (p *patch) set(column string, value interface{}) {
	if *p == nil {
		*p = patch{}
	}
	(*p)[column] = value
}

// columns returns the set columns plus updated_at.
func (p patch) columns(now time.Time) map[string]interface{} {
	out := make(map[string]interface{}, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	out["updated_at"] = now
	return out
}

func (p patch) names() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ArticleUpdate is a partial article update. The zero value is empty.
type ArticleUpdate struct {
	fields patch
}

func (u *ArticleUpdate) SetTitle(v values.Title) *ArticleUpdate {
	u.fields.set("title", v.String())
	return u
}

func (u *ArticleUpdate) SetSlug(v values.Slug) *ArticleUpdate {
	u.fields.set("slug", v.String())
	return u
}

func (u *ArticleUpdate) SetDescription(v values.Description) *ArticleUpdate {
	u.fields.set("description", v.String())
	return u
}

func (u *ArticleUpdate) SetBody(v values.ArticleBody) *ArticleUpdate {
	u.fields.set("body", v.String())
	return u
}

// IsEmpty reports whether no field was set.
func (u *ArticleUpdate) IsEmpty() bool {
	return u == nil || len(u.fields) == 0
}

// Fields lists the set columns alphabetically.
func (u *ArticleUpdate) Fields() []string {
	if u == nil {
		return nil
	}
	return u.fields.names()
}

// UserUpdate is a partial user update. The zero value is empty.
type UserUpdate struct {
	fields patch
}

func (u *UserUpdate) SetEmail(v values.Email) *UserUpdate {
	u.fields.set("email", v.String())
	return u
}

func (u *UserUpdate) SetUsername(v values.Username) *UserUpdate {
	u.fields.set("username", v.String())
	return u
}

// SetPasswordHash stores an already hashed password.
func (u *UserUpdate) SetPasswordHash(hash string) *UserUpdate {
	u.fields.set("password_hash", hash)
	return u
}

// SetBio sets the bio; an empty bio clears it.
func (u *UserUpdate) SetBio(v values.Bio) *UserUpdate {
	if v.IsZero() {
		u.fields.set("bio", nil)
	} else {
		u.fields.set("bio", v.String())
	}
	return u
}

func (u *UserUpdate) SetImage(v values.Image) *UserUpdate {
	u.fields.set("image", v.String())
	return u
}

func (u *UserUpdate) IsEmpty() bool {
	return u == nil || len(u.fields) == 0
}

func (u *UserUpdate) Fields() []string {
	if u == nil {
		return nil
	}
	return u.fields.names()
}
