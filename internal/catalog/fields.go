package catalog

import (
	"github.com/5w1tchy/novelia-api/internal/apperr"
	"github.com/5w1tchy/novelia-api/internal/models"
	"github.com/5w1tchy/novelia-api/internal/validate"
)

const (
	maxTitle       = 200
	maxAuthor      = 200
	maxGenre       = 100
	maxDescription = 20000
)

func (f Fields) validated() (Fields, error) {
	var err error
	if f.Title, err = validate.RequireBounded("title", f.Title, 1, maxTitle); err != nil {
		return f, apperr.Validation(err.Error())
	}
	if f.Author, err = validate.RequireBounded("author", f.Author, 1, maxAuthor); err != nil {
		return f, apperr.Validation(err.Error())
	}
	if f.Genre, err = validate.RequireBounded("genre", f.Genre, 1, maxGenre); err != nil {
		return f, apperr.Validation(err.Error())
	}
	if f.Description, err = validate.RequireBounded("description", f.Description, 1, maxDescription); err != nil {
		return f, apperr.Validation(err.Error())
	}
	return f, nil
}

// applyTo validates the present fields and writes them into b.
func (p Patch) applyTo(b *models.Book) error {
	set := func(name string, v *string, max int, dst *string) error {
		if v == nil {
			return nil
		}
		s, err := validate.RequireBounded(name, *v, 1, max)
		if err != nil {
			return apperr.Validation(err.Error())
		}
		*dst = s
		return nil
	}
	if err := set("title", p.Title, maxTitle, &b.Title); err != nil {
		return err
	}
	if err := set("author", p.Author, maxAuthor, &b.Author); err != nil {
		return err
	}
	if err := set("genre", p.Genre, maxGenre, &b.Genre); err != nil {
		return err
	}
	return set("description", p.Description, maxDescription, &b.Description)
}
