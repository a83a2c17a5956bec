package service

import (
	"errors"
	"testing"

	"github.com/anaeze/critica/data"
	"github.com/anaeze/critica/data/dto"
)

func TestUpdateTitle(t *testing.T) {
	t.Run("explicit empty category is a validation error", func(t *testing.T) {
		// An empty slug would otherwise null the category, which create
		// requires every title to have.
		repo := &stubRepo{title: &data.Title{
			ID:       3,
			Name:     "Alien",
			Year:     1979,
			Category: &data.Category{ID: 1, Name: "Movies", Slug: "movies"},
			Genres:   []data.Genre{{ID: 1, Name: "Horror", Slug: "horror"}},
		}}
		s := newTestService(repo)
		empty := ""
		_, err := s.UpdateTitle(3, dto.UpdateTitleRequestBody{Category: &empty})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("got %v, want a ValidationError", err)
		}
		if _, ok := vErr.Fields["category"]; !ok {
			t.Errorf("expected an error on the category field; got %v", vErr.Fields)
		}
	})

	t.Run("unknown title is a not-found", func(t *testing.T) {
		s := newTestService(&stubRepo{})
		name := "Aliens"
		_, err := s.UpdateTitle(3, dto.UpdateTitleRequestBody{Name: &name})
		if !errors.Is(err, ErrRecordNotFound) {
			t.Errorf("got %v, want ErrRecordNotFound", err)
		}
	})
}
