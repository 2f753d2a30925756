package services

import (
	"context"
	"errors"
	"testing"

	"github.com/myflix/myflix-be/internal/models"
)

func catalogFixture(t *testing.T, svc *MovieService) []models.Movie {
	t.Helper()

	seed := []models.Movie{
		{
			Title:       "Alien",
			Description: "The crew of a commercial spacecraft encounters a deadly lifeform.",
			ReleaseYear: "1979",
			Genre:       models.Genre{Name: "Horror", Description: "Fear as entertainment."},
			Director:    models.Director{Name: "Ridley Scott", Bio: "English filmmaker.", Birth: "1937"},
			Actors:      []string{"Sigourney Weaver", "Tom Skerritt"},
			Featured:    true,
		},
		{
			Title:       "Blade Runner",
			Description: "A blade runner must pursue four replicants.",
			ReleaseYear: "1982",
			Genre:       models.Genre{Name: "Science Fiction", Description: "Speculative futures."},
			Director:    models.Director{Name: "Ridley Scott", Bio: "English filmmaker.", Birth: "1937"},
			Actors:      []string{"Harrison Ford"},
		},
	}

	created := make([]models.Movie, 0, len(seed))
	for _, movie := range seed {
		m, err := svc.CreateMovie(context.Background(), movie)
		if err != nil {
			t.Fatalf("CreateMovie(%s) error: %v", movie.Title, err)
		}
		created = append(created, m)
	}
	return created
}

func TestGetAllMovies(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewMovieService(db)
	catalogFixture(t, svc)

	movies, err := svc.GetAllMovies(context.Background())
	if err != nil {
		t.Fatalf("GetAllMovies error: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("got %d movies, want 2", len(movies))
	}
	// Ordered by title.
	if movies[0].Title != "Alien" || movies[1].Title != "Blade Runner" {
		t.Fatalf("unexpected order: %q, %q", movies[0].Title, movies[1].Title)
	}
}

func TestGetMovieByTitle(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewMovieService(db)
	catalogFixture(t, svc)

	movie, err := svc.GetMovieByTitle(context.Background(), "Alien")
	if err != nil {
		t.Fatalf("GetMovieByTitle error: %v", err)
	}
	if movie.Genre.Name != "Horror" {
		t.Fatalf("genre = %q, want Horror", movie.Genre.Name)
	}
	if len(movie.Actors) != 2 || movie.Actors[0] != "Sigourney Weaver" {
		t.Fatalf("actors = %v", movie.Actors)
	}
	if !movie.Featured {
		t.Fatal("expected featured flag to survive the roundtrip")
	}

	if _, err := svc.GetMovieByTitle(context.Background(), "No Such Film"); !errors.Is(err, models.ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound, got %v", err)
	}
}

func TestGetGenreByName(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewMovieService(db)
	catalogFixture(t, svc)

	genre, err := svc.GetGenreByName(context.Background(), "Science Fiction")
	if err != nil {
		t.Fatalf("GetGenreByName error: %v", err)
	}
	if genre.Description != "Speculative futures." {
		t.Fatalf("description = %q", genre.Description)
	}

	if _, err := svc.GetGenreByName(context.Background(), "Western"); !errors.Is(err, models.ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound, got %v", err)
	}
}

func TestGetDirectorByName(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewMovieService(db)
	catalogFixture(t, svc)

	director, err := svc.GetDirectorByName(context.Background(), "Ridley Scott")
	if err != nil {
		t.Fatalf("GetDirectorByName error: %v", err)
	}
	if director.Birth != "1937" {
		t.Fatalf("birth = %q, want 1937", director.Birth)
	}

	if _, err := svc.GetDirectorByName(context.Background(), "Nobody"); !errors.Is(err, models.ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound, got %v", err)
	}
}
