package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/myflix/myflix-be/internal/models"
)

// MovieServiceProvider defines the interface for the movie catalog.
type MovieServiceProvider interface {
	GetAllMovies(ctx context.Context) ([]models.Movie, error)
	GetMovieByTitle(ctx context.Context, title string) (models.Movie, error)
	GetGenreByName(ctx context.Context, name string) (models.Genre, error)
	GetDirectorByName(ctx context.Context, name string) (models.Director, error)
	CreateMovie(ctx context.Context, movie models.Movie) (models.Movie, error)
}

// MovieService provides read access to the movie catalog.
type MovieService struct {
	db *sql.DB
}

// NewMovieService creates a new MovieService.
func NewMovieService(db *sql.DB) *MovieService {
	return &MovieService{db: db}
}

const movieColumns = `id, title, description, release_year,
	genre_name, genre_description,
	director_name, director_bio, director_birth, director_death,
	image_path, critic_rating, audience_rating, actors_json, featured`

// GetAllMovies returns every movie in the catalog.
func (s *MovieService) GetAllMovies(ctx context.Context) ([]models.Movie, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+movieColumns+" FROM movies ORDER BY title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}
	return movies, rows.Err()
}

// GetMovieByTitle returns the movie with the exact given title.
func (s *MovieService) GetMovieByTitle(ctx context.Context, title string) (models.Movie, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+movieColumns+" FROM movies WHERE title = ?", title)
	movie, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Movie{}, models.ErrMovieNotFound
		}
		return models.Movie{}, err
	}
	return movie, nil
}

// GetGenreByName returns the genre details from any movie carrying it.
func (s *MovieService) GetGenreByName(ctx context.Context, name string) (models.Genre, error) {
	var genre models.Genre
	row := s.db.QueryRowContext(ctx,
		"SELECT genre_name, genre_description FROM movies WHERE genre_name = ? LIMIT 1", name)
	if err := row.Scan(&genre.Name, &genre.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Genre{}, models.ErrMovieNotFound
		}
		return models.Genre{}, err
	}
	return genre, nil
}

// GetDirectorByName returns the director details from any movie they directed.
func (s *MovieService) GetDirectorByName(ctx context.Context, name string) (models.Director, error) {
	var director models.Director
	row := s.db.QueryRowContext(ctx,
		"SELECT director_name, director_bio, director_birth, director_death FROM movies WHERE director_name = ? LIMIT 1", name)
	if err := row.Scan(&director.Name, &director.Bio, &director.Birth, &director.Death); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Director{}, models.ErrMovieNotFound
		}
		return models.Director{}, err
	}
	return director, nil
}

// CreateMovie inserts a movie into the catalog, assigning it an ID.
func (s *MovieService) CreateMovie(ctx context.Context, movie models.Movie) (models.Movie, error) {
	if movie.ID == "" {
		movie.ID = uuid.New().String()
	}

	actorsJSON, err := json.Marshal(movie.Actors)
	if err != nil {
		return models.Movie{}, fmt.Errorf("failed to encode actors: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO movies(`+movieColumns+`)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		movie.ID, movie.Title, movie.Description, movie.ReleaseYear,
		movie.Genre.Name, movie.Genre.Description,
		movie.Director.Name, movie.Director.Bio, movie.Director.Birth, movie.Director.Death,
		movie.ImagePath, movie.CriticRating, movie.AudienceRating, string(actorsJSON), movie.Featured)
	if err != nil {
		return models.Movie{}, err
	}
	return movie, nil
}

// scanMovie reads one movie row, decoding the JSON actor list.
func scanMovie(row interface{ Scan(dest ...any) error }) (models.Movie, error) {
	var movie models.Movie
	var actorsJSON sql.NullString
	err := row.Scan(
		&movie.ID, &movie.Title, &movie.Description, &movie.ReleaseYear,
		&movie.Genre.Name, &movie.Genre.Description,
		&movie.Director.Name, &movie.Director.Bio, &movie.Director.Birth, &movie.Director.Death,
		&movie.ImagePath, &movie.CriticRating, &movie.AudienceRating, &actorsJSON, &movie.Featured)
	if err != nil {
		return models.Movie{}, err
	}

	movie.Actors = []string{}
	if actorsJSON.Valid && actorsJSON.String != "" {
		if err := json.Unmarshal([]byte(actorsJSON.String), &movie.Actors); err != nil {
			return models.Movie{}, fmt.Errorf("failed to decode actors for %s: %w", movie.ID, err)
		}
	}
	return movie, nil
}
