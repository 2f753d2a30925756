package models

// Genre is a movie genre embedded in a Movie.
type Genre struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Director describes the director of a Movie.
type Director struct {
	Name  string `json:"name"`
	Bio   string `json:"bio"`
	Birth string `json:"birth,omitempty"`
	Death string `json:"death,omitempty"`
}

// Movie represents a film in the catalog.
type Movie struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	ReleaseYear    string   `json:"releaseYear,omitempty"`
	Genre          Genre    `json:"genre"`
	Director       Director `json:"director"`
	ImagePath      string   `json:"imagePath,omitempty"`
	CriticRating   string   `json:"criticRating,omitempty"`
	AudienceRating string   `json:"audienceRating,omitempty"`
	Actors         []string `json:"actors"`
	Featured       bool     `json:"featured"`
}
