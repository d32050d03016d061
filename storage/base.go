package storage

// User is a named profile owning an independent movie collection.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Movie is a single entry in one user's collection. Year 0 means the
// release year could not be parsed from the metadata provider.
type Movie struct {
	ID        int64   `json:"id"`
	UserID    int64   `json:"user_id"`
	Title     string  `json:"title"`
	Year      int     `json:"year"`
	Rating    float64 `json:"rating"`
	PosterURL string  `json:"poster_url"`
}
