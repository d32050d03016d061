// Package app drives the interactive menu loop. A Session carries the
// active user explicitly; handlers never touch global state.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"movieshelf/omdb"
	"movieshelf/storage"
	"movieshelf/website"
)

type Session struct {
	store   storage.StorageInterface
	fetcher omdb.Client
	site    *website.Generator
	in      *bufio.Scanner
	out     io.Writer

	// user is nil while no user is selected; every handler requires one.
	user *storage.User
}

func NewSession(store storage.StorageInterface, fetcher omdb.Client, site *website.Generator, in io.Reader, out io.Writer) *Session {
	return &Session{
		store:   store,
		fetcher: fetcher,
		site:    site,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run executes the menu loop until the exit choice or end of input.
// Handler failures are reported to the session writer and never stop the loop.
func (s *Session) Run(ctx context.Context) error {
	for {
		if s.user == nil {
			if !s.selectUser() {
				return nil
			}
		}

		s.printMenu()
		choice, ok := s.readLine("Choose an option (0-10): ")
		if !ok {
			return nil
		}

		cmd := parseCommand(choice)
		if cmd == cmdExit {
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		}
		s.dispatch(ctx, cmd)
	}
}

func (s *Session) dispatch(ctx context.Context, cmd command) {
	switch cmd {
	case cmdListMovies:
		s.handleListMovies()
	case cmdAddMovie:
		s.handleAddMovie(ctx)
	case cmdDeleteMovie:
		s.handleDeleteMovie()
	case cmdUpdateMovie:
		s.handleUpdateMovie()
	case cmdStats:
		s.handleStats()
	case cmdRandomMovie:
		s.handleRandomMovie()
	case cmdSearchMovie:
		s.handleSearchMovie()
	case cmdSortedByRating:
		s.handleSortedByRating()
	case cmdGenerateWebsite:
		s.handleGenerateWebsite()
	case cmdSwitchUser:
		// Back to the no-user-selected state; Run forces re-selection.
		s.user = nil
	default:
		fmt.Fprintln(s.out, "Invalid choice. Please select 0-10.")
	}
}

// selectUser prompts until a user is chosen. Returns false on end of input.
func (s *Session) selectUser() bool {
	users, err := s.store.ListUsers()
	if err != nil {
		fmt.Fprintf(s.out, "Error: could not list users (%v).\n", err)
	} else if len(users) > 0 {
		fmt.Fprintln(s.out, "\nKnown users:")
		for _, user := range users {
			fmt.Fprintf(s.out, "- %s\n", user.Name)
		}
	}

	for {
		name, ok := s.readLine("Enter user name: ")
		if !ok {
			return false
		}

		user, err := s.store.GetOrCreateUser(name)
		if err != nil {
			if errors.Is(err, storage.ErrValidation) {
				fmt.Fprintln(s.out, "Error: User name cannot be empty.")
			} else {
				fmt.Fprintf(s.out, "Error: could not select user (%v).\n", err)
			}
			continue
		}

		s.user = &user
		fmt.Fprintf(s.out, "Welcome, %s!\n", user.Name)
		return true
	}
}

func (s *Session) printMenu() {
	fmt.Fprintf(s.out, "\n== Movie Database (%s) ==\n", s.user.Name)
	fmt.Fprintln(s.out, "0. Exit")
	fmt.Fprintln(s.out, "1. List movies")
	fmt.Fprintln(s.out, "2. Add movie (from OMDb)")
	fmt.Fprintln(s.out, "3. Delete movie")
	fmt.Fprintln(s.out, "4. Update movie rating")
	fmt.Fprintln(s.out, "5. Stats")
	fmt.Fprintln(s.out, "6. Random movie")
	fmt.Fprintln(s.out, "7. Search movie")
	fmt.Fprintln(s.out, "8. Movies sorted by rating (desc)")
	fmt.Fprintln(s.out, "9. Generate website")
	fmt.Fprintln(s.out, "10. Switch user")
}

func (s *Session) handleListMovies() {
	movies, ok := s.loadMovies()
	if !ok {
		return
	}

	fmt.Fprintf(s.out, "\n%d movies in total\n", len(movies))
	for _, movie := range movies {
		fmt.Fprintf(s.out, "%s (%d): %.1f\n", movie.Title, movie.Year, movie.Rating)
	}
}

func (s *Session) handleAddMovie(ctx context.Context) {
	title, ok := s.readLine("Enter movie name: ")
	if !ok || !s.requireInput(title, "Title") {
		return
	}

	result, err := s.fetcher.Fetch(ctx, title)
	if err != nil {
		if errors.Is(err, omdb.ErrNoAPIKey) {
			fmt.Fprintln(s.out, "Error: OMDb API key not set. Please set OMDB_API_KEY env variable.")
		} else {
			fmt.Fprintf(s.out, "Error: %v.\n", err)
		}
		return
	}

	if result.Year == 0 {
		fmt.Fprintln(s.out, "Warning: could not parse year, storing 0.")
	}

	err = s.store.AddMovie(storage.Movie{
		UserID:    s.user.ID,
		Title:     result.Title,
		Year:      result.Year,
		Rating:    result.Rating,
		PosterURL: result.PosterURL,
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			fmt.Fprintf(s.out, "Movie '%s' already exists.\n", result.Title)
		} else {
			fmt.Fprintf(s.out, "Error: %v.\n", err)
		}
		return
	}

	fmt.Fprintf(s.out, "Movie '%s' added successfully.\n", result.Title)
}

func (s *Session) handleDeleteMovie() {
	title, ok := s.readLine("Enter movie name to delete: ")
	if !ok || !s.requireInput(title, "Title") {
		return
	}

	if err := s.store.DeleteMovie(title, s.user.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Fprintf(s.out, "Movie '%s' not found.\n", title)
		} else {
			fmt.Fprintf(s.out, "Error: %v.\n", err)
		}
		return
	}

	fmt.Fprintf(s.out, "Movie '%s' deleted successfully.\n", title)
}

func (s *Session) handleUpdateMovie() {
	title, ok := s.readLine("Enter movie name to update: ")
	if !ok || !s.requireInput(title, "Title") {
		return
	}

	raw, ok := s.readLine("Enter new rating (1-10): ")
	if !ok {
		return
	}
	rating, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		fmt.Fprintln(s.out, "Invalid rating (expected a number).")
		return
	}

	if err := s.store.UpdateMovieRating(title, rating, s.user.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Fprintf(s.out, "Movie '%s' not found.\n", title)
		} else {
			fmt.Fprintf(s.out, "Error: %v.\n", err)
		}
		return
	}

	fmt.Fprintf(s.out, "Movie '%s' updated successfully.\n", title)
}

func (s *Session) handleStats() {
	movies, ok := s.loadMovies()
	if !ok {
		return
	}

	ratings := make([]float64, len(movies))
	var sum float64
	for i, movie := range movies {
		ratings[i] = movie.Rating
		sum += movie.Rating
	}
	sort.Float64s(ratings)

	avg := sum / float64(len(ratings))
	median := ratings[len(ratings)/2]
	if len(ratings)%2 == 0 {
		median = (ratings[len(ratings)/2-1] + ratings[len(ratings)/2]) / 2
	}
	maxRating := ratings[len(ratings)-1]
	minRating := ratings[0]

	var best, worst []string
	for _, movie := range movies {
		if movie.Rating == maxRating {
			best = append(best, movie.Title)
		}
		if movie.Rating == minRating {
			worst = append(worst, movie.Title)
		}
	}

	fmt.Fprintln(s.out, "\n== Stats ==")
	fmt.Fprintf(s.out, "Average rating: %.2f\n", avg)
	fmt.Fprintf(s.out, "Median rating: %.2f\n", median)
	fmt.Fprintf(s.out, "Best (%.1f): %s\n", maxRating, strings.Join(best, ", "))
	fmt.Fprintf(s.out, "Worst (%.1f): %s\n", minRating, strings.Join(worst, ", "))
}

func (s *Session) handleRandomMovie() {
	movies, ok := s.loadMovies()
	if !ok {
		return
	}

	movie := movies[rand.Intn(len(movies))]
	fmt.Fprintf(s.out, "Random pick: %s (%d), %.1f\n", movie.Title, movie.Year, movie.Rating)
}

func (s *Session) handleSearchMovie() {
	query, ok := s.readLine("Enter part of movie name: ")
	if !ok || !s.requireInput(query, "Search string") {
		return
	}

	movies, ok := s.loadMovies()
	if !ok {
		return
	}

	query = strings.ToLower(query)
	found := false
	for _, movie := range movies {
		if strings.Contains(strings.ToLower(movie.Title), query) {
			fmt.Fprintf(s.out, "%s (%d), %.1f\n", movie.Title, movie.Year, movie.Rating)
			found = true
		}
	}
	if !found {
		fmt.Fprintln(s.out, "No matches found.")
	}
}

func (s *Session) handleSortedByRating() {
	movies, ok := s.loadMovies()
	if !ok {
		return
	}

	sort.SliceStable(movies, func(i, j int) bool {
		return movies[i].Rating > movies[j].Rating
	})
	for _, movie := range movies {
		fmt.Fprintf(s.out, "%s (%d): %.1f\n", movie.Title, movie.Year, movie.Rating)
	}
}

func (s *Session) handleGenerateWebsite() {
	movies, err := s.store.ListMovies(s.user.ID)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v.\n", err)
		return
	}

	if _, err := s.site.Generate(*s.user, movies); err != nil {
		fmt.Fprintf(s.out, "Error: %v.\n", err)
		return
	}

	fmt.Fprintln(s.out, "Website was generated successfully.")
}

// loadMovies fetches the active user's collection, reporting an empty one.
func (s *Session) loadMovies() ([]storage.Movie, bool) {
	movies, err := s.store.ListMovies(s.user.ID)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v.\n", err)
		return nil, false
	}
	if len(movies) == 0 {
		fmt.Fprintln(s.out, "No movies in database.")
		return nil, false
	}
	return movies, true
}

func (s *Session) requireInput(value, field string) bool {
	if value == "" {
		fmt.Fprintf(s.out, "Error: %s cannot be empty.\n", field)
		return false
	}
	return true
}

// readLine prints a prompt and reads one trimmed line. The second return is
// false when input is exhausted.
func (s *Session) readLine(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}
