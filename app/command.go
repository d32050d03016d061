package app

// command enumerates the menu choices. Dispatch is a switch over this type
// rather than a table of closures so every handler site is explicit.
type command int

const (
	cmdUnknown command = iota
	cmdExit
	cmdListMovies
	cmdAddMovie
	cmdDeleteMovie
	cmdUpdateMovie
	cmdStats
	cmdRandomMovie
	cmdSearchMovie
	cmdSortedByRating
	cmdGenerateWebsite
	cmdSwitchUser
)

// parseCommand maps a raw menu choice to a command. Anything outside 0-10
// becomes cmdUnknown.
func parseCommand(choice string) command {
	switch choice {
	case "0":
		return cmdExit
	case "1":
		return cmdListMovies
	case "2":
		return cmdAddMovie
	case "3":
		return cmdDeleteMovie
	case "4":
		return cmdUpdateMovie
	case "5":
		return cmdStats
	case "6":
		return cmdRandomMovie
	case "7":
		return cmdSearchMovie
	case "8":
		return cmdSortedByRating
	case "9":
		return cmdGenerateWebsite
	case "10":
		return cmdSwitchUser
	default:
		return cmdUnknown
	}
}
