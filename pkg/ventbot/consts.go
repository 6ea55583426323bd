package ventbot

import "time"

const helpMsg = "Send me the vent lines of your puzzle input, one per line, " +
	"written as x1,y1 -> x2,y2. You can also upload the input file. " +
	"I draw every line on the ocean floor map and count the dangerous " +
	"points, where at least two lines overlap: once with horizontal and " +
	"vertical lines only, and once with the 45° diagonals as well. " +
	"Press Replay under the answer to watch the map being drawn."

const botPic = "https://adventofcode.com/favicon.png"

const (
	solveButtonText      = "🗺 Solve"
	scoreboardButtonText = "🏆 Scoreboard"
	profileButtonText    = "👤 Profile"
	helpButtonText       = "❓ Help"
)

const (
	// previewLimit is the largest width or height drawn as an emoji grid.
	previewLimit = 16
	// maxInputSize bounds uploaded input files.
	maxInputSize = 1 << 20
	// maxMapSide bounds the width and height of a solved map in points.
	maxMapSide = 1000

	purgeSchedule  = "@every 10m"
	requestTimeout = 30 * time.Second
)
