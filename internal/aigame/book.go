package aigame

import (
	"fmt"
	"os"
	"sync"

	nchess "github.com/corentings/chess/v2"
)

var (
	bookOnce sync.Once
	book     *nchess.PolyglotBook
	bookErr  error
)

// loadBook opens the polyglot opening book named by
// CHESS_POLYGLOT_BOOK_PATH. No path means no book; the heuristic picker
// covers the whole game.
func loadBook() (*nchess.PolyglotBook, error) {
	bookOnce.Do(func() {
		path := os.Getenv("CHESS_POLYGLOT_BOOK_PATH")
		if path == "" {
			return
		}
		file, err := os.Open(path)
		if err != nil {
			bookErr = fmt.Errorf("open polyglot book %q: %w", path, err)
			return
		}
		defer file.Close()
		book, bookErr = nchess.LoadFromReader(file)
	})
	return book, bookErr
}

// bookMove looks the current position up in the opening book and returns
// the top-weighted reply in UCI, verified legal, or "" when the book has
// nothing for it.
func bookMove(game *nchess.Game) string {
	b, err := loadBook()
	if err != nil || b == nil {
		return ""
	}
	hasher := nchess.NewZobristHasher()
	hashStr, err := hasher.HashPosition(game.FEN())
	if err != nil {
		return ""
	}
	entries := b.FindMoves(nchess.ZobristHashToUint64(hashStr))
	if len(entries) == 0 {
		return ""
	}
	move := nchess.DecodeMove(entries[0].Move).ToMove()
	uci := move.String()
	probe := game.Clone()
	if err := probe.PushNotationMove(uci, nchess.UCINotation{}, nil); err != nil {
		return ""
	}
	return uci
}
