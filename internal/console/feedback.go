package console

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robalobadob/mastermind/internal/game"
)

// ErrQuit is returned by ParseFeedback for the words that end the session.
var ErrQuit = errors.New("quit")

var quitWords = map[string]bool{"end": true, "bye": true, "quit": true, "exit": true, "done": true}

// ParseFeedback reads an operator answer such as "21" (2 black, 1 white).
// Errors other than ErrQuit carry the message shown before re-prompting.
func ParseFeedback(line string) (game.Feedback, error) {
	r := strings.TrimSpace(line)
	if quitWords[strings.ToLower(r)] {
		return game.Feedback{}, ErrQuit
	}
	if len(r) != 2 {
		return game.Feedback{}, errors.New("Must be 2 digits")
	}
	for i := 0; i < 2; i++ {
		if r[i] < '0' || r[i] > '4' {
			return game.Feedback{}, fmt.Errorf("%c is invalid", r[i])
		}
	}
	fb := game.Feedback{Black: int(r[0] - '0'), White: int(r[1] - '0')}
	if fb.Black == game.Pegs-1 && fb.White == 1 {
		return game.Feedback{}, fmt.Errorf("%s is impossible", r)
	}
	if n := fb.Black + fb.White; n > game.Pegs {
		return game.Feedback{}, fmt.Errorf("there are not %d columns", n)
	}
	return fb, nil
}
