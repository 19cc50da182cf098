package apperror

import "errors"

var ErrNoActiveGame = errors.New("no active game found")
