package wire

import (
	"errors"
	"net/http"

	"shanghai/internal/app"
	"shanghai/internal/lobby"
)

// ErrorFor builds the private error frame payload for a rejected command.
func ErrorFor(err error) ErrorPayload {
	return ErrorPayload{Code: errorCode(err), Message: err.Error()}
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, ErrMalformed), errors.Is(err, lobby.ErrBadName), errors.Is(err, lobby.ErrInGame):
		return http.StatusBadRequest
	case errors.Is(err, lobby.ErrNotHost):
		return http.StatusForbidden
	case errors.Is(err, lobby.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, lobby.ErrFull), errors.Is(err, lobby.ErrInLobby):
		return http.StatusConflict
	}
	return app.ErrorCode(err)
}
