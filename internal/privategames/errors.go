package privategames

import (
	"errors"
	"fmt"
)

var (
	ErrGatewayUnavailable = errors.New("game server gateway unavailable")
	ErrGameFull           = errors.New("private game is full")
	ErrNoSeatsTaken       = errors.New("private game has no occupied seats")
	ErrInvalidMaxPlayers  = errors.New("maxPlayers must not be negative")
)

// Op names the service operation an error came from.
type Op string

const (
	OpCreate  Op = "create"
	OpQuery   Op = "query"
	OpJoin    Op = "join"
	OpDelete  Op = "delete"
	OpPlayers Op = "players"
	OpSeat    Op = "seat"
)

var opMessages = map[Op]string{
	OpCreate:  "error creating private game",
	OpQuery:   "error querying private games",
	OpJoin:    "error joining private game",
	OpDelete:  "error deleting private game",
	OpPlayers: "error getting player count",
	OpSeat:    "error updating seats",
}

// OpError tags a failure with the operation it happened in. The cause stays
// reachable through errors.Is and errors.As.
type OpError struct {
	Op  Op
	Err error
}

func (e *OpError) Error() string {
	msg, ok := opMessages[e.Op]
	if !ok {
		msg = fmt.Sprintf("private game %s failed", e.Op)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func wrap(op Op, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Err: err}
}

// OpOf returns the operation recorded on err, if any.
func OpOf(err error) (Op, bool) {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Op, true
	}
	return "", false
}
