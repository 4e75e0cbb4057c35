package dynamo

import "errors"

// ErrInvalidState indicates a state vector holding NaN or Inf.
var ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
