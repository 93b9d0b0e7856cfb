package postgres

import "errors"

// Ошибки снимков состояния
var (
	ErrEmptyKey     = errors.New("state key is empty")
	ErrCorruptState = errors.New("stored state is corrupt")
)
