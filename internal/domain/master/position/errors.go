package position

import "errors"

var (
	ErrPositionNotFound   = errors.New("position not found")
	ErrPositionNameExists = errors.New("position with this name already exists")
	ErrPositionInUse      = errors.New("position is assigned to employees and cannot be deleted")
)
