package restaurant

import "errors"

var ErrNotFound = errors.New("restaurant not found")
