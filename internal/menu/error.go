package menu

import "errors"

var (
	ErrCategoryNotFound = errors.New("menu category not found")
	ErrItemNotFound     = errors.New("menu item not found")
)
