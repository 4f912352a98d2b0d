package repository

import "errors"

var (
	ErrLocationNotFound   = errors.New("location not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderAlreadyExists = errors.New("order already exists")
	ErrCacheMiss          = errors.New("cache miss")
)
