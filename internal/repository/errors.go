package repository

import "errors"

var (
	// ErrNotFound 表示查無指定的紀錄
	ErrNotFound = errors.New("repository: record not found")
)
