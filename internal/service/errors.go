package service

import "errors"

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrPOINotFound       = errors.New("poi not found")
	ErrAlreadyLooted     = errors.New("poi already looted")
	ErrTerritoryNotFound = errors.New("territory not found")
	ErrPathTooLong       = errors.New("path has too many points")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrInvalidFilter     = errors.New("invalid filter")
)
