package oaa

import "github.com/m-mizutani/goerr/v2"

var (
	ErrUndefinedProperty   = goerr.New("custom property is not defined")
	ErrPropertyType        = goerr.New("custom property value does not match its type")
	ErrUnknownGroup        = goerr.New("local group not found")
	ErrUnknownRole         = goerr.New("local role not found")
	ErrUnknownPermission   = goerr.New("custom permission not found")
	ErrDuplicateIdentifier = goerr.New("identifier already registered")
)

const (
	PropertyKey   = "property"
	UniqueIDKey   = "unique_id"
	PermissionKey = "permission"
)
