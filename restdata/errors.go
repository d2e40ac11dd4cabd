// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"

	"github.com/diffeo/go-fablib/fim"
)

// ErrorStatus describes errors that correspond to specific HTTP status
// codes.
type ErrorStatus interface {
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrUnsupportedMediaType is returned from Decode() if the provided
// Content-Type: is unrecognized.  This translates directly into the
// equivalent HTTP 415 error.
type ErrUnsupportedMediaType struct {
	Type string
}

func (e ErrUnsupportedMediaType) Error() string {
	return fmt.Sprintf("Unsupported media type %q", e.Type)
}

// HTTPStatus returns a fixed 415 Unsupported Media Type error code.
func (e ErrUnsupportedMediaType) HTTPStatus() int {
	return http.StatusUnsupportedMediaType
}

// ErrNotFound is a wrapper error that indicates that, due to the
// embedded error, a REST service should return a 404 Not Found error.
type ErrNotFound struct {
	Err error
}

func (e ErrNotFound) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 404 Not Found error code.
func (e ErrNotFound) HTTPStatus() int {
	return http.StatusNotFound
}

// ErrBadRequest is returned as an error when there is an error decoding
// HTTP headers or the request body.
type ErrBadRequest struct {
	Err error
}

func (e ErrBadRequest) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 400 Bad Request HTTP status code.
func (e ErrBadRequest) HTTPStatus() int {
	return http.StatusBadRequest
}

// StatusOf picks an HTTP status code for an error.  Errors that know
// their own status report it; well-known fim errors map to 4xx codes;
// anything else is a 500 Internal Server Error.
func StatusOf(err error) int {
	if errS, hasStatus := err.(ErrorStatus); hasStatus {
		return errS.HTTPStatus()
	}
	switch err {
	case fim.ErrGone:
		return http.StatusNotFound
	case fim.ErrNotSubmitted, fim.ErrBadLease, fim.ErrWrongNodeType:
		return http.StatusBadRequest
	}
	switch err.(type) {
	case fim.ErrNoSuchSlice, fim.ErrNoSuchNode, fim.ErrNoSuchComponent,
		fim.ErrNoSuchInterface, fim.ErrNoSuchNetworkService:
		return http.StatusNotFound
	case fim.ErrAlreadyExists:
		return http.StatusConflict
	case fim.ErrUnknownModel, fim.ErrUnknownServiceType:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// sentinels maps the fim package's fixed errors to their wire names.
var sentinels = map[error]string{
	fim.ErrGone:          "ErrGone",
	fim.ErrNoModel:       "ErrNoModel",
	fim.ErrNotSubmitted:  "ErrNotSubmitted",
	fim.ErrWrongNodeType: "ErrWrongNodeType",
	fim.ErrBadLease:      "ErrBadLease",
}

// FromError populates an ErrorResponse to fill in its fields based
// on an error value.  This remaps the well-known fim errors to
// specific e.Error codes.
func (e *ErrorResponse) FromError(err error) {
	if name, known := sentinels[err]; known {
		e.Error = name
		return
	}
	switch et := err.(type) {
	case fim.ErrNoSuchSlice:
		e.Error = "ErrNoSuchSlice"
		e.Value = et.Name
	case fim.ErrNoSuchNode:
		e.Error = "ErrNoSuchNode"
		e.Value = et.Name
	case fim.ErrNoSuchComponent:
		e.Error = "ErrNoSuchComponent"
		e.Value = et.Name
	case fim.ErrNoSuchInterface:
		e.Error = "ErrNoSuchInterface"
		e.Value = et.Name
	case fim.ErrNoSuchNetworkService:
		e.Error = "ErrNoSuchNetworkService"
		e.Value = et.Name
	case fim.ErrNotAllocated:
		e.Error = "ErrNotAllocated"
		e.Value = et.Property
	case fim.ErrAlreadyExists:
		e.Error = "ErrAlreadyExists"
		e.Kind = et.Kind
		e.Value = et.Name
	case fim.ErrUnknownModel:
		e.Error = "ErrUnknownModel"
		e.Value = et.Model
	case fim.ErrUnknownServiceType:
		e.Error = "ErrUnknownServiceType"
		e.Value = string(et.Type)
	case ErrNotFound:
		// Discard this wrapper and return the embedded error
		e.FromError(et.Err)
	case ErrBadRequest:
		e.FromError(et.Err)
	}
}

// ToError converts e back to a fim error, if that is possible.  If
// not, returns a plain error with e.Message text.
func (e *ErrorResponse) ToError() error {
	for err, name := range sentinels {
		if e.Error == name {
			return err
		}
	}
	switch e.Error {
	case "ErrNoSuchSlice":
		return fim.ErrNoSuchSlice{Name: e.Value}
	case "ErrNoSuchNode":
		return fim.ErrNoSuchNode{Name: e.Value}
	case "ErrNoSuchComponent":
		return fim.ErrNoSuchComponent{Name: e.Value}
	case "ErrNoSuchInterface":
		return fim.ErrNoSuchInterface{Name: e.Value}
	case "ErrNoSuchNetworkService":
		return fim.ErrNoSuchNetworkService{Name: e.Value}
	case "ErrNotAllocated":
		return fim.ErrNotAllocated{Property: e.Value}
	case "ErrAlreadyExists":
		return fim.ErrAlreadyExists{Kind: e.Kind, Name: e.Value}
	case "ErrUnknownModel":
		return fim.ErrUnknownModel{Model: e.Value}
	case "ErrUnknownServiceType":
		return fim.ErrUnknownServiceType{Type: fim.ServiceType(e.Value)}
	default:
		return errors.New(e.Message)
	}
}

// FromPanic populates an error response based on a panic.  Typical use
// is:
//
//     defer func() {
//         if obj := recover(); obj != nil {
//             resp := restdata.ErrorResponse{}
//             resp.FromPanic(obj)
//             // write resp out as makes sense
//         }
//     }()
func (e *ErrorResponse) FromPanic(obj interface{}) {
	e.Error = "panic"
	if recoveredError, isError := obj.(error); isError {
		e.Message = recoveredError.Error()
	} else {
		e.Message = fmt.Sprintf("%+v", obj)
	}
	var stack [4096]byte
	n := runtime.Stack(stack[:], false)
	e.Stack = string(stack[:n])
}
