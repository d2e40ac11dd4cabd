// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

// This file holds the handler every route is built from: content
// negotiation, body decoding, method dispatch, and error encoding.

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/diffeo/go-fablib/restdata"
)

var typeMap = map[string]string{
	"text/json":              restdata.V1JSONMediaType,
	"application/json":       restdata.V1JSONMediaType,
	restdata.JSONMediaType:   restdata.V1JSONMediaType,
	restdata.V1JSONMediaType: restdata.V1JSONMediaType,
}

// errBadAccept is returned from negotiateResponse() if the Accept:
// header is malformed (and no more specific error applies).
var errBadAccept = errors.New("Invalid Accept: header")

// errUnmarshal is returned by a Put or Post handler that was given
// a body of the wrong type.
var errUnmarshal = restdata.ErrBadRequest{
	Err: errors.New("Invalid input format"),
}

// errNotAcceptable is returned from negotiateResponse() if the Accept:
// header does not mention any media types we can actually return.
type errNotAcceptable struct{}

func (e errNotAcceptable) Error() string {
	return "No acceptable representation for response"
}

func (e errNotAcceptable) HTTPStatus() int {
	return http.StatusNotAcceptable
}

// errMethodNotAllowed is used within the resourceHandler implementation
// to flag an error if a particular HTTP method is not allowed.
type errMethodNotAllowed struct {
	Method string
}

func (e errMethodNotAllowed) Error() string {
	return fmt.Sprintf("Method %v not allowed", e.Method)
}

func (e errMethodNotAllowed) HTTPStatus() int {
	return http.StatusMethodNotAllowed
}

// responseCreated is returned as a value response from handler
// functions that want to indicate that a new resource was created.
type responseCreated struct {
	// Location holds the canonical URL to the newly created resource.
	Location string

	// Body contains the object sent in the body of the response.
	Body interface{}
}

// resourceHandler serves one URL pattern.  Each method handler is
// optional; a method without one gets errMethodNotAllowed.
type resourceHandler struct {
	// Representation is the zero value of the type request
	// bodies decode into.  Put and Post receive a value of
	// exactly this type.
	Representation interface{}

	// Context resolves the URL variables of a request.
	Context func(req *http.Request) (*context, error)

	Get    func(*context) (interface{}, error)
	Put    func(*context, interface{}) (interface{}, error)
	Post   func(*context, interface{}) (interface{}, error)
	Delete func(*context) (interface{}, error)
}

// decodeBody reads a request body into a new value of the handler's
// representation type.
func (h *resourceHandler) decodeBody(req *http.Request) (interface{}, error) {
	ptr := reflect.New(reflect.TypeOf(h.Representation))
	err := restdata.Decode(req.Header.Get("Content-Type"), req.Body, ptr.Interface())
	return ptr.Elem().Interface(), err
}

// dispatch runs the handler function for the request method.
func (h *resourceHandler) dispatch(req *http.Request) (interface{}, error) {
	ctx, err := h.Context(req)
	if err != nil {
		return nil, err
	}
	switch req.Method {
	case http.MethodGet, http.MethodHead:
		if h.Get != nil {
			return h.Get(ctx)
		}
	case http.MethodDelete:
		if h.Delete != nil {
			return h.Delete(ctx)
		}
	case http.MethodPut, http.MethodPost:
		handler := h.Put
		if req.Method == http.MethodPost {
			handler = h.Post
		}
		if handler == nil {
			break
		}
		in, err := h.decodeBody(req)
		if err != nil {
			return nil, err
		}
		return handler(ctx, in)
	}
	return nil, errMethodNotAllowed{Method: req.Method}
}

// reply picks the status code and body for a handler's result.
func reply(resp http.ResponseWriter, out interface{}, err error) (int, interface{}) {
	if err != nil {
		response := restdata.ErrorResponse{Error: "error", Message: err.Error()}
		response.FromError(err)
		return restdata.StatusOf(err), response
	}
	switch result := out.(type) {
	case nil:
		return http.StatusNoContent, nil
	case responseCreated:
		if result.Location != "" {
			resp.Header().Set("Location", result.Location)
		}
		return http.StatusCreated, result.Body
	default:
		return http.StatusOK, out
	}
}

func (h *resourceHandler) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	defer func() {
		if recovered := recover(); recovered != nil {
			response := restdata.ErrorResponse{}
			response.FromPanic(recovered)
			resp.Header().Set("Content-Type", restdata.V1JSONMediaType)
			resp.WriteHeader(http.StatusInternalServerError)
			_ = restdata.Encode(resp, response)
		}
	}()

	// The response type is settled first, since it is also the
	// format any error goes back in.
	var out interface{}
	responseType, err := negotiateResponse(req)
	if err != nil {
		responseType = restdata.V1JSONMediaType
		if _, hasStatus := err.(restdata.ErrorStatus); !hasStatus {
			err = restdata.ErrBadRequest{Err: err}
		}
	} else {
		out, err = h.dispatch(req)
	}

	status, body := reply(resp, out, err)
	if req.Method == http.MethodHead && err == nil {
		body = nil
	}
	if _, understood := typeMap[responseType]; !understood {
		status = http.StatusInternalServerError
		body = restdata.ErrorResponse{Error: "error", Message: "Invalid response type " + responseType}
		responseType = restdata.V1JSONMediaType
	}

	if body != nil {
		resp.Header().Set("Content-Type", responseType)
	}
	resp.WriteHeader(status)
	if body != nil {
		// the status line is already out, so a failed write
		// cannot be reported
		_ = restdata.Encode(resp, body)
	}
}

// negotiateResponse returns a supported MIME type for the response
// body, following the path laid out in RFC 7231 section 5.3.
func negotiateResponse(req *http.Request) (string, error) {
	accept := req.Header.Get("Accept")
	if accept == "" {
		accept = "*/*"
	}
	bestType := ""
	bestQ := 0.0
	for _, mediaRange := range strings.Split(accept, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(mediaRange))
		if err != nil {
			return "", err
		}

		q := 1.0
		if qStr, haveQ := params["q"]; haveQ {
			q, err = strconv.ParseFloat(qStr, 64)
			if err != nil {
				return "", err
			}
			if q < 0.0 || q > 1.0 {
				return "", errBadAccept
			}
		}
		if q < bestQ {
			continue
		}

		wildcard := bestType == "*/*" || bestType == "text/*" || bestType == "application/*"
		switch {
		case mediaType == "*/*":
			// Doesn't override anything.
			if q > bestQ {
				bestType, bestQ = mediaType, q
			}
		case mediaType == "text/*" || mediaType == "application/*":
			// Only overrides "*/*".
			if q > bestQ || bestType == "*/*" {
				bestType, bestQ = mediaType, q
			}
		default:
			// A known type overrides any wildcard, and the
			// first one at a given q wins.
			if _, known := typeMap[mediaType]; known && (q > bestQ || wildcard) {
				bestType, bestQ = mediaType, q
			}
		}
	}
	if bestQ == 0.0 {
		return "", errNotAcceptable{}
	}
	switch bestType {
	case "*/*", "application/*":
		return restdata.V1JSONMediaType, nil
	case "text/*":
		return "text/json", nil
	default:
		return bestType, nil
	}
}
