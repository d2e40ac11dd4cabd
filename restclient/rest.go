// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

// This file provides the HTTP plumbing every handle shares: URL
// construction from server-provided templates, JSON bodies in the
// restdata codec, and mapping error responses back to fim errors.

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/diffeo/go-fablib/fim"
	"github.com/diffeo/go-fablib/restdata"
	"github.com/jtacoma/uritemplates"
	"github.com/ugorji/go/codec"
)

// Timeout bounds every request the client makes.
var Timeout = 30 * time.Second

// client uses the default transport, so tests can intercept it.
var client = &http.Client{Timeout: Timeout}

var jsonHandle = &codec.JsonHandle{}

// resource is a server object addressed by URL.  Handles embed it and
// resolve every other link relative to it.
type resource struct {
	URL *url.URL
}

// Template expands a URI template from the server with vars, whose
// string values are name-encoded first, and resolves the result
// relative to this resource.
func (r *resource) Template(template string, vars map[string]interface{}) (*url.URL, error) {
	tmpl, err := uritemplates.Parse(template)
	if err != nil {
		return nil, err
	}
	encoded := make(map[string]interface{}, len(vars))
	for key, value := range vars {
		if s, ok := value.(string); ok {
			value = restdata.MaybeEncodeName(s)
		}
		encoded[key] = value
	}
	expanded, err := tmpl.Expand(encoded)
	if err != nil {
		return nil, err
	}
	return r.URL.Parse(expanded)
}

// Link resolves a URL returned by the server relative to this
// resource.
func (r *resource) Link(ref string) (*url.URL, error) {
	return r.URL.Parse(ref)
}

// Do sends one request.  A non-nil in is encoded as the JSON body; a
// non-nil out, which must be a pointer, receives the decoded
// response, if the server sent one.
func (r *resource) Do(method string, target *url.URL, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		var buf bytes.Buffer
		if err := codec.NewEncoder(&buf, jsonHandle).Encode(in); err != nil {
			return err
		}
		body = &buf
	}

	req, err := http.NewRequest(method, target.String(), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", restdata.V1JSONMediaType)
	}
	if out != nil {
		req.Header.Set("Accept", restdata.V1JSONMediaType)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return restdata.Decode(resp.Header.Get("Content-Type"), resp.Body, out)
}

// at expands a template, then performs the request there.
func (r *resource) at(method, template string, vars map[string]interface{}, in, out interface{}) error {
	target, err := r.Template(template, vars)
	if err != nil {
		return err
	}
	return r.Do(method, target, in, out)
}

// Get fetches this resource into out.
func (r *resource) Get(out interface{}) error {
	return r.Do(http.MethodGet, r.URL, nil, out)
}

// GetFrom fetches the resource a template names into out.
func (r *resource) GetFrom(template string, vars map[string]interface{}, out interface{}) error {
	return r.at(http.MethodGet, template, vars, nil, out)
}

// Put replaces this resource with in.
func (r *resource) Put(in, out interface{}) error {
	return r.Do(http.MethodPut, r.URL, in, out)
}

// PutTo replaces the resource a template names with in.
func (r *resource) PutTo(template string, vars map[string]interface{}, in, out interface{}) error {
	return r.at(http.MethodPut, template, vars, in, out)
}

// PostTo creates something in the collection a template names.
func (r *resource) PostTo(template string, vars map[string]interface{}, in, out interface{}) error {
	return r.at(http.MethodPost, template, vars, in, out)
}

// Delete removes this resource.
func (r *resource) Delete() error {
	return r.Do(http.MethodDelete, r.URL, nil, nil)
}

// DeleteAt removes the resource a template names.
func (r *resource) DeleteAt(template string, vars map[string]interface{}) error {
	return r.at(http.MethodDelete, template, vars, nil, nil)
}

// ErrorHTTP is returned for an unsuccessful response whose body is
// not a restdata.ErrorResponse.
type ErrorHTTP struct {
	// Response is the failing response.  Its body has been
	// consumed.
	Response *http.Response

	// Body holds the response body as text.
	Body string
}

func (e ErrorHTTP) Error() string {
	return e.Response.Status
}

// responseError turns a failed response into the fim error the
// server encoded in it, or an ErrorHTTP.
func responseError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var errResp restdata.ErrorResponse
	contentType := resp.Header.Get("Content-Type")
	if restdata.Decode(contentType, bytes.NewReader(body), &errResp) == nil {
		return errResp.ToError()
	}
	return ErrorHTTP{Response: resp, Body: string(body)}
}

// The server reports a missing parent object as a lookup miss on
// that object.  A handle whose own object, or some ancestor, has
// been removed reports fim.ErrGone instead, at the depth the handle
// lives at.

// sliceGone maps a missing slice to fim.ErrGone.
func sliceGone(err error) error {
	if _, missing := err.(fim.ErrNoSuchSlice); missing {
		return fim.ErrGone
	}
	return err
}

// nodeGone maps a missing slice or node to fim.ErrGone.
func nodeGone(err error) error {
	switch err.(type) {
	case fim.ErrNoSuchSlice, fim.ErrNoSuchNode:
		return fim.ErrGone
	}
	return err
}

// gone maps any lookup miss to fim.ErrGone.
func gone(err error) error {
	switch err.(type) {
	case fim.ErrNoSuchSlice, fim.ErrNoSuchNode, fim.ErrNoSuchComponent,
		fim.ErrNoSuchInterface, fim.ErrNoSuchNetworkService:
		return fim.ErrGone
	}
	return err
}
