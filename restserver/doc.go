// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restserver publishes a fim Orchestrator as a REST service.
// The restclient package is a matching client.
//
// The complete REST API is defined in the restdata package.  In
// particular, note that the URLs described here are not actually part
// of the API; clients should follow the links in the representations.
//
// MIME Types
//
// This interface understands MIME types as follows:
//
//     application/vnd.diffeo.fim.v1+json
//
// JSON representation of version 1 of this interface.
//
//     application/vnd.diffeo.fim+json
//     application/json
//     text/json
//
// JSON representation of latest version of this interface.
//
// URL Scheme
//
// Objects are addressed by name.  Components are nested under their
// node, but interfaces and services are addressed directly under the
// slice by their generated names, since an interface can be reached
// from a node, a component, or a network service.  Names that are not
// URL-safe are base64 encoded with a leading -, as described in
// restdata.MaybeEncodeName.
//
// GET on a slice URL creates the slice if it does not exist.  Every
// other URL under a slice returns 404 if any object it names is
// missing.
//
// The following URLs are defined:
//
//     /
//     /slice
//     /slice/{slice}
//     /slice/{slice}/status
//     /slice/{slice}/submit
//     /slice/{slice}/lease
//     /slice/{slice}/node
//     /slice/{slice}/node/{node}
//     /slice/{slice}/node/{node}/interface
//     /slice/{slice}/node/{node}/component
//     /slice/{slice}/node/{node}/component/{component}
//     /slice/{slice}/node/{node}/component/{component}/interface
//     /slice/{slice}/interface/{interface}
//     /slice/{slice}/interface/{interface}/interface
//     /slice/{slice}/service
//     /slice/{slice}/service/{service}
//     /slice/{slice}/service/{service}/interface
package restserver
