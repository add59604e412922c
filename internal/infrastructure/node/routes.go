package node

import "net/http"

// endpointClass selects which of the node's three roles serves an operation.
type endpointClass int

const (
	classValidator endpointClass = iota
	classReadOnly
	classAdmin
)

// route maps one operation onto an endpoint class, HTTP method, base path
// and request content type.
type route struct {
	class       endpointClass
	method      string
	path        string
	contentType string
}

// routes is the static operation table. Read operations default to GET on
// the read-only endpoint; submission and propose operations are POST.
//
// explore-deploy is the deliberate exception: a POST that must always hit
// the read-only endpoint, because balance queries must never reach the
// validator (rate limits, missing CORS for browser-origin callers). Do not
// "fix" this to follow the method heuristic.
var routes = map[string]route{
	"deploy": {
		class:       classValidator,
		method:      http.MethodPost,
		path:        "/api/deploy",
		contentType: "application/json",
	},
	"explore-deploy": {
		class:       classReadOnly,
		method:      http.MethodPost,
		path:        "/api/explore-deploy",
		contentType: "text/plain",
	},
	"blocks": {
		class:  classReadOnly,
		method: http.MethodGet,
		path:   "/api/blocks",
	},
	"block": {
		class:  classReadOnly,
		method: http.MethodGet,
		path:   "/api/block",
	},
	"status": {
		class:  classReadOnly,
		method: http.MethodGet,
		path:   "/api/status",
	},
	"propose": {
		class:       classAdmin,
		method:      http.MethodPost,
		path:        "/api/propose",
		contentType: "application/json",
	},
}
