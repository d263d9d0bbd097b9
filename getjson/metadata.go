package getjson

import "time"

// Wire-level constants for the request line and response framing.
const (
	MethodGet       = "GET"
	ContentTypeJSON = "application/json"

	statusLineOK       = "HTTP/1.1 200 OK\r\n"
	statusLineNotFound = "HTTP/1.1 404 Not Found\r\n"
	statusLineInternal = "HTTP/1.1 500 Internal Server Error\r\n"
	contentTypeHeader  = "Content-Type: " + ContentTypeJSON + "\r\n"
	crlf               = "\r\n"

	// maxRequestLine bounds the request line, including the trailing CRLF.
	maxRequestLine = 8 << 10
	// maxHeaderLines bounds how many already-buffered header lines are read
	// after the request line.
	maxHeaderLines = 100

	DefaultAddr         = ":8080"
	DefaultDescribePath = "/__describe__"
	componentName       = "getjson"
)

// Transport metadata keys passed to dispatch hooks alongside any request
// headers.
const (
	MetaRemoteAddr = "remote_addr"
	MetaUserAgent  = "user_agent"
)

// shutdownGrace bounds how long Serve waits for in-flight connections after
// the listener closes.
var shutdownGrace = 5 * time.Second
