package getjson

import (
	"net/http"
	"strings"
)

// Handler exposes the server's dispatcher as an http.Handler, for embedding
// the routes in an existing net/http server. Only GET is served; other
// methods get 405. Query values are taken from the raw query string without
// unescaping, as on the socket transport.
func (s *Server) Handler() http.Handler {
	return &httpHandler{dispatcher: s.dispatcher}
}

type httpHandler struct {
	dispatcher *Dispatcher
}

// ServeHTTP implements http.Handler.
func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	header := make(map[string]string, len(r.Header))
	for name, values := range r.Header {
		header[strings.ToLower(name)] = strings.Join(values, ",")
	}
	req := &Request{
		Method:     r.Method,
		Target:     r.URL.RequestURI(),
		Path:       r.URL.EscapedPath(),
		Query:      parseQuery(r.URL.RawQuery),
		Header:     header,
		RemoteAddr: r.RemoteAddr,
	}

	res := h.dispatcher.Dispatch(r.Context(), req)
	if res.Status == http.StatusOK {
		w.Header().Set("Content-Type", ContentTypeJSON)
	}
	w.WriteHeader(res.Status)
	if len(res.Body) > 0 {
		_, _ = w.Write(res.Body)
	}
}
