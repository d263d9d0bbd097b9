// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package getjson

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// errIgnored marks a request line that is closed without any response:
// anything other than a well-formed GET.
var errIgnored = errors.New("request ignored")

// Request is a parsed request line plus any headers that arrived with it.
type Request struct {
	Method     string
	Target     string            // raw request target, query included
	Path       string            // target up to the first "?"
	Query      map[string]string // no percent-decoding; later keys win
	Header     map[string]string // lowercased names; only headers already buffered
	RemoteAddr string
}

// ReadRequest reads one request line from r. Lines without at least a
// method and a target, and methods other than GET, yield errIgnored.
//
// Header lines are consumed only while complete lines are already
// buffered, so a client that sends a bare request line is never blocked
// on.
func ReadRequest(r *bufio.Reader) (*Request, error) {
	line, err := r.ReadSlice('\n')
	switch {
	case errors.Is(err, bufio.ErrBufferFull):
		return nil, fmt.Errorf("request line longer than %d bytes", r.Size())
	case err == io.EOF && len(line) > 0:
		// last line without a terminator
	case err != nil:
		return nil, err
	}

	parts := strings.Split(strings.TrimRight(string(line), "\r\n"), " ")
	if len(parts) < 2 || parts[0] != MethodGet {
		return nil, errIgnored
	}

	req := &Request{Method: parts[0], Target: parts[1]}
	req.Path, req.Query = splitTarget(parts[1])
	req.Header = readBufferedHeaders(r)
	return req, nil
}

// splitTarget splits a request target at the first "?" and parses the
// query string.
func splitTarget(target string) (string, map[string]string) {
	path, rawQuery, _ := strings.Cut(target, "?")
	return path, parseQuery(rawQuery)
}

// parseQuery splits on "&" and then on the first "=". Empty pieces are
// dropped and a key without "=" maps to "". Values are not unescaped.
func parseQuery(raw string) map[string]string {
	q := make(map[string]string)
	for _, piece := range strings.Split(raw, "&") {
		if piece == "" {
			continue
		}
		k, v, _ := strings.Cut(piece, "=")
		q[k] = v
	}
	return q
}

func readBufferedHeaders(r *bufio.Reader) map[string]string {
	h := make(map[string]string)
	for range maxHeaderLines {
		buffered, _ := r.Peek(r.Buffered())
		if bytes.IndexByte(buffered, '\n') < 0 {
			break
		}
		line, err := r.ReadSlice('\n')
		if err != nil {
			break
		}
		text := strings.TrimRight(string(line), "\r\n")
		if text == "" {
			break
		}
		name, value, ok := strings.Cut(text, ":")
		if !ok {
			continue
		}
		h[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(value)
	}
	return h
}

// appendResponse renders a complete response for status and body. Only 200
// carries a Content-Type and a body.
func appendResponse(dst []byte, status int, body []byte) []byte {
	switch status {
	case 200:
		dst = append(dst, statusLineOK...)
		dst = append(dst, contentTypeHeader...)
		dst = append(dst, crlf...)
		return append(dst, body...)
	case 404:
		dst = append(dst, statusLineNotFound...)
	case 500:
		dst = append(dst, statusLineInternal...)
	default:
		dst = append(dst, "HTTP/1.1 "...)
		dst = strconv.AppendInt(dst, int64(status), 10)
		dst = append(dst, crlf...)
	}
	return append(dst, crlf...)
}

// WriteResponse writes the response for res in a single Write call.
func WriteResponse(w io.Writer, res Result) error {
	_, err := w.Write(appendResponse(nil, res.Status, res.Body))
	return err
}
