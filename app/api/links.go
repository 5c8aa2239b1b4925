package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

var errNoURLMatch = errors.New("invalid hyperlink - no URL match")

func scheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// BaseURL returns scheme://host for the request.
func BaseURL(r *http.Request) string {
	return scheme(r) + "://" + r.Host
}

// ListLink is the absolute URL of a resource collection.
func ListLink(r *http.Request, resource string) string {
	return BaseURL(r) + Prefix + "/" + resource
}

// Link is the absolute URL of a single record.
func Link(r *http.Request, resource string, id uint) string {
	return ListLink(r, resource) + "/" + strconv.FormatUint(uint64(id), 10)
}

// ParseLink resolves a hyperlink written by a client back to a record id.
// Absolute URLs and bare paths are both accepted.
func ParseLink(raw, resource string) (uint, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Path == "" {
		return 0, errNoURLMatch
	}

	path := strings.TrimSuffix(u.Path, "/")
	rest, ok := strings.CutPrefix(path, Prefix+"/")
	if !ok {
		return 0, errNoURLMatch
	}
	name, idStr, ok := strings.Cut(rest, "/")
	if !ok || strings.Contains(idStr, "/") {
		return 0, errNoURLMatch
	}
	if name != resource {
		return 0, fmt.Errorf("invalid hyperlink - expected a %s link", resource)
	}

	id, err := strconv.ParseUint(idStr, 10, 0)
	if err != nil || id == 0 {
		return 0, errNoURLMatch
	}
	return uint(id), nil
}

// PathID reads the {id} path value. Ids that cannot name a record are
// reported as notFound.
func PathID(r *http.Request, notFound error) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, notFound
	}
	return uint(id), nil
}
