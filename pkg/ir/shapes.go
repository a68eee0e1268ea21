package ir

import (
	"strconv"
	"strings"
)

// RequestMode selects how an operation's inputs are grouped
type RequestMode string

const (
	RequestFlat RequestMode = "flat"
	RequestFull RequestMode = "full"
)

// RequestShape is the input type of an operation. In flat mode Flat holds the
// whole shape; in full mode each non-empty group is set.
type RequestShape struct {
	Mode    RequestMode `json:"mode" yaml:"mode"`
	Flat    *Type       `json:"flat,omitempty" yaml:"flat,omitempty"`
	Body    *Type       `json:"body,omitempty" yaml:"body,omitempty"`
	Path    *Type       `json:"path,omitempty" yaml:"path,omitempty"`
	Query   *Type       `json:"query,omitempty" yaml:"query,omitempty"`
	Headers *Type       `json:"headers,omitempty" yaml:"headers,omitempty"`
	// BodyContentType is the media type the body was synthesized from
	BodyContentType string `json:"bodyContentType,omitempty" yaml:"bodyContentType,omitempty"`
	BodyRequired    bool   `json:"bodyRequired,omitempty" yaml:"bodyRequired,omitempty"`
}

// ContentKind classifies a response payload
type ContentKind string

const (
	ContentJSON    ContentKind = "json"
	ContentText    ContentKind = "text"
	ContentBlob    ContentKind = "blob"
	ContentEmpty   ContentKind = "empty"
	ContentUnknown ContentKind = "unknown"
)

// StatusCode is an exact code ("200"), a range ("2XX") or the default response
type StatusCode struct {
	Code    int  `json:"code,omitempty" yaml:"code,omitempty"`
	Range   int  `json:"range,omitempty" yaml:"range,omitempty"`
	Default bool `json:"default,omitempty" yaml:"default,omitempty"`
}

// ParseStatusCode parses a response key. Range keys are accepted in any case.
func ParseStatusCode(key string) (StatusCode, bool) {
	key = strings.TrimSpace(key)
	if key == "default" {
		return StatusCode{Default: true}, true
	}
	if len(key) != 3 || key[0] < '1' || key[0] > '5' {
		return StatusCode{}, false
	}
	if strings.EqualFold(key[1:], "xx") {
		return StatusCode{Range: int(key[0] - '0')}, true
	}
	code, err := strconv.Atoi(key)
	if err != nil {
		return StatusCode{}, false
	}
	return StatusCode{Code: code}, true
}

// IsSuccess reports whether the status is 2xx, exact or as a range
func (s StatusCode) IsSuccess() bool {
	return s.Range == 2 || (s.Code >= 200 && s.Code < 300)
}

// String renders the status key in canonical form
func (s StatusCode) String() string {
	switch {
	case s.Default:
		return "default"
	case s.Range > 0:
		return strconv.Itoa(s.Range) + "XX"
	}
	return strconv.Itoa(s.Code)
}

// ResponseMember is one declared status code of an operation
type ResponseMember struct {
	Status      StatusCode  `json:"status" yaml:"status"`
	Type        Type        `json:"type" yaml:"type"`
	IsArray     bool        `json:"isArray" yaml:"isArray"`
	Content     ContentKind `json:"content" yaml:"content"`
	ContentType string      `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Headers     *Type       `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// ResponseUnion is the ordered set of response members. Wrapped means callers
// must receive status and headers alongside the body.
type ResponseUnion struct {
	Members []ResponseMember `json:"members" yaml:"members"`
	Wrapped bool             `json:"wrapped" yaml:"wrapped"`
}

// Union combines the member types
func (r ResponseUnion) Union() Type {
	members := make([]Type, 0, len(r.Members))
	for _, m := range r.Members {
		members = append(members, m.Type)
	}
	return NewUnion(members...)
}

// Success returns the 2xx members
func (r ResponseUnion) Success() []ResponseMember {
	var out []ResponseMember
	for _, m := range r.Members {
		if m.Status.IsSuccess() {
			out = append(out, m)
		}
	}
	return out
}
