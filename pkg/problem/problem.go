// Package problem writes RFC 7807 application/problem+json responses.
package problem

import (
	"encoding/json"
	"net/http"
)

const ContentType = "application/problem+json"

// Type URIs for the problems this API reports. Clients match on these
// rather than on titles.
const (
	TypeBlank          = "about:blank"
	TypeValidation     = "/problems/validation"
	TypeInvalidQuote   = "/problems/invalid-quote"
	TypeUnauthorized   = "/problems/unauthorized"
	TypeForbidden      = "/problems/forbidden"
	TypeNotFound       = "/problems/not-found"
	TypeInvalidState   = "/problems/invalid-state"
	TypeDuplicateClaim = "/problems/duplicate-claim"
	TypeConflict       = "/problems/conflict"
	TypeRateLimited    = "/problems/rate-limited"
	TypeInternal       = "/problems/internal"
)

type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// Extensions are serialized as additional top-level members.
	Extensions map[string]any `json:"-"`
}

func New(typ string, status int, title, detail string) *Problem {
	if typ == "" {
		typ = TypeBlank
	}
	return &Problem{Type: typ, Title: title, Status: status, Detail: detail}
}

// With sets an extension member and returns p for chaining.
func (p *Problem) With(key string, value any) *Problem {
	if p.Extensions == nil {
		p.Extensions = make(map[string]any)
	}
	p.Extensions[key] = value
	return p
}

func (p Problem) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extensions)+5)
	for k, v := range p.Extensions {
		out[k] = v
	}
	out["type"] = p.Type
	out["title"] = p.Title
	out["status"] = p.Status
	if p.Detail != "" {
		out["detail"] = p.Detail
	}
	if p.Instance != "" {
		out["instance"] = p.Instance
	}
	return json.Marshal(out)
}

// Send writes p with its own status code.
func (p *Problem) Send(w http.ResponseWriter) {
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func Write(w http.ResponseWriter, status int, title, detail string) {
	New(TypeBlank, status, title, detail).Send(w)
}
