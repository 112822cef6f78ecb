package assistant

import "strings"

// CORSPolicy computes the Access-Control-Allow-Origin value for the assistant
// endpoint. Unknown origins fall back to the first static allowed origin,
// never to a wildcard.
type CORSPolicy struct {
	AllowedOrigins []string // static allow-list; first entry is the fail-closed default
	CustomDomain   string   // optional deployment domain, host only
	ProjectDomain  string   // derived platform domain, host only
}

// trusted hosting-platform suffixes for preview deployments
var trustedSuffixes = []string{".lovable.app", ".lovable.dev"}

func (p CORSPolicy) AllowOrigin(origin string) string {
	if origin != "" {
		for _, o := range p.AllowedOrigins {
			if o == origin {
				return origin
			}
		}
		host := strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://")
		for _, suffix := range trustedSuffixes {
			if strings.HasSuffix(host, suffix) {
				return origin
			}
		}
		if p.CustomDomain != "" && host == p.CustomDomain {
			return origin
		}
		if p.ProjectDomain != "" && host == p.ProjectDomain {
			return origin
		}
	}
	if len(p.AllowedOrigins) > 0 {
		return p.AllowedOrigins[0]
	}
	return ""
}

// Headers returns the full CORS header set for a request origin.
func (p CORSPolicy) Headers(origin string) map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  p.AllowOrigin(origin),
		"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type",
		"Access-Control-Allow-Methods": "POST, OPTIONS",
	}
}
