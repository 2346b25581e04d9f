package render

import (
	"errors"
	"strings"

	"github.com/shuliakovsky/wg-endpoints/pkg/peers"
)

var (
	errUnknownField = errors.New("unknown field")
	errUnclosed     = errors.New("unclosed '{'")
	errSingleClose  = errors.New("single '}' encountered")
)

// Fill substitutes {field} placeholders with values from p. Supported fields
// are name, endpoint, endpoint_host and endpoint_port; {<peer name>[field]}
// is accepted for p itself. Literal braces are written as {{ and }}.
func Fill(tmpl string, p peers.Peer) (string, error) {
	var b strings.Builder
	b.Grow(len(tmpl))

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", &RenderError{Err: errUnclosed}
			}
			ref := tmpl[i+1 : i+1+end]
			v, err := lookup(ref, p)
			if err != nil {
				return "", err
			}
			b.WriteString(v)
			i += end + 1
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", &RenderError{Err: errSingleClose}
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func lookup(ref string, p peers.Peer) (string, error) {
	field := ref
	if open := strings.IndexByte(ref, '['); open >= 0 && strings.HasSuffix(ref, "]") {
		if ref[:open] != p.Name {
			return "", &RenderError{Field: ref, Err: errUnknownField}
		}
		field = ref[open+1 : len(ref)-1]
	}
	switch field {
	case "name":
		return p.Name, nil
	case "endpoint":
		return p.Endpoint, nil
	case "endpoint_host":
		return p.EndpointHost, nil
	case "endpoint_port":
		return p.EndpointPort, nil
	}
	return "", &RenderError{Field: ref, Err: errUnknownField}
}
