package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/shuliakovsky/wg-endpoints/pkg/peers"
)

var ErrTemplateNotFound = errors.New("template not found")

// Empty is returned for peers that are unknown or have no endpoint yet.
var Empty = json.RawMessage(`{}`)

// RenderError reports a template that could not be filled in.
type RenderError struct {
	Template string
	Field    string
	Err      error
}

func (e *RenderError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("render %s: field %q: %v", e.Template, e.Field, e.Err)
	}
	return fmt.Sprintf("render %s: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Renderer fills per-peer JSON templates with the peer's current record.
type Renderer struct {
	Templates fs.FS
	Store     *peers.Store
}

func New(dir string, store *peers.Store) *Renderer {
	return &Renderer{Templates: os.DirFS(dir), Store: store}
}

// Render returns the template named templateName filled in with the record
// of peerName. Unknown peers and peers without an endpoint yield Empty.
func (r *Renderer) Render(peerName, templateName string) (json.RawMessage, error) {
	p, err := r.Store.Get(peerName)
	if err != nil || p.Endpoint == "" {
		return Empty, nil
	}

	file := TemplateFile(templateName)
	if !fs.ValidPath(file) {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateName)
	}
	raw, err := fs.ReadFile(r.Templates, file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, file)
	}
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", file, err)
	}

	out, err := Fill(string(raw), p)
	if err != nil {
		var re *RenderError
		if errors.As(err, &re) {
			re.Template = file
		}
		return nil, err
	}
	if !json.Valid([]byte(out)) {
		return nil, &RenderError{Template: file, Err: errors.New("result is not valid JSON")}
	}
	return json.RawMessage(out), nil
}

// TemplateFile maps a template name to its file name. Peer names are base64
// public keys; '/' cannot appear in a file name and is written as '_'.
func TemplateFile(name string) string {
	return strings.ReplaceAll(name, "/", "_") + ".json"
}
