// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package journal

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/request"
)

// encodeContent renders c as YAML. Upload payloads are split off and
// returned separately so they can be stored as a BLOB.
func encodeContent(c request.Content) (string, []byte, error) {
	var payload []byte
	switch v := c.(type) {
	case nil:
		return "", nil, nil
	case request.DatUploadContent:
		payload, v.Data = v.Data, nil
		c = v
	case request.TexUploadContent:
		payload, v.Data = v.Data, nil
		c = v
	}
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", nil, fmt.Errorf("encode content: %w", err)
	}
	return string(out), payload, nil
}

// decodeContent is the inverse of encodeContent; the concrete content
// type is selected by kind.
func decodeContent(kind request.Kind, text string, payload []byte) (request.Content, error) {
	switch kind {
	case request.KindUpdateBoard, request.KindDeleteBoard, request.KindDeleteCanvas,
		request.KindDeleteDat, request.KindDeleteTex, request.KindDeleteSampler,
		request.KindDeleteGraphics:
		if text != "" {
			return nil, fmt.Errorf("unexpected content for %s", kind)
		}
		return nil, nil
	case request.KindCreateBoard, request.KindResizeBoard, request.KindSetBackground:
		return decode[request.BoardContent](text)
	case request.KindCreateCanvas:
		return decode[request.CanvasContent](text)
	case request.KindCreateDat, request.KindResizeDat:
		return decode[request.DatContent](text)
	case request.KindUploadDat:
		c, err := decode[request.DatUploadContent](text)
		c.Data = payload
		return c, err
	case request.KindCreateTex, request.KindResizeTex:
		return decode[request.TexContent](text)
	case request.KindUploadTex:
		c, err := decode[request.TexUploadContent](text)
		c.Data = payload
		return c, err
	case request.KindCreateSampler:
		return decode[request.SamplerContent](text)
	case request.KindCreateGraphics:
		return decode[request.GraphicsContent](text)
	case request.KindSetVertex:
		return decode[request.VertexContent](text)
	case request.KindBindDat:
		return decode[request.BindDatContent](text)
	case request.KindBindTex:
		return decode[request.BindTexContent](text)
	case request.KindRecord:
		return decode[request.RecordContent](text)
	}
	return nil, fmt.Errorf("%w: unknown kind %s", request.ErrInvalidRequest, kind)
}

func decode[T any](text string) (T, error) {
	var c T
	if err := yaml.Unmarshal([]byte(text), &c); err != nil {
		return c, fmt.Errorf("decode content: %w", err)
	}
	return c, nil
}

// entry is the human-readable form of a request written by Dump.
type entry struct {
	Index   int             `yaml:"index"`
	Kind    string          `yaml:"kind"`
	ID      string          `yaml:"id"`
	Flags   int             `yaml:"flags,omitempty"`
	Content request.Content `yaml:"content,omitempty"`
	Payload int             `yaml:"payload,omitempty"` // bytes
}

// Dump writes log to w as a YAML sequence, one entry per request.
// Upload payloads are summarized by their length.
func Dump(w io.Writer, log request.RequestLog) error {
	entries := make([]entry, len(log))
	for i, req := range log {
		e := entry{Index: i, Kind: req.Kind.String(), ID: req.ID.String(), Flags: req.Flags}
		switch v := req.Content.(type) {
		case request.DatUploadContent:
			e.Payload, v.Data = len(v.Data), nil
			e.Content = v
		case request.TexUploadContent:
			e.Payload, v.Data = len(v.Data), nil
			e.Content = v
		default:
			e.Content = req.Content
		}
		entries[i] = e
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("journal: dump: %w", err)
	}
	return enc.Close()
}
