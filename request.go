// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package request

import "fmt"

// Version is the request format version stamped on every Request.
const Version uint8 = 1

// ID identifies an object created through a request (board, dat, tex...).
// IDs are opaque; the zero value IDNone is never issued.
type ID uint64

// IDNone is the sentinel for "no object".
const IDNone ID = 0

// String returns the ID in hexadecimal form.
func (id ID) String() string {
	return fmt.Sprintf("0x%016x", uint64(id))
}

// Action is the verb of a request.
type Action uint8

const (
	ActionNone   Action = iota
	ActionCreate        // Create a new object
	ActionDelete        // Delete an existing object
	ActionResize        // Resize an existing object
	ActionUpdate        // Re-execute an object's recorded commands
	ActionUpload        // Upload bytes into an object
	ActionSet           // Set a property of an object
	ActionBind          // Bind a resource to a pipeline slot
	ActionRecord        // Append a command-buffer record
)

var actionNames = [...]string{
	ActionNone:   "None",
	ActionCreate: "Create",
	ActionDelete: "Delete",
	ActionResize: "Resize",
	ActionUpdate: "Update",
	ActionUpload: "Upload",
	ActionSet:    "Set",
	ActionBind:   "Bind",
	ActionRecord: "Record",
}

// String returns the string representation of an Action.
func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "Unknown"
}

// Object is the target type of a request.
type Object uint8

const (
	ObjectNone Object = iota
	ObjectBoard
	ObjectCanvas
	ObjectDat
	ObjectTex
	ObjectSampler
	ObjectGraphics
	ObjectBackground
	ObjectVertex
	ObjectRecord
)

var objectNames = [...]string{
	ObjectNone:       "None",
	ObjectBoard:      "Board",
	ObjectCanvas:     "Canvas",
	ObjectDat:        "Dat",
	ObjectTex:        "Tex",
	ObjectSampler:    "Sampler",
	ObjectGraphics:   "Graphics",
	ObjectBackground: "Background",
	ObjectVertex:     "Vertex",
	ObjectRecord:     "Record",
}

// String returns the string representation of an Object.
func (o Object) String() string {
	if int(o) < len(objectNames) {
		return objectNames[o]
	}
	return "Unknown"
}

// Kind is the (action, object) pair that determines how a request is
// executed. Kind is comparable and is used as a routing key by backends.
type Kind struct {
	Action Action
	Object Object
}

// String renders the kind as ActionObject, e.g. "CreateBoard".
// Record requests render as "Record".
func (k Kind) String() string {
	if k.Action == ActionRecord && k.Object == ObjectRecord {
		return "Record"
	}
	return k.Action.String() + k.Object.String()
}

// Request kinds emitted by Requester.
var (
	KindCreateBoard   = Kind{ActionCreate, ObjectBoard}
	KindUpdateBoard   = Kind{ActionUpdate, ObjectBoard}
	KindResizeBoard   = Kind{ActionResize, ObjectBoard}
	KindSetBackground = Kind{ActionSet, ObjectBackground}
	KindDeleteBoard   = Kind{ActionDelete, ObjectBoard}

	KindCreateCanvas = Kind{ActionCreate, ObjectCanvas}
	KindDeleteCanvas = Kind{ActionDelete, ObjectCanvas}

	KindCreateDat = Kind{ActionCreate, ObjectDat}
	KindResizeDat = Kind{ActionResize, ObjectDat}
	KindUploadDat = Kind{ActionUpload, ObjectDat}
	KindDeleteDat = Kind{ActionDelete, ObjectDat}

	KindCreateTex = Kind{ActionCreate, ObjectTex}
	KindResizeTex = Kind{ActionResize, ObjectTex}
	KindUploadTex = Kind{ActionUpload, ObjectTex}
	KindDeleteTex = Kind{ActionDelete, ObjectTex}

	KindCreateSampler = Kind{ActionCreate, ObjectSampler}
	KindDeleteSampler = Kind{ActionDelete, ObjectSampler}

	KindCreateGraphics = Kind{ActionCreate, ObjectGraphics}
	KindSetVertex      = Kind{ActionSet, ObjectVertex}
	KindBindDat        = Kind{ActionBind, ObjectDat}
	KindBindTex        = Kind{ActionBind, ObjectTex}
	KindDeleteGraphics = Kind{ActionDelete, ObjectGraphics}

	KindRecord = Kind{ActionRecord, ObjectRecord}
)

// Kinds returns every kind a Requester can emit, in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindCreateBoard, KindUpdateBoard, KindResizeBoard, KindSetBackground, KindDeleteBoard,
		KindCreateCanvas, KindDeleteCanvas,
		KindCreateDat, KindResizeDat, KindUploadDat, KindDeleteDat,
		KindCreateTex, KindResizeTex, KindUploadTex, KindDeleteTex,
		KindCreateSampler, KindDeleteSampler,
		KindCreateGraphics, KindSetVertex, KindBindDat, KindBindTex, KindDeleteGraphics,
		KindRecord,
	}
}

// Request is an immutable record of one intended effect on the backend.
//
// ID is the object the request creates or targets. Content carries the
// kind-specific parameters; its concrete type is determined by Kind.
type Request struct {
	Version uint8
	Kind    Kind
	ID      ID
	Flags   int
	Content Content
}

// String returns a short description for logs.
func (r Request) String() string {
	return fmt.Sprintf("%s <id %s>", r.Kind, r.ID)
}

// Clone returns a deep copy of the request. Byte payloads are copied.
func (r Request) Clone() Request {
	if r.Content != nil {
		r.Content = r.Content.clone()
	}
	return r
}

// RequestLog is an ordered sequence of requests. Order defines execution
// order.
type RequestLog []Request

// Len returns the number of requests in the log.
func (l RequestLog) Len() int {
	return len(l)
}

// Kinds returns the kind of each request, in log order.
func (l RequestLog) Kinds() []Kind {
	kinds := make([]Kind, len(l))
	for i, req := range l {
		kinds[i] = req.Kind
	}
	return kinds
}

// Clone returns a deep copy of the log.
func (l RequestLog) Clone() RequestLog {
	if l == nil {
		return nil
	}
	out := make(RequestLog, len(l))
	for i, req := range l {
		out[i] = req.Clone()
	}
	return out
}
