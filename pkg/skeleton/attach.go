package skeleton

import (
	"math"

	"github.com/rigport/rigport/pkg/asset"
	"github.com/rigport/rigport/pkg/errors"
)

// Euler is an XYZ rotation in radians.
type Euler struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180
}

// SocketRotation is the rotation applied to every socket-attached part:
// a quarter turn about Y.
var SocketRotation = Euler{Y: Deg2Rad(90)}

// AttachmentDirective constrains a part's own skeleton to a bone of the
// master skeleton.
type AttachmentDirective struct {
	Child            string `json:"child"`
	ParentSocketName string `json:"socket"`
	ParentBone       string `json:"bone"`
	Rotation         Euler  `json:"rotation"`
}

// NormalizeSocket maps a socket name to the bone that carries it. Hat
// sockets live on the head bone.
func NormalizeSocket(socket string) string {
	if asset.SameName(socket, "hat") {
		return "head"
	}
	return socket
}

// Attach builds the directive for one socket-attached part. child is the
// opaque reference of the part's skeleton. A missing socket yields a
// MISSING_SOCKET error for that part only.
func Attach(child string, meta asset.Meta) (AttachmentDirective, error) {
	socket, ok := meta.SocketName()
	if !ok {
		return AttachmentDirective{}, errors.New(errors.ErrCodeMissingSocket, "part %s has no socket", child)
	}
	socket = NormalizeSocket(socket)
	return AttachmentDirective{
		Child:            child,
		ParentSocketName: socket,
		ParentBone:       socket,
		Rotation:         SocketRotation,
	}, nil
}

// Attachments builds one directive per socket-attached part. refs[i] is the
// skeleton reference of parts[i]. Parts without a socket are skipped and
// their MISSING_SOCKET errors returned alongside the directives.
func Attachments(parts []asset.Part, refs []string) ([]AttachmentDirective, []error) {
	var (
		out     []AttachmentDirective
		skipped []error
	)
	for i, p := range parts {
		ref := p.Path
		if i < len(refs) {
			ref = refs[i]
		}
		d, err := Attach(ref, p.Meta)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		out = append(out, d)
	}
	return out, skipped
}
