package asset

import (
	"encoding/json"
	"strconv"
	"strings"
)

// HatType classifies what a hat part does to the head it sits on. Head
// meshes carry one morph target per hat type.
type HatType int

const (
	HatHeadReplacement HatType = iota
	HatCap
	HatMask
	HatHelmet
	HatHat
)

var hatTypeNames = [...]string{"HeadReplacement", "Cap", "Mask", "Helmet", "Hat"}

// String returns the exporter name of the hat type.
func (t HatType) String() string {
	if t < 0 || int(t) >= len(hatTypeNames) {
		return "HatType(" + strconv.Itoa(int(t)) + ")"
	}
	return hatTypeNames[t]
}

// ParseHatType parses a hat type from its name or index.
func ParseHatType(s string) (HatType, bool) {
	for i, name := range hatTypeNames {
		if s == name {
			return HatType(i), true
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < len(hatTypeNames) {
		return HatType(n), true
	}
	return 0, false
}

// MarshalJSON writes the hat type name.
func (t HatType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// MetaKey names one Meta field for [GatherMeta].
type MetaKey string

const (
	MetaSocket         MetaKey = "Socket"
	MetaAttachToSocket MetaKey = "AttachToSocket"
	MetaSkinColor      MetaKey = "SkinColor"
	MetaMorphNames     MetaKey = "MorphNames"
	MetaHatType        MetaKey = "HatType"
)

// Meta is the part metadata rigport understands. Every field is optional;
// nil pointers and maps mean the key was absent.
type Meta struct {
	Socket         *string           `json:"Socket,omitempty"`
	AttachToSocket bool              `json:"AttachToSocket,omitempty"`
	SkinColor      *Color            `json:"SkinColor,omitempty"`
	MorphNames     map[string]string `json:"MorphNames,omitempty"`
	HatType        *HatType          `json:"HatType,omitempty"`
}

// UnmarshalJSON decodes the known keys and ignores the rest. A HatType that
// is neither a known name nor a valid index is treated as absent.
func (m *Meta) UnmarshalJSON(data []byte) error {
	var raw struct {
		Socket         *string           `json:"Socket"`
		AttachToSocket json.RawMessage   `json:"AttachToSocket"`
		SkinColor      *Color            `json:"SkinColor"`
		MorphNames     map[string]string `json:"MorphNames"`
		HatType        json.RawMessage   `json:"HatType"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Meta{
		Socket:         raw.Socket,
		AttachToSocket: truthy(raw.AttachToSocket),
		SkinColor:      raw.SkinColor,
		MorphNames:     raw.MorphNames,
	}
	if len(raw.HatType) > 0 {
		var s string
		if err := json.Unmarshal(raw.HatType, &s); err != nil {
			s = string(raw.HatType)
		}
		if t, ok := ParseHatType(s); ok {
			m.HatType = &t
		}
	}
	return nil
}

// truthy reports whether a JSON value counts as set. Numbers are true when
// non-zero. Strings that parse as booleans use that value and any other
// non-empty string is true. Null, empty and undecodable values are false.
func truthy(data json.RawMessage) bool {
	if len(data) == 0 {
		return false
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return false
	}
	switch v := v.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
		return v != ""
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}
	return false
}

// SocketName returns the socket the part attaches to, if any.
func (m Meta) SocketName() (string, bool) {
	if m.Socket == nil {
		return "", false
	}
	return *m.Socket, true
}

// AttachesToSocket reports whether a part with this metadata is constrained
// to a socket instead of merged: AttachToSocket must be set and Socket must
// be present and not "Face".
func (m Meta) AttachesToSocket() bool {
	socket, ok := m.SocketName()
	return m.AttachToSocket && ok && socket != "Face"
}

// MorphName returns the morph target selected by HatType.
func (m Meta) MorphName() (string, bool) {
	if m.HatType == nil || m.MorphNames == nil {
		return "", false
	}
	name, ok := m.MorphNames[m.HatType.String()]
	return name, ok && name != ""
}

// Has reports whether the key is present.
func (m Meta) Has(key MetaKey) bool {
	switch key {
	case MetaSocket:
		return m.Socket != nil
	case MetaAttachToSocket:
		return m.AttachToSocket
	case MetaSkinColor:
		return m.SkinColor != nil
	case MetaMorphNames:
		return m.MorphNames != nil
	case MetaHatType:
		return m.HatType != nil
	}
	return false
}

func (m *Meta) copyKey(src Meta, key MetaKey) {
	switch key {
	case MetaSocket:
		m.Socket = src.Socket
	case MetaAttachToSocket:
		m.AttachToSocket = src.AttachToSocket
	case MetaSkinColor:
		m.SkinColor = src.SkinColor
	case MetaMorphNames:
		m.MorphNames = src.MorphNames
	case MetaHatType:
		m.HatType = src.HatType
	}
}

// GatherMeta collects the requested keys from every part that carries them.
// When several parts carry a key, the last one wins.
//
// A head mesh carries MorphNames while the hat that sits on it carries
// HatType, so the two have to be gathered across the whole group.
func GatherMeta(parts []Part, keys ...MetaKey) Meta {
	var out Meta
	for _, p := range parts {
		for _, key := range keys {
			if p.Meta.Has(key) {
				out.copyKey(p.Meta, key)
			}
		}
	}
	return out
}

// ContextKeys returns the meta keys gathered as the material context for a
// part of the given kind.
func ContextKeys(kind string) []MetaKey {
	switch kind {
	case KindBody:
		return []MetaKey{MetaSkinColor}
	case KindHead:
		return []MetaKey{MetaMorphNames, MetaHatType}
	}
	return nil
}
