package route

import (
	"fmt"
	"strconv"
	"strings"
)

// Type is the kernel route type (rtm_type).
type Type uint8

const (
	TypeUnspec Type = iota
	TypeUnicast
	TypeLocal
	TypeBroadcast
	TypeAnycast
	TypeMulticast
	TypeBlackhole
	TypeUnreachable
	TypeProhibit
	TypeThrow
	TypeNAT
	TypeXResolve
)

var typeNames = map[Type]string{
	TypeUnspec:      "unspec",
	TypeUnicast:     "unicast",
	TypeLocal:       "local",
	TypeBroadcast:   "broadcast",
	TypeAnycast:     "anycast",
	TypeMulticast:   "multicast",
	TypeBlackhole:   "blackhole",
	TypeUnreachable: "unreachable",
	TypeProhibit:    "prohibit",
	TypeThrow:       "throw",
	TypeNAT:         "nat",
	TypeXResolve:    "xresolve",
}

// Proto is the routing protocol that installed a route (rtm_protocol).
type Proto uint8

const (
	ProtoUnspec     Proto = 0
	ProtoRedirect   Proto = 1
	ProtoKernel     Proto = 2
	ProtoBoot       Proto = 3
	ProtoStatic     Proto = 4
	ProtoGated      Proto = 8
	ProtoRA         Proto = 9
	ProtoMRT        Proto = 10
	ProtoZebra      Proto = 11
	ProtoBird       Proto = 12
	ProtoDNRouted   Proto = 13
	ProtoXORP       Proto = 14
	ProtoNTK        Proto = 15
	ProtoDHCP       Proto = 16
	ProtoMRouted    Proto = 17
	ProtoKeepalived Proto = 18
	ProtoBabel      Proto = 42
	ProtoBGP        Proto = 186
	ProtoISIS       Proto = 187
	ProtoOSPF       Proto = 188
	ProtoRIP        Proto = 189
	ProtoEIGRP      Proto = 192
)

var protoNames = map[Proto]string{
	ProtoUnspec:     "unspec",
	ProtoRedirect:   "redirect",
	ProtoKernel:     "kernel",
	ProtoBoot:       "boot",
	ProtoStatic:     "static",
	ProtoGated:      "gated",
	ProtoRA:         "ra",
	ProtoMRT:        "mrt",
	ProtoZebra:      "zebra",
	ProtoBird:       "bird",
	ProtoDNRouted:   "dnrouted",
	ProtoXORP:       "xorp",
	ProtoNTK:        "ntk",
	ProtoDHCP:       "dhcp",
	ProtoMRouted:    "mrouted",
	ProtoKeepalived: "keepalived",
	ProtoBabel:      "babel",
	ProtoBGP:        "bgp",
	ProtoISIS:       "isis",
	ProtoOSPF:       "ospf",
	ProtoRIP:        "rip",
	ProtoEIGRP:      "eigrp",
}

// Scope is the route scope (rtm_scope).
type Scope uint8

const (
	ScopeUniverse Scope = 0
	ScopeSite     Scope = 200
	ScopeLink     Scope = 253
	ScopeHost     Scope = 254
	ScopeNowhere  Scope = 255
)

var scopeNames = map[Scope]string{
	ScopeUniverse: "universe",
	ScopeSite:     "site",
	ScopeLink:     "link",
	ScopeHost:     "host",
	ScopeNowhere:  "nowhere",
}

func (t Type) String() string { return enumString(typeNames, t) }
func (p Proto) String() string { return enumString(protoNames, p) }
func (s Scope) String() string { return enumString(scopeNames, s) }

// ParseType accepts a type name in any case or its decimal value.
func ParseType(s string) (Type, error) {
	t, err := parseEnum(typeNames, "route type", s)
	if err != nil {
		return TypeUnspec, err
	}
	if t > TypeXResolve {
		return TypeUnspec, fmt.Errorf("route type %d out of range", t)
	}
	return t, nil
}

// ParseProto accepts a protocol name in any case or any value 0-255.
func ParseProto(s string) (Proto, error) {
	return parseEnum(protoNames, "route protocol", s)
}

// ParseScope accepts a scope name in any case or any value 0-255.
func ParseScope(s string) (Scope, error) {
	return parseEnum(scopeNames, "route scope", s)
}

func enumString[T ~uint8](names map[T]string, v T) string {
	if name, ok := names[v]; ok {
		return name
	}
	return strconv.Itoa(int(v))
}

func parseEnum[T ~uint8](names map[T]string, kind, s string) (T, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for v, name := range names {
		if name == key {
			return v, nil
		}
	}
	n, err := strconv.ParseUint(key, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown %s %q", kind, s)
	}
	return T(n), nil
}

// MarshalText renders the name, so JSON shows "static" rather than 4.
func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }
func (p Proto) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
func (s Scope) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
