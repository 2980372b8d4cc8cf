package route

import (
	"fmt"
	"net/netip"

	"github.com/sirupsen/logrus"

	"github.com/zelus-routing/zelus/src/internal/config"
	"github.com/zelus-routing/zelus/src/internal/errors"
	"github.com/zelus-routing/zelus/src/internal/log"
)

const (
	DefaultProto = ProtoStatic
	DefaultScope = ScopeUniverse
	DefaultType  = TypeUnicast
)

// Resolver maps a symbolic name to a kernel id.
// networking.InterfaceMap and networking.TableMap implement it.
type Resolver interface {
	NameToID(name string) (int, error)
}

// Builder turns route specs from the routes file into Route values.
type Builder struct {
	interfaces Resolver
	tables     Resolver
	logger     logrus.FieldLogger
}

func NewBuilder(interfaces, tables Resolver, logger logrus.FieldLogger) *Builder {
	return &Builder{
		interfaces: interfaces,
		tables:     tables,
		logger:     logger,
	}
}

// Build resolves spec into a Route.
//
// Unknown proto, scope or type values fall back to static, universe and
// unicast and are logged as critical; they never fail the build. Interface
// and table names that cannot be resolved return a RESOLUTION_ERROR so the
// caller can drop the entry. Malformed addresses and lengths return a
// VALIDATION_ERROR.
func (b *Builder) Build(spec config.RouteSpec) (Route, error) {
	var r Route

	gateway, err := parseOptionalAddr("gateway", spec.Gateway)
	if err != nil {
		return Route{}, err
	}
	prefsrc, err := parseOptionalAddr("prefsrc", spec.PrefSrc)
	if err != nil {
		return Route{}, err
	}

	if spec.Dst == "" {
		r.Dst = netip.IPv4Unspecified()
		if gateway.IsValid() && gateway.Is6() {
			r.Dst = netip.IPv6Unspecified()
		}
		r.DstLen = 0
	} else {
		dst, err := netip.ParseAddr(spec.Dst)
		if err != nil {
			return Route{}, errors.NewValidationError(fmt.Sprintf("invalid dst %q", spec.Dst), err)
		}
		r.Dst = dst.Unmap().WithZone("")
		r.DstLen = r.Dst.BitLen()
	}
	r.Family = familyOf(r.Dst)

	if spec.DstLen != nil {
		r.DstLen = *spec.DstLen
	}
	if r.DstLen < 0 || r.DstLen > r.Dst.BitLen() {
		return Route{}, errors.NewValidationError(fmt.Sprintf("invalid dst_len %d for %s", r.DstLen, r.Dst), nil)
	}
	// The kernel stores destinations with host bits cleared.
	r.Dst = netip.PrefixFrom(r.Dst, r.DstLen).Masked().Addr()

	if spec.SrcLen != 0 {
		return Route{}, errors.NewValidationError("source prefixes (src_len) are not supported", nil)
	}
	if spec.Tos < 0 || spec.Tos > 255 {
		return Route{}, errors.NewValidationError(fmt.Sprintf("invalid tos %d", spec.Tos), nil)
	}
	r.Tos = spec.Tos

	for _, addr := range []netip.Addr{gateway, prefsrc} {
		if addr.IsValid() && familyOf(addr) != r.Family {
			return Route{}, errors.NewValidationError(fmt.Sprintf("address %s does not match the family of %s", addr, r.Dst), nil)
		}
	}
	r.Gateway = gateway
	r.PrefSrc = prefsrc

	r.Table, err = b.tables.NameToID(spec.TableOrDefault())
	if err != nil {
		return Route{}, err
	}
	if spec.IInterface != "" {
		if r.IIF, err = b.interfaces.NameToID(spec.IInterface); err != nil {
			return Route{}, err
		}
	}
	if spec.OInterface != "" {
		if r.OIF, err = b.interfaces.NameToID(spec.OInterface); err != nil {
			return Route{}, err
		}
	}

	r.Proto = coerce(b.logger, "proto", spec.Proto, ParseProto, DefaultProto)
	r.Scope = coerce(b.logger, "scope", spec.Scope, ParseScope, DefaultScope)
	r.Type = coerce(b.logger, "type", spec.Type, ParseType, DefaultType)

	return r, nil
}

func coerce[T any](logger logrus.FieldLogger, field, value string, parse func(string) (T, error), def T) T {
	if value == "" {
		return def
	}
	v, err := parse(value)
	if err != nil {
		log.Critical(logger).WithError(err).WithFields(logrus.Fields{
			"field":   field,
			"value":   value,
			"default": def,
		}).Error("Invalid route attribute, using default")
		return def
	}
	return v
}

func parseOptionalAddr(field, value string) (netip.Addr, error) {
	if value == "" {
		return netip.Addr{}, nil
	}
	addr, err := netip.ParseAddr(value)
	if err != nil {
		return netip.Addr{}, errors.NewValidationError(fmt.Sprintf("invalid %s %q", field, value), err)
	}
	return addr.Unmap().WithZone(""), nil
}
