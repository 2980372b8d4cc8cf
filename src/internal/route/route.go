package route

import (
	"fmt"
	"net"
	"net/netip"
	"strings"

	"github.com/vishvananda/netlink"

	"github.com/zelus-routing/zelus/src/internal/errors"
	"github.com/zelus-routing/zelus/src/internal/networking"
)

// Route is an immutable snapshot of one kernel route. Routes are compared by
// value: two routes are equal when every field is equal.
//
// An absent gateway or preferred source is the zero netip.Addr, an absent
// input or output interface is 0. A default route has Dst set to the
// unspecified address of its family and DstLen 0.
type Route struct {
	Family  int        `json:"family"`
	Dst     netip.Addr `json:"dst"`
	DstLen  int        `json:"dst_len"`
	// SrcLen is always 0: netlink.Route carries no source prefix length.
	SrcLen  int        `json:"src_len"`
	Tos     int        `json:"tos"`
	Table   int        `json:"table"`
	Proto   Proto      `json:"proto"`
	Scope   Scope      `json:"scope"`
	Type    Type       `json:"type"`
	Gateway netip.Addr `json:"gateway"`
	PrefSrc netip.Addr `json:"prefsrc"`
	IIF     int        `json:"iif"`
	OIF     int        `json:"oif"`
}

// Equal reports whether r and other describe the same route.
func (r Route) Equal(other Route) bool {
	return r == other
}

// Prefix returns the destination prefix.
func (r Route) Prefix() netip.Prefix {
	return netip.PrefixFrom(r.Dst, r.DstLen)
}

// String renders the route in ip-route order with numeric ids.
func (r Route) String() string {
	var b strings.Builder
	if r.Type != TypeUnicast {
		b.WriteString(r.Type.String())
		b.WriteByte(' ')
	}
	if r.DstLen == 0 && r.Dst.IsUnspecified() {
		b.WriteString("default")
	} else {
		b.WriteString(r.Prefix().String())
	}
	if r.Tos != 0 {
		fmt.Fprintf(&b, " tos %d", r.Tos)
	}
	if r.Gateway.IsValid() {
		fmt.Fprintf(&b, " via %s", r.Gateway)
	}
	if r.OIF != 0 {
		fmt.Fprintf(&b, " dev %d", r.OIF)
	}
	if r.IIF != 0 {
		fmt.Fprintf(&b, " iif %d", r.IIF)
	}
	fmt.Fprintf(&b, " table %d proto %s scope %s", r.Table, r.Proto, r.Scope)
	if r.PrefSrc.IsValid() {
		fmt.Fprintf(&b, " src %s", r.PrefSrc)
	}
	return b.String()
}

// Key renders every field, family included, so that distinct routes never
// share a key. String drops the family and prints both default routes alike.
func (r Route) Key() string {
	return fmt.Sprintf("%d %s/%d %d %d %d %d %d %d %s %s %d %d",
		r.Family, r.Dst, r.DstLen, r.SrcLen, r.Tos, r.Table,
		r.Proto, r.Scope, r.Type, r.Gateway, r.PrefSrc, r.IIF, r.OIF)
}

// ToNetlink converts r to a netlink request. The destination is always set,
// including 0.0.0.0/0 for default routes. The input interface is not sent;
// the kernel does not accept it on route add.
func (r Route) ToNetlink() *netlink.Route {
	nr := &netlink.Route{
		Family:    r.Family,
		Dst:       networking.IPNetFromPrefix(r.Prefix()),
		Tos:       r.Tos,
		Table:     r.Table,
		Protocol:  netlink.RouteProtocol(r.Proto),
		Scope:     netlink.Scope(r.Scope),
		Type:      int(r.Type),
		LinkIndex: r.OIF,
	}
	if r.Gateway.IsValid() {
		nr.Gw = net.IP(r.Gateway.AsSlice())
	}
	if r.PrefSrc.IsValid() {
		nr.Src = net.IP(r.PrefSrc.AsSlice())
	}
	return nr
}

// Add installs r in the kernel.
func (r Route) Add(nl networking.Netlinker) error {
	if err := nl.RouteAdd(r.ToNetlink()); err != nil {
		return errors.NewNetworkError(fmt.Sprintf("failed to add route %s", r), err)
	}
	return nil
}

// Delete removes r from the kernel.
func (r Route) Delete(nl networking.Netlinker) error {
	if err := nl.RouteDel(r.ToNetlink()); err != nil {
		return errors.NewNetworkError(fmt.Sprintf("failed to delete route %s", r), err)
	}
	return nil
}

// FromNetlink converts a route reported by the kernel. Missing attributes
// become zero values; it never fails.
func FromNetlink(nr netlink.Route) Route {
	r := Route{
		Family:  nr.Family,
		Tos:     nr.Tos,
		Table:   nr.Table,
		Proto:   Proto(nr.Protocol),
		Scope:   Scope(nr.Scope),
		Type:    Type(nr.Type),
		Gateway: networking.AddrFromIP(nr.Gw),
		PrefSrc: networking.AddrFromIP(nr.Src),
		IIF:     nr.ILinkIndex,
		OIF:     nr.LinkIndex,
	}

	if prefix, ok := networking.PrefixFromIPNet(nr.Dst); ok {
		prefix = prefix.Masked()
		r.Dst = prefix.Addr()
		r.DstLen = prefix.Bits()
	}

	if r.Family == 0 {
		switch {
		case r.Dst.IsValid():
			r.Family = familyOf(r.Dst)
		case r.Gateway.IsValid():
			r.Family = familyOf(r.Gateway)
		default:
			r.Family = netlink.FAMILY_V4
		}
	}
	if !r.Dst.IsValid() {
		r.Dst = unspecified(r.Family)
		r.DstLen = 0
	}

	return r
}

func familyOf(addr netip.Addr) int {
	if addr.Is4() {
		return netlink.FAMILY_V4
	}
	return netlink.FAMILY_V6
}

func unspecified(family int) netip.Addr {
	if family == netlink.FAMILY_V6 {
		return netip.IPv6Unspecified()
	}
	return netip.IPv4Unspecified()
}
