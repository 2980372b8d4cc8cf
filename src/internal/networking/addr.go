package networking

import (
	"net"
	"net/netip"
)

// AddrFromIP converts a netlink address to netip form. IPv4 addresses delivered
// as 16-byte slices are unmapped so they compare equal to parsed dotted quads.
// A nil or malformed ip yields the zero Addr.
func AddrFromIP(ip net.IP) netip.Addr {
	if len(ip) == 0 {
		return netip.Addr{}
	}
	addr, ok := netip.AddrFromSlice(ip)
	if !ok {
		return netip.Addr{}
	}
	return addr.Unmap()
}

// PrefixFromIPNet converts n to a netip.Prefix keeping the host bits.
func PrefixFromIPNet(n *net.IPNet) (netip.Prefix, bool) {
	if n == nil {
		return netip.Prefix{}, false
	}
	addr := AddrFromIP(n.IP)
	if !addr.IsValid() {
		return netip.Prefix{}, false
	}
	ones, bits := n.Mask.Size()
	if bits == 0 {
		return netip.Prefix{}, false
	}
	if addr.Is4() && bits == 128 {
		ones -= 96
	}
	return netip.PrefixFrom(addr, ones), true
}

// IPNetFromPrefix is the inverse of PrefixFromIPNet; the address is masked.
func IPNetFromPrefix(p netip.Prefix) *net.IPNet {
	masked := p.Masked()
	return &net.IPNet{
		IP:   net.IP(masked.Addr().AsSlice()),
		Mask: net.CIDRMask(masked.Bits(), masked.Addr().BitLen()),
	}
}
