package networking

import (
	"github.com/vishvananda/netlink"
)

// Netlinker abstracts the netlink calls zelus makes against the kernel.
// SystemNetlinker is the production implementation; tests provide fakes.
type Netlinker interface {
	// Links and addresses
	LinkList() ([]netlink.Link, error)
	AddrList(link netlink.Link, family int) ([]netlink.Addr, error)

	// Routes
	RouteListFiltered(family int, filter *netlink.Route, filterMask uint64) ([]netlink.Route, error)
	RouteAdd(route *netlink.Route) error
	RouteDel(route *netlink.Route) error

	// RouteSubscribe delivers RTM_NEWROUTE/RTM_DELROUTE notifications for IPv4
	// and IPv6 until done is closed. ch is closed when the subscription ends.
	RouteSubscribe(ch chan<- netlink.RouteUpdate, done <-chan struct{}, onError func(error)) error
}

// SystemNetlinker talks to the kernel of the current network namespace.
type SystemNetlinker struct {
	*netlink.Handle
}

var _ Netlinker = (*SystemNetlinker)(nil)

// NewNetlinker opens a netlink handle in the current network namespace.
func NewNetlinker() (*SystemNetlinker, error) {
	h, err := netlink.NewHandle()
	if err != nil {
		return nil, err
	}
	return &SystemNetlinker{Handle: h}, nil
}

// RouteSubscribe implements Netlinker.
func (s *SystemNetlinker) RouteSubscribe(ch chan<- netlink.RouteUpdate, done <-chan struct{}, onError func(error)) error {
	return netlink.RouteSubscribeWithOptions(ch, done, netlink.RouteSubscribeOptions{
		ErrorCallback: onError,
	})
}
