// Package mocks provides mock implementations for testing.
//
// This package should ONLY be imported in test files (_test.go).
package mocks

import (
	"net"
	"sync"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"github.com/zelus-routing/zelus/src/internal/networking"
)

const eventBuffer = 1024

// FakeKernel is an in-memory routing table implementing networking.Netlinker.
//
// Routes added or deleted through it (or through Inject*) are broadcast to the
// active subscription as RTM_NEWROUTE/RTM_DELROUTE updates, the way the kernel
// notifies RTNLGRP_IPV4_ROUTE listeners. Function fields override the default
// behavior when set.
//
// Example usage:
//
//	kernel := mocks.NewFakeKernel(
//	    mocks.Link{Name: "eth0", Index: 2},
//	)
//	kernel.InjectDel(route)
type FakeKernel struct {
	// LinkListFunc is called by LinkList if not nil
	LinkListFunc func() ([]netlink.Link, error)

	// RouteAddFunc is called by RouteAdd if not nil, before the table is changed.
	// A non-nil error is returned to the caller and the table is left untouched.
	RouteAddFunc func(route *netlink.Route) error

	// RouteDelFunc is called by RouteDel if not nil, with the same semantics.
	RouteDelFunc func(route *netlink.Route) error

	mu         sync.Mutex
	links      []netlink.Link
	addrs      map[int][]netlink.Addr
	routes     []netlink.Route
	events     chan netlink.RouteUpdate
	subscribed bool

	// Track calls for verification in tests
	RouteAddCalls  int
	RouteDelCalls  int
	RouteListCalls int
}

var _ networking.Netlinker = (*FakeKernel)(nil)

// Link is a minimal netlink.Link.
type Link struct {
	Name  string
	Index int
	Addrs []string
}

// Attrs implements netlink.Link.
func (l *Link) Attrs() *netlink.LinkAttrs {
	return &netlink.LinkAttrs{Name: l.Name, Index: l.Index, Flags: net.FlagUp}
}

// Type implements netlink.Link.
func (l *Link) Type() string { return "fake" }

// NewFakeKernel creates a kernel with the given links and an empty routing table.
// Link addresses are given in CIDR notation.
func NewFakeKernel(links ...Link) *FakeKernel {
	k := &FakeKernel{
		addrs:  make(map[int][]netlink.Addr),
		events: make(chan netlink.RouteUpdate, eventBuffer),
	}
	for i := range links {
		link := links[i]
		k.links = append(k.links, &link)
		for _, cidr := range link.Addrs {
			ip, ipnet, err := net.ParseCIDR(cidr)
			if err != nil {
				panic(err)
			}
			ipnet.IP = ip
			k.addrs[link.Index] = append(k.addrs[link.Index], netlink.Addr{IPNet: ipnet})
		}
	}
	return k
}

// LinkList returns the configured links.
func (k *FakeKernel) LinkList() ([]netlink.Link, error) {
	if k.LinkListFunc != nil {
		return k.LinkListFunc()
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]netlink.Link(nil), k.links...), nil
}

// AddrList returns the addresses of link.
func (k *FakeKernel) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]netlink.Addr(nil), k.addrs[link.Attrs().Index]...), nil
}

// RouteListFiltered returns every route when filtering on RT_TABLE_UNSPEC,
// otherwise the routes of filter.Table.
func (k *FakeKernel) RouteListFiltered(family int, filter *netlink.Route, filterMask uint64) ([]netlink.Route, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.RouteListCalls++

	var result []netlink.Route
	for _, r := range k.routes {
		if family != netlink.FAMILY_ALL && r.Family != family {
			continue
		}
		if filter != nil && filterMask&netlink.RT_FILTER_TABLE != 0 &&
			filter.Table != unix.RT_TABLE_UNSPEC && filter.Table != r.Table {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

// RouteAdd installs route, failing with EEXIST when an identical route is present.
func (k *FakeKernel) RouteAdd(route *netlink.Route) error {
	k.mu.Lock()
	k.RouteAddCalls++
	k.mu.Unlock()

	if k.RouteAddFunc != nil {
		if err := k.RouteAddFunc(route); err != nil {
			return err
		}
	}
	return k.InjectAdd(*route)
}

// RouteDel removes route, failing with ESRCH when it is not present.
func (k *FakeKernel) RouteDel(route *netlink.Route) error {
	k.mu.Lock()
	k.RouteDelCalls++
	k.mu.Unlock()

	if k.RouteDelFunc != nil {
		if err := k.RouteDelFunc(route); err != nil {
			return err
		}
	}
	return k.InjectDel(*route)
}

// RouteSubscribe forwards table changes to ch until done is closed, then closes ch.
func (k *FakeKernel) RouteSubscribe(ch chan<- netlink.RouteUpdate, done <-chan struct{}, onError func(error)) error {
	k.mu.Lock()
	k.subscribed = true
	k.mu.Unlock()

	go func() {
		defer close(ch)
		for {
			select {
			case <-done:
				return
			case update := <-k.events:
				select {
				case ch <- update:
				case <-done:
					return
				}
			}
		}
	}()
	return nil
}

// InjectAdd installs route as if another process had added it.
func (k *FakeKernel) InjectAdd(route netlink.Route) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	normalize(&route)
	if k.indexOf(route) >= 0 {
		return unix.EEXIST
	}
	k.routes = append(k.routes, route)
	k.notify(unix.RTM_NEWROUTE, route)
	return nil
}

// InjectDel removes route as if another process had deleted it.
func (k *FakeKernel) InjectDel(route netlink.Route) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	normalize(&route)
	i := k.indexOf(route)
	if i < 0 {
		return unix.ESRCH
	}
	removed := k.routes[i]
	k.routes = append(k.routes[:i], k.routes[i+1:]...)
	k.notify(unix.RTM_DELROUTE, removed)
	return nil
}

// Routes returns a copy of the routing table.
func (k *FakeKernel) Routes() []netlink.Route {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]netlink.Route(nil), k.routes...)
}

// Has reports whether a route matching route is installed.
func (k *FakeKernel) Has(route netlink.Route) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	normalize(&route)
	return k.indexOf(route) >= 0
}

// Subscribed reports whether RouteSubscribe has been called.
func (k *FakeKernel) Subscribed() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.subscribed
}

// notify must be called with mu held.
func (k *FakeKernel) notify(msgType uint16, route netlink.Route) {
	if !k.subscribed {
		return
	}
	select {
	case k.events <- netlink.RouteUpdate{Type: msgType, Route: route}:
	default:
		panic("mocks: route event buffer full")
	}
}

func (k *FakeKernel) indexOf(route netlink.Route) int {
	for i, r := range k.routes {
		if sameRoute(r, route) {
			return i
		}
	}
	return -1
}

// normalize fills in what the kernel reports for attributes left unset.
func normalize(r *netlink.Route) {
	if r.Table == 0 {
		r.Table = unix.RT_TABLE_MAIN
	}
	if r.Type == 0 {
		r.Type = unix.RTN_UNICAST
	}
	if r.Family == 0 {
		r.Family = netlink.FAMILY_V4
		if r.Dst != nil && r.Dst.IP.To4() == nil {
			r.Family = netlink.FAMILY_V6
		}
	}
	if r.Dst != nil {
		ones, _ := r.Dst.Mask.Size()
		if ones == 0 {
			// The kernel omits RTA_DST for default routes.
			r.Dst = nil
		}
	}
}

func sameRoute(a, b netlink.Route) bool {
	return a.Family == b.Family &&
		a.Table == b.Table &&
		a.LinkIndex == b.LinkIndex &&
		a.Tos == b.Tos &&
		a.Type == b.Type &&
		a.Gw.Equal(b.Gw) &&
		dstString(a.Dst) == dstString(b.Dst)
}

func dstString(n *net.IPNet) string {
	if n == nil {
		return ""
	}
	return n.String()
}
