package networking

import (
	"net"

	"github.com/stretchr/testify/mock"
	"github.com/vishvananda/netlink"
)

// Mock types for testing

type mockNetlinkLink struct {
	name  string
	index int
}

func (m *mockNetlinkLink) Attrs() *netlink.LinkAttrs {
	return &netlink.LinkAttrs{
		Name:  m.name,
		Index: m.index,
		Flags: net.FlagUp,
	}
}

func (m *mockNetlinkLink) Type() string { return "mock" }

type mockNetlinker struct {
	mock.Mock
}

var _ Netlinker = (*mockNetlinker)(nil)

func (m *mockNetlinker) LinkList() ([]netlink.Link, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]netlink.Link), args.Error(1)
}

func (m *mockNetlinker) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	args := m.Called(link, family)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]netlink.Addr), args.Error(1)
}

func (m *mockNetlinker) RouteListFiltered(family int, filter *netlink.Route, filterMask uint64) ([]netlink.Route, error) {
	args := m.Called(family, filter, filterMask)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]netlink.Route), args.Error(1)
}

func (m *mockNetlinker) RouteAdd(route *netlink.Route) error {
	return m.Called(route).Error(0)
}

func (m *mockNetlinker) RouteDel(route *netlink.Route) error {
	return m.Called(route).Error(0)
}

func (m *mockNetlinker) RouteSubscribe(ch chan<- netlink.RouteUpdate, done <-chan struct{}, onError func(error)) error {
	return m.Called(ch, done, onError).Error(0)
}

func mustIPNet(cidr string) *net.IPNet {
	ip, n, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(err)
	}
	n.IP = ip
	return n
}
