package networking

import (
	"fmt"
	"net/netip"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"

	"github.com/zelus-routing/zelus/src/internal/errors"
)

// Interface describes one kernel network interface as seen at startup.
type Interface struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Addresses []netip.Prefix `json:"addresses"`
}

// InterfaceMap maps interface names to kernel interface indexes and back.
// It is a snapshot: interfaces created after it was built are unknown to it.
type InterfaceMap struct {
	byName map[string]*Interface
	byID   map[int]*Interface
}

// NewInterfaceMap enumerates kernel links and their addresses.
func NewInterfaceMap(nl Netlinker, logger logrus.FieldLogger) (*InterfaceMap, error) {
	links, err := nl.LinkList()
	if err != nil {
		return nil, errors.NewNetworkError("failed to list interfaces", err)
	}

	var interfaces []Interface
	for _, link := range links {
		attrs := link.Attrs()
		iface := Interface{ID: attrs.Index, Name: attrs.Name}

		addrs, err := nl.AddrList(link, netlink.FAMILY_ALL)
		if err != nil {
			logger.WithError(err).WithField("interface", attrs.Name).Warn("Failed to list interface addresses")
		}
		for _, addr := range addrs {
			if prefix, ok := PrefixFromIPNet(addr.IPNet); ok {
				iface.Addresses = append(iface.Addresses, prefix)
			}
		}

		interfaces = append(interfaces, iface)
	}

	m := NewInterfaceMapFromList(interfaces)
	logger.WithField("count", len(interfaces)).Debug("Interface map built")
	return m, nil
}

// NewInterfaceMapFromList builds a map from an explicit interface list.
func NewInterfaceMapFromList(interfaces []Interface) *InterfaceMap {
	m := &InterfaceMap{
		byName: make(map[string]*Interface, len(interfaces)),
		byID:   make(map[int]*Interface, len(interfaces)),
	}
	for i := range interfaces {
		iface := interfaces[i]
		m.byName[iface.Name] = &iface
		m.byID[iface.ID] = &iface
	}
	return m
}

// NameToID resolves an interface name. A name that is not known but parses
// as a positive integer is returned as that index.
func (m *InterfaceMap) NameToID(name string) (int, error) {
	if iface, ok := m.byName[name]; ok {
		return iface.ID, nil
	}
	if id, err := strconv.Atoi(name); err == nil && id > 0 {
		return id, nil
	}
	return 0, errors.NewResolutionError(fmt.Sprintf("unknown interface %q", name), nil)
}

// IDToName returns the name of the interface with the given index.
func (m *InterfaceMap) IDToName(id int) (string, error) {
	if iface, ok := m.byID[id]; ok {
		return iface.Name, nil
	}
	return "", errors.NewResolutionError(fmt.Sprintf("unknown interface index %d", id), nil)
}

// NameOrID returns the interface name for id, or the decimal id if it has none.
func (m *InterfaceMap) NameOrID(id int) string {
	if name, err := m.IDToName(id); err == nil {
		return name
	}
	return strconv.Itoa(id)
}

// Interfaces returns all interfaces ordered by index.
func (m *InterfaceMap) Interfaces() []Interface {
	result := make([]Interface, 0, len(m.byID))
	for _, iface := range m.byID {
		result = append(result, *iface)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// TemplateData exposes the map to the routes file template as
// name -> {id, name, addresses, prefixes}.
func (m *InterfaceMap) TemplateData() map[string]interface{} {
	data := make(map[string]interface{}, len(m.byName))
	for name, iface := range m.byName {
		addresses := make([]interface{}, 0, len(iface.Addresses))
		prefixes := make([]interface{}, 0, len(iface.Addresses))
		for _, p := range iface.Addresses {
			addresses = append(addresses, p.Addr().String())
			prefixes = append(prefixes, p.String())
		}
		data[name] = map[string]interface{}{
			"id":        iface.ID,
			"name":      iface.Name,
			"addresses": addresses,
			"prefixes":  prefixes,
		}
	}
	return data
}
