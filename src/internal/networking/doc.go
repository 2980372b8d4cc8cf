// Package networking provides kernel access and symbol resolution for zelus.
//
// # Key Components
//
// Netlinker: the subset of netlink operations zelus performs. SystemNetlinker
// wraps a *netlink.Handle; tests use an in-memory fake kernel.
//
// InterfaceMap: interface name <-> kernel index, built once from LinkList and
// AddrList. Unknown names that look like positive integers resolve to
// themselves.
//
// TableMap: routing table name <-> id, parsed once from rt_tables and the
// rt_tables.d directory. The reserved tables unspec, default, main and local
// are always present.
//
// # Example Usage
//
//	nl, err := networking.NewNetlinker()
//	if err != nil {
//	    return err
//	}
//	interfaces, err := networking.NewInterfaceMap(nl, logger)
//	if err != nil {
//	    return err
//	}
//	tables, err := networking.LoadTableMap(networking.DefaultRtTablesPath, logger)
//
// Neither map is refreshed. Interfaces or tables created after startup are
// only reachable through their numeric ids.
package networking
