// Package topology parses the cluster membership description consumed by the
// dispatch loop.
//
// The format is line oriented: the first block lists master machines, one per
// line, as "<external-address> <internal-address>". A blank line after at
// least one master closes the master block; every data line after it names a
// slave machine by its external address. Lines whose first non-blank
// character is '#' are comments.
package topology

// MasterEntry pairs a master's externally reachable address with the internal
// address it advertises to the rest of the cluster.
type MasterEntry struct {
	External string
	Internal string
}

// Topology is the parsed cluster membership. Entry order is preserved from
// the input and is significant: it fixes dispatch order, and for masters the
// positional pairing of external and internal addresses.
type Topology struct {
	Masters []MasterEntry
	Slaves  []string
}

// InternalAddresses returns the internal addresses of all masters in input order.
func (t *Topology) InternalAddresses() []string {
	addresses := make([]string, 0, len(t.Masters))
	for _, master := range t.Masters {
		addresses = append(addresses, master.Internal)
	}

	return addresses
}

// HostCount returns the total number of machines in the topology.
// Duplicate addresses count once per occurrence; the dispatcher visits them
// once per occurrence too.
func (t *Topology) HostCount() int {
	return len(t.Slaves) + len(t.Masters)
}
