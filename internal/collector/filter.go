package collector

import "strings"

var virtualPrefixes = []string{"veth", "docker", "br-", "vmnet", "virbr"}

// Filter decides which interfaces are sampled.
type Filter struct {
	IncludeLoopback bool
	IncludeVirtual  bool
	// Always is collected regardless of the other settings.
	Always string
}

func (f Filter) Allow(name string) bool {
	if name == "" {
		return false
	}
	if f.Always != "" && name == f.Always {
		return true
	}
	if !f.IncludeLoopback && IsLoopback(name) {
		return false
	}
	if !f.IncludeVirtual && IsVirtual(name) {
		return false
	}
	return true
}

func IsLoopback(name string) bool {
	return name == "lo" || name == "lo0"
}

// IsVirtual reports container bridges, veth pairs and hypervisor adapters.
func IsVirtual(name string) bool {
	for _, p := range virtualPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
