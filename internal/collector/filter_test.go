package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterDefaults(t *testing.T) {
	f := Filter{}

	assert.True(t, f.Allow("eth0"))
	assert.True(t, f.Allow("wlan0"))
	assert.True(t, f.Allow("en0"))
	assert.False(t, f.Allow("lo"))
	assert.False(t, f.Allow("lo0"))
	assert.False(t, f.Allow("veth1a2b"))
	assert.False(t, f.Allow("docker0"))
	assert.False(t, f.Allow("br-5f2e"))
	assert.False(t, f.Allow("virbr0"))
	assert.False(t, f.Allow(""))
}

func TestFilterIncludes(t *testing.T) {
	f := Filter{IncludeLoopback: true, IncludeVirtual: true}

	assert.True(t, f.Allow("lo"))
	assert.True(t, f.Allow("docker0"))
}

func TestFilterAlwaysWins(t *testing.T) {
	f := Filter{Always: "docker0"}

	assert.True(t, f.Allow("docker0"))
	assert.False(t, f.Allow("docker1"))
}
