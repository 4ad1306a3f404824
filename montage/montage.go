// Package montage describes the channel topology of a recording: canonical
// connection names for channel pairs and the grouping of channels into
// networks (scalp regions analysed as averaged units).
package montage

import (
	"fmt"
	"slices"

	"github.com/cwbudde/algo-qeeg/dsp/core"
)

// ErrInvalidMontage is returned by Validate.
var ErrInvalidMontage = fmt.Errorf("montage: invalid montage: %w", core.ErrInvalidConfiguration)

// Connection returns the canonical name of the pair (a, b): the two names
// joined by "_" in lexicographic order, so Connection(a, b) == Connection(b, a).
func Connection(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "_" + b
}

// Pair is an unordered pair of names, stored in input order.
type Pair struct {
	A, B string
}

// Name returns the canonical connection name.
func (p Pair) Name() string { return Connection(p.A, p.B) }

// Pairs returns every unordered pair of names, ordered by the position of
// the first and then the second element in names.
func Pairs(names []string) []Pair {
	if len(names) < 2 {
		return nil
	}

	out := make([]Pair, 0, len(names)*(len(names)-1)/2)
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			out = append(out, Pair{A: names[i], B: names[j]})
		}
	}
	return out
}

// Network is a named group of channels.
type Network struct {
	Name     string   `mapstructure:"name"`
	Channels []string `mapstructure:"channels"`
}

// Members returns the channels of n that appear in available, in the order
// the network lists them.
func (n Network) Members(available []string) []string {
	var out []string
	for _, ch := range n.Channels {
		if slices.Contains(available, ch) {
			out = append(out, ch)
		}
	}
	return out
}

// Montage is an ordered list of networks.
type Montage struct {
	Networks []Network `mapstructure:"networks"`
}

// Default returns the networks of a 14-channel consumer headset laid out on
// the 10-20 system.
func Default() Montage {
	return Montage{Networks: []Network{
		{Name: "Frontal", Channels: []string{"AF3", "AF4", "F3", "F4", "F7", "F8"}},
		{Name: "FrontoCentral", Channels: []string{"FC5", "FC6"}},
		{Name: "Temporal", Channels: []string{"T7", "T8"}},
		{Name: "Parietal", Channels: []string{"P7", "P8"}},
		{Name: "Occipital", Channels: []string{"O1", "O2"}},
	}}
}

// Network returns the network with the given name.
func (m Montage) Network(name string) (Network, bool) {
	for _, n := range m.Networks {
		if n.Name == name {
			return n, true
		}
	}
	return Network{}, false
}

// Members returns the channels of the named network that appear in
// available. An unknown network has no members.
func (m Montage) Members(network string, available []string) []string {
	n, ok := m.Network(network)
	if !ok {
		return nil
	}
	return n.Members(available)
}

// Names returns the network names in order.
func (m Montage) Names() []string {
	out := make([]string, len(m.Networks))
	for i, n := range m.Networks {
		out[i] = n.Name
	}
	return out
}

// Validate checks that network names are non-empty and unique and that no
// network is empty.
func (m Montage) Validate() error {
	seen := make(map[string]bool, len(m.Networks))
	for i, n := range m.Networks {
		if n.Name == "" {
			return fmt.Errorf("%w: network %d has no name", ErrInvalidMontage, i)
		}
		if seen[n.Name] {
			return fmt.Errorf("%w: duplicate network %q", ErrInvalidMontage, n.Name)
		}
		if len(n.Channels) == 0 {
			return fmt.Errorf("%w: network %q has no channels", ErrInvalidMontage, n.Name)
		}
		seen[n.Name] = true
	}
	return nil
}
