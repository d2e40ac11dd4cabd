// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"github.com/diffeo/go-fablib/fim"
	"github.com/diffeo/go-fablib/restdata"
)

type iface struct {
	resource
	name           string
	Representation restdata.Interface
}

func (i *iface) Refresh() error {
	repr := restdata.Interface{}
	err := i.Get(&repr)
	if err != nil {
		return gone(err)
	}
	i.Representation = repr
	return nil
}

func (i *iface) Name() string {
	return i.name
}

func (i *iface) LabelAllocations() (fim.Labels, error) {
	err := i.Refresh()
	if err == nil && i.Representation.LabelAllocations == nil {
		err = fim.ErrNotAllocated{Property: "label allocations"}
	}
	if err != nil {
		return fim.Labels{}, err
	}
	return *i.Representation.LabelAllocations, nil
}

func (i *iface) Capacities() (fim.Capacities, error) {
	err := i.Refresh()
	return i.Representation.Capacities, err
}

func (i *iface) Network() (string, error) {
	err := i.Refresh()
	return i.Representation.Network, err
}

func (i *iface) list() (map[string]fim.Interface, error) {
	var resp restdata.InterfaceList
	err := i.GetFrom(i.Representation.InterfacesURL, map[string]interface{}{}, &resp)
	if err != nil {
		return nil, gone(err)
	}
	result := make(map[string]fim.Interface, len(resp.Interfaces))
	for _, summary := range resp.Interfaces {
		sub := &iface{name: summary.Name}
		sub.URL, err = i.Link(summary.URL)
		if err != nil {
			return nil, err
		}
		result[summary.Name] = sub
	}
	return result, nil
}

func (i *iface) Interfaces() (map[string]fim.Interface, error) {
	err := i.Refresh()
	if err != nil {
		return nil, err
	}
	return i.list()
}

func (i *iface) AddSubInterface(name, vlan string) (fim.Interface, error) {
	err := i.Refresh()
	if err != nil {
		return nil, err
	}
	var repr restdata.Interface
	err = i.PostTo(i.Representation.InterfacesURL, map[string]interface{}{},
		restdata.SubInterface{Name: name, VLAN: vlan}, &repr)
	if err != nil {
		return nil, gone(err)
	}
	sub := &iface{name: repr.Name, Representation: repr}
	sub.URL, err = i.Link(repr.URL)
	if err != nil {
		return nil, err
	}
	return sub, nil
}
