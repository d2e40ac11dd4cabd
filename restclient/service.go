// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"github.com/diffeo/go-fablib/fim"
	"github.com/diffeo/go-fablib/restdata"
)

type service struct {
	resource
	s              *slice
	name           string
	Representation restdata.Service
}

func (v *service) Refresh() error {
	repr := restdata.Service{}
	err := v.Get(&repr)
	if err != nil {
		return gone(err)
	}
	v.Representation = repr
	return nil
}

func (v *service) Name() string {
	return v.name
}

func (v *service) Type() (fim.ServiceType, error) {
	err := v.Refresh()
	return v.Representation.Type, err
}

func (v *service) Layer() (fim.Layer, error) {
	err := v.Refresh()
	return v.Representation.Layer, err
}

func (v *service) LabelAllocations() (fim.Labels, error) {
	err := v.Refresh()
	if err == nil && v.Representation.LabelAllocations == nil {
		err = fim.ErrNotAllocated{Property: "label allocations"}
	}
	if err != nil {
		return fim.Labels{}, err
	}
	return *v.Representation.LabelAllocations, nil
}

func (v *service) Gateway() (fim.Gateway, error) {
	err := v.Refresh()
	if err == nil && v.Representation.Gateway == nil {
		err = fim.ErrNotAllocated{Property: "gateway"}
	}
	if err != nil {
		return fim.Gateway{}, err
	}
	return *v.Representation.Gateway, nil
}

func (v *service) ReservationInfo() (fim.ReservationInfo, error) {
	err := v.Refresh()
	if err == nil && v.Representation.ReservationInfo == nil {
		err = fim.ErrNotAllocated{Property: "reservation"}
	}
	if err != nil {
		return fim.ReservationInfo{}, err
	}
	return *v.Representation.ReservationInfo, nil
}

func (v *service) Interfaces() (map[string]fim.Interface, error) {
	err := v.Refresh()
	if err != nil {
		return nil, err
	}
	return v.s.interfaces(v.Representation.InterfacesURL, gone)
}
