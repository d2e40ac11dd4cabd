// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"time"

	"github.com/diffeo/go-fablib/fim"
	"github.com/diffeo/go-fablib/restdata"
)

type slice struct {
	resource
	Representation restdata.Slice
}

// Refresh fetches the slice from its own URL, creating it on the
// server if it does not exist.
func (s *slice) Refresh() error {
	s.Representation = restdata.Slice{}
	return s.Get(&s.Representation)
}

// status fetches the current slice state without recreating it.
func (s *slice) status() (restdata.Slice, error) {
	var repr restdata.Slice
	err := s.GetFrom(s.Representation.StatusURL, map[string]interface{}{}, &repr)
	return repr, sliceGone(err)
}

func (s *slice) Name() string {
	return s.Representation.Name
}

func (s *slice) Destroy() error {
	return s.Delete()
}

func (s *slice) State() (fim.SliceState, error) {
	repr, err := s.status()
	return repr.State, err
}

func (s *slice) Submit() error {
	var repr restdata.Slice
	err := s.PostTo(s.Representation.SubmitURL, map[string]interface{}{}, restdata.SliceShort{}, &repr)
	return sliceGone(err)
}

func (s *slice) LeaseEnd() (time.Time, error) {
	repr, err := s.status()
	if err != nil {
		return time.Time{}, err
	}
	if repr.LeaseEnd == nil {
		return time.Time{}, fim.ErrNotSubmitted
	}
	return *repr.LeaseEnd, nil
}

func (s *slice) Renew(end time.Time) error {
	var repr restdata.Slice
	err := s.PutTo(s.Representation.LeaseURL, map[string]interface{}{}, restdata.SliceLease{LeaseEnd: end}, &repr)
	return sliceGone(err)
}

func (s *slice) newNode(ref string, repr restdata.Node) (*node, error) {
	var err error
	n := &node{s: s, Representation: repr}
	n.URL, err = s.Link(ref)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (s *slice) AddNode(name string, nodeType fim.NodeType, site string) (fim.Node, error) {
	req := restdata.Node{}
	req.Name = name
	req.Type = nodeType
	req.Site = site
	var repr restdata.Node
	err := s.PostTo(s.Representation.NodesURL, map[string]interface{}{}, req, &repr)
	if err != nil {
		return nil, sliceGone(err)
	}
	return s.newNode(repr.URL, repr)
}

func (s *slice) Node(name string) (fim.Node, error) {
	var repr restdata.Node
	err := s.GetFrom(s.Representation.NodeURL, map[string]interface{}{"node": name}, &repr)
	if err != nil {
		return nil, sliceGone(err)
	}
	return s.newNode(repr.URL, repr)
}

func (s *slice) Nodes() (map[string]fim.Node, error) {
	var resp restdata.NodeList
	err := s.GetFrom(s.Representation.NodesURL, map[string]interface{}{}, &resp)
	if err != nil {
		return nil, sliceGone(err)
	}
	result := make(map[string]fim.Node, len(resp.Nodes))
	for _, summary := range resp.Nodes {
		var repr restdata.Node
		err = s.GetFrom(summary.URL, map[string]interface{}{}, &repr)
		if err != nil {
			return nil, sliceGone(err)
		}
		n, err := s.newNode(summary.URL, repr)
		if err != nil {
			return nil, err
		}
		result[summary.Name] = n
	}
	return result, nil
}

func (s *slice) RemoveNode(name string) error {
	err := s.DeleteAt(s.Representation.NodeURL, map[string]interface{}{"node": name})
	return sliceGone(err)
}

func (s *slice) Interface(name string) (fim.Interface, error) {
	var repr restdata.Interface
	err := s.GetFrom(s.Representation.InterfaceURL, map[string]interface{}{"interface": name}, &repr)
	if err != nil {
		return nil, sliceGone(err)
	}
	return s.newInterface(repr.Name, repr.URL)
}

func (s *slice) newInterface(name, ref string) (*iface, error) {
	var err error
	i := &iface{name: name}
	i.URL, err = s.Link(ref)
	if err != nil {
		return nil, err
	}
	return i, nil
}

// interfaces fetches an InterfaceList and builds handles for it.
// mapErr translates lookup misses at the depth of the list's owner.
func (s *slice) interfaces(listURL string, mapErr func(error) error) (map[string]fim.Interface, error) {
	var resp restdata.InterfaceList
	err := s.GetFrom(listURL, map[string]interface{}{}, &resp)
	if err != nil {
		return nil, mapErr(err)
	}
	result := make(map[string]fim.Interface, len(resp.Interfaces))
	for _, summary := range resp.Interfaces {
		i, err := s.newInterface(summary.Name, summary.URL)
		if err != nil {
			return nil, err
		}
		result[summary.Name] = i
	}
	return result, nil
}

func (s *slice) newService(repr restdata.Service) (*service, error) {
	var err error
	v := &service{s: s, name: repr.Name, Representation: repr}
	v.URL, err = s.Link(repr.URL)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *slice) AddNetworkService(name string, serviceType fim.ServiceType, interfaces []string) (fim.NetworkService, error) {
	req := restdata.Service{Type: serviceType, Interfaces: interfaces}
	req.Name = name
	var repr restdata.Service
	err := s.PostTo(s.Representation.ServicesURL, map[string]interface{}{}, req, &repr)
	if err != nil {
		return nil, sliceGone(err)
	}
	return s.newService(repr)
}

func (s *slice) NetworkService(name string) (fim.NetworkService, error) {
	var repr restdata.Service
	err := s.GetFrom(s.Representation.ServiceURL, map[string]interface{}{"service": name}, &repr)
	if err != nil {
		return nil, sliceGone(err)
	}
	return s.newService(repr)
}

func (s *slice) NetworkServices() (map[string]fim.NetworkService, error) {
	var resp restdata.ServiceList
	err := s.GetFrom(s.Representation.ServicesURL, map[string]interface{}{}, &resp)
	if err != nil {
		return nil, sliceGone(err)
	}
	result := make(map[string]fim.NetworkService, len(resp.Services))
	for _, summary := range resp.Services {
		v := &service{s: s, name: summary.Name}
		v.URL, err = s.Link(summary.URL)
		if err != nil {
			return nil, err
		}
		result[summary.Name] = v
	}
	return result, nil
}

func (s *slice) RemoveNetworkService(name string) error {
	err := s.DeleteAt(s.Representation.ServiceURL, map[string]interface{}{"service": name})
	return sliceGone(err)
}
