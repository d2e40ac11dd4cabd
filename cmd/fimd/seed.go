// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"os"
	"sort"

	"github.com/diffeo/go-fablib/fim"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Seed is a set of slices to create when the daemon starts.  A seed
// file looks like
//
//     slices:
//       exp:
//         submit: true
//         nodes:
//           n1:
//             site: STAR
//             image: default_ubuntu_22
//             cores: 4
//             components:
//               nic1: NIC_Basic
//         services:
//           net:
//             type: L2Bridge
//             interfaces: [n1-nic1-p1]
type Seed struct {
	Slices map[string]SeedSlice `mapstructure:"slices"`
}

// SeedSlice describes one slice of a seed.
type SeedSlice struct {
	Nodes    map[string]SeedNode    `mapstructure:"nodes"`
	Services map[string]SeedService `mapstructure:"services"`
	Submit   bool                   `mapstructure:"submit"`
}

// SeedNode describes one node.  Type defaults to VM.  Zero
// capacities keep the model's defaults, as does an empty image.
type SeedNode struct {
	Type       string            `mapstructure:"type"`
	Site       string            `mapstructure:"site"`
	Image      string            `mapstructure:"image"`
	ImageType  string            `mapstructure:"image_type"`
	Cores      int               `mapstructure:"cores"`
	RAM        int               `mapstructure:"ram"`
	Disk       int               `mapstructure:"disk"`
	Components map[string]string `mapstructure:"components"`
}

// SeedService describes one network service by its type and the
// qualified names of the interfaces it connects.
type SeedService struct {
	Type       string   `mapstructure:"type"`
	Interfaces []string `mapstructure:"interfaces"`
}

func loadSeed(filename string) (*Seed, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "read topology")
	}
	var raw map[string]interface{}
	if err = yaml.Unmarshal(bytes, &raw); err != nil {
		return nil, errors.Wrapf(err, "parse %v", filename)
	}
	return decodeSeed(raw)
}

func decodeSeed(raw map[string]interface{}) (*Seed, error) {
	seed := &Seed{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           seed,
	})
	if err == nil {
		err = decoder.Decode(raw)
	}
	if err != nil {
		return nil, errors.Wrap(err, "decode topology")
	}
	return seed, nil
}

// Apply creates every slice in the seed.  Slices are created in name
// order, and a slice that already exists is extended rather than
// replaced, so adding a node that is already there fails.
func (seed *Seed) Apply(orchestrator fim.Orchestrator) error {
	for _, name := range sortedKeys(seed.Slices) {
		if err := seed.Slices[name].apply(orchestrator, name); err != nil {
			return errors.Wrapf(err, "slice %v", name)
		}
	}
	return nil
}

func (want SeedSlice) apply(orchestrator fim.Orchestrator, name string) error {
	slice, err := orchestrator.Slice(name)
	if err != nil {
		return err
	}
	for _, nodeName := range sortedKeys(want.Nodes) {
		if err = want.Nodes[nodeName].apply(slice, nodeName); err != nil {
			return errors.Wrapf(err, "node %v", nodeName)
		}
	}
	for _, svcName := range sortedKeys(want.Services) {
		svc := want.Services[svcName]
		_, err = slice.AddNetworkService(svcName, fim.ServiceType(svc.Type), svc.Interfaces)
		if err != nil {
			return errors.Wrapf(err, "network service %v", svcName)
		}
	}
	if want.Submit {
		return slice.Submit()
	}
	return nil
}

func (want SeedNode) apply(slice fim.Slice, name string) error {
	nodeType := fim.VM
	if want.Type != "" {
		nodeType = fim.NodeType(want.Type)
	}
	if !nodeType.Valid() {
		return errors.Errorf("unknown node type %q", want.Type)
	}
	node, err := slice.AddNode(name, nodeType, want.Site)
	if err != nil {
		return err
	}
	if want.Image != "" {
		image, err := node.Image()
		if err != nil {
			return err
		}
		image.Ref = want.Image
		if want.ImageType != "" {
			image.Type = want.ImageType
		}
		if err = node.SetImage(image); err != nil {
			return err
		}
	}
	if want.Cores != 0 || want.RAM != 0 || want.Disk != 0 {
		capacities, err := node.Capacities()
		if err != nil {
			return err
		}
		if want.Cores != 0 {
			capacities.Core = want.Cores
		}
		if want.RAM != 0 {
			capacities.RAM = want.RAM
		}
		if want.Disk != 0 {
			capacities.Disk = want.Disk
		}
		if err = node.SetCapacities(capacities); err != nil {
			return err
		}
	}
	for _, compName := range sortedKeys(want.Components) {
		if _, err = node.AddComponent(compName, want.Components[compName]); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
