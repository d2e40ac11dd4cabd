// Copyright 2016-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Command fablib inspects and drives slices through the fablib
// facades.
//
//     fablib --backend http://localhost:5980/ slices
//     fablib --backend http://localhost:5980/ --output yaml show exp
//     fablib --config fabric_rc.yaml exec exp -- uname -a
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/diffeo/go-fablib/backend"
	"github.com/diffeo/go-fablib/fablib"
	"github.com/diffeo/go-fablib/sshexec"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

// app holds the state shared by every command, set up in Before.
type app struct {
	Manager *fablib.Manager
	Config  *fablib.Config
	Format  string
	Out     io.Writer
}

var state = app{Out: os.Stdout}

func (a *app) slice(c *cli.Context) (*fablib.Slice, error) {
	name := c.Args().First()
	if name == "" {
		return nil, cli.NewExitError("slice name required", 2)
	}
	return a.Manager.Slice(name)
}

func (a *app) print(dicts ...*fablib.Dict) error {
	return render(a.Out, a.Format, dicts)
}

var listSlices = cli.Command{
	Name:  "slices",
	Usage: "list every slice",
	Action: func(c *cli.Context) error {
		slices, err := state.Manager.Slices()
		if err != nil {
			return err
		}
		dicts := make([]*fablib.Dict, len(slices))
		for i, slice := range slices {
			dicts[i] = slice.ToDict()
		}
		return state.print(dicts...)
	},
}

var show = cli.Command{
	Name:      "show",
	Usage:     "describe a slice and its network services",
	ArgsUsage: "SLICE",
	Action: func(c *cli.Context) error {
		slice, err := state.slice(c)
		if err != nil {
			return err
		}
		dicts := []*fablib.Dict{slice.ToDict()}
		for _, svc := range slice.NetworkServices(false) {
			dicts = append(dicts, svc.ToDict())
		}
		return state.print(dicts...)
	},
}

var nodes = cli.Command{
	Name:      "nodes",
	Usage:     "list the nodes of a slice",
	ArgsUsage: "SLICE",
	Flags: []cli.Flag{
		cli.StringSliceFlag{
			Name:  "skip",
			Usage: "leave this field out of the output",
		},
	},
	Action: func(c *cli.Context) error {
		slice, err := state.slice(c)
		if err != nil {
			return err
		}
		var dicts []*fablib.Dict
		for _, node := range slice.Nodes(false) {
			dicts = append(dicts, node.ToDict(c.StringSlice("skip")...))
		}
		for _, sw := range slice.Switches(false) {
			dicts = append(dicts, sw.ToDict(c.StringSlice("skip")...))
		}
		return state.print(dicts...)
	},
}

var interfaces = cli.Command{
	Name:      "interfaces",
	Usage:     "list every interface in a slice",
	ArgsUsage: "SLICE",
	Action: func(c *cli.Context) error {
		slice, err := state.slice(c)
		if err != nil {
			return err
		}
		var dicts []*fablib.Dict
		for _, iface := range slice.Interfaces(false) {
			dicts = append(dicts, iface.ToDict())
		}
		return state.print(dicts...)
	},
}

var submit = cli.Command{
	Name:      "submit",
	Usage:     "submit a slice for allocation",
	ArgsUsage: "SLICE",
	Action: func(c *cli.Context) error {
		slice, err := state.slice(c)
		if err != nil {
			return err
		}
		if err = slice.Submit(); err != nil {
			return err
		}
		return state.print(slice.ToDict())
	},
}

var execute = cli.Command{
	Name:      "exec",
	Usage:     "run a shell command on the nodes of a slice",
	ArgsUsage: "SLICE COMMAND...",
	Flags: []cli.Flag{
		cli.StringSliceFlag{
			Name:  "node",
			Usage: "run only on this node (repeatable)",
		},
		cli.IntFlag{
			Name:  "workers",
			Value: sshexec.DefaultWorkers,
			Usage: "talk to this many nodes at once",
		},
	},
	Action: func(c *cli.Context) error {
		slice, err := state.slice(c)
		if err != nil {
			return err
		}
		command := strings.Join(c.Args().Tail(), " ")
		if command == "" {
			return cli.NewExitError("command required", 2)
		}
		targets, err := selectNodes(slice, c.StringSlice("node"))
		if err != nil {
			return err
		}
		runner := sshexec.New(state.Config).WithWorkers(c.Int("workers"))
		failed := 0
		var dicts []*fablib.Dict
		for _, result := range runner.RunAll(context.Background(), targets, command) {
			dict := fablib.NewDict().
				Set("node", result.Node).
				Set("stdout", result.Stdout).
				Set("stderr", result.Stderr).
				Set("error", nil)
			if result.Err != nil {
				failed++
				dict.Set("error", result.Err.Error())
			}
			dicts = append(dicts, dict)
		}
		if err = state.print(dicts...); err != nil {
			return err
		}
		if failed > 0 {
			return cli.NewExitError(fmt.Sprintf("command failed on %d node(s)", failed), 1)
		}
		return nil
	},
}

// selectNodes returns the named nodes of a slice, or every node if
// names is empty.
func selectNodes(slice *fablib.Slice, names []string) ([]*fablib.Node, error) {
	if len(names) == 0 {
		return slice.Nodes(false), nil
	}
	result := make([]*fablib.Node, 0, len(names))
	for _, name := range names {
		node, err := slice.Node(name, false)
		if err != nil {
			return nil, err
		}
		result = append(result, node)
	}
	return result, nil
}

func setup(c *cli.Context, backend *backend.Backend) error {
	config, err := fablib.LoadConfig(c.String("config"), os.Getenv)
	if err != nil {
		return err
	}
	level, err := config.Level()
	if err != nil {
		return err
	}
	logger := logrus.New()
	logger.Out = os.Stderr
	logger.Level = level
	config.Logger = logrus.NewEntry(logger)

	format := c.String("output")
	if format != "json" && format != "yaml" {
		return cli.NewExitError("output must be json or yaml", 2)
	}

	orchestrator, err := backend.Orchestrator()
	if err != nil {
		return err
	}
	state.Config = config
	state.Format = format
	state.Manager = fablib.NewManager(orchestrator, config, 0)
	return nil
}

func newApp() *cli.App {
	backend := backend.Backend{Implementation: "memory"}
	app := cli.NewApp()
	app.Name = "fablib"
	app.Usage = "inspect FABRIC slices"
	app.Flags = []cli.Flag{
		cli.GenericFlag{
			Name:   "backend",
			Value:  &backend,
			Usage:  "impl:[address] of the topology model",
			EnvVar: "FABRIC_BACKEND",
		},
		cli.StringFlag{
			Name:   "config",
			Usage:  "fablib configuration YAML file",
			EnvVar: "FABRIC_RC",
		},
		cli.StringFlag{
			Name:  "output, o",
			Value: "json",
			Usage: "output format, json or yaml",
		},
	}
	app.Commands = []cli.Command{
		listSlices,
		show,
		nodes,
		interfaces,
		submit,
		execute,
	}
	app.Before = func(c *cli.Context) error {
		return setup(c, &backend)
	}
	return app
}

func main() {
	newApp().RunAndExitOnError()
}
