// Copyright (c) 2024 The chainkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// deploystatectl is a small demonstration command that builds a synthetic
// chain, registers a single deployment (under the id "demo") against it,
// and reports the resulting threshold state, since-height, start height and
// timeout height as JSON. Signalling statistics are not included in the
// output. It exists to exercise the deploystate engine end to end the way a
// real host's RPC layer would, without requiring an actual node.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"

	"github.com/chainkit/deploystate/deploystate"
	"github.com/chainkit/deploystate/internal/chaingen"
	"github.com/chainkit/deploystate/rpcresult"
)

type config struct {
	Height       int64  `short:"h" long:"height" description:"height to build the synthetic chain to" default:"0"`
	StartHeight  int64  `long:"start" description:"deployment start height" default:"0"`
	Timeout      int64  `long:"timeout" description:"deployment timeout height" default:"0"`
	MinActivate  int64  `long:"minactivation" description:"minimum activation height" default:"0"`
	Period       int64  `long:"period" description:"blocks per evaluation period" default:"144"`
	Threshold    int64  `long:"threshold" description:"signalling blocks required to lock in" default:"108"`
	Bit          uint8  `long:"bit" description:"version bits signalling bit" default:"0"`
	LockinOnExpy bool   `long:"lockinontimeout" description:"force a MustSignal period before timeout instead of failing"`
	SignalFrom   int64  `long:"signalfrom" description:"height to start signalling at" default:"-1"`
	SignalTo     int64  `long:"signalto" description:"height to stop signalling before" default:"-1"`
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

func main() {
	var cfg config
	parser := flags.NewParser(&cfg, flags.Default)
	parser.Usage = "[OPTIONS]"
	if _, err := parser.Parse(); err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	params := deploystate.Params{
		StartHeight:         cfg.StartHeight,
		TimeoutHeight:       cfg.Timeout,
		MinActivationHeight: cfg.MinActivate,
		Period:              cfg.Period,
		Threshold:           cfg.Threshold,
		LockinOnTimeout:     cfg.LockinOnExpy,
		Bit:                 cfg.Bit,
	}

	set := deploystate.NewEngineSet()
	func() {
		defer func() {
			if r := recover(); r != nil {
				fatalf("invalid deployment parameters: %v\n", r)
			}
		}()
		set.Add("demo", params)
	}()

	chain := chaingen.New()
	tip := chain.NextN(int(cfg.Height)+1, func(i int) int32 {
		h := int64(i)
		if cfg.SignalFrom >= 0 && h >= cfg.SignalFrom && (cfg.SignalTo < 0 || h < cfg.SignalTo) {
			return chaingen.Signalling(cfg.Bit)
		}
		return chaingen.NonSignalling()
	})

	result, err := buildResult(set, tip)
	if err != nil {
		fatalf("%v\n", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fatalf("encode result: %v\n", err)
	}
}

func buildResult(set *deploystate.EngineSet, tip deploystate.Node) (*rpcresult.GetDeploymentInfoResult, error) {
	deployments := make(map[string]rpcresult.AgendaInfo, len(set.IDs()))
	for _, id := range set.IDs() {
		info, err := rpcresult.NewAgendaInfo(set, id, tip)
		if err != nil {
			return nil, err
		}
		deployments[id] = info
	}

	var height int64 = -1
	var hash string
	if tip != nil {
		height = tip.Height()
		hash = tip.Hash().String()
	}

	return &rpcresult.GetDeploymentInfoResult{
		Hash:        hash,
		Height:      height,
		Deployments: deployments,
	}, nil
}
