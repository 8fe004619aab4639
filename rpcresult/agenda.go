// Copyright (c) 2024 The chainkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpcresult defines JSON-RPC-shaped command and result types for
// reporting deployment threshold state, modeled on the AgendaInfo section
// of decred-dcrd's getblockchaininfo response.
package rpcresult

import "github.com/chainkit/deploystate/deploystate"

// These status strings mirror the AgendaInfoStatus* constants dcrd's RPC
// types package exposes; a wire client should never need to know about the
// byte-sized deploystate.State enum used internally.
const (
	AgendaInfoStatusDefined    = "defined"
	AgendaInfoStatusStarted    = "started"
	AgendaInfoStatusMustSignal = "mustsignal"
	AgendaInfoStatusLockedIn   = "lockedin"
	AgendaInfoStatusActive     = "active"
	AgendaInfoStatusFailed     = "failed"
)

// stateToAgendaStatus converts a deploystate.State to the wire status
// string reported for an agenda, following the same total-mapping style as
// dcrd's thresholdStateToAgendaStatus.
func stateToAgendaStatus(state deploystate.State) string {
	switch state {
	case deploystate.Defined:
		return AgendaInfoStatusDefined
	case deploystate.Started:
		return AgendaInfoStatusStarted
	case deploystate.MustSignal:
		return AgendaInfoStatusMustSignal
	case deploystate.LockedIn:
		return AgendaInfoStatusLockedIn
	case deploystate.Active:
		return AgendaInfoStatusActive
	case deploystate.Failed:
		return AgendaInfoStatusFailed
	}
	return AgendaInfoStatusDefined
}

// AgendaInfo provides an overview of a single deployment's threshold state,
// the way dcrd's getblockchaininfo reports one entry of its agendas map.
type AgendaInfo struct {
	Status        string `json:"status"`
	Since         int64  `json:"since"`
	StartHeight   int64  `json:"starttime"`
	TimeoutHeight int64  `json:"expiretime"`
}

// NewAgendaInfo builds the AgendaInfo for id's deployment against tip,
// reporting ErrUnknownDeployment from the underlying EngineSet lookup
// unchanged.
func NewAgendaInfo(s *deploystate.EngineSet, id string, tip deploystate.Node) (AgendaInfo, error) {
	c, err := s.Checker(id)
	if err != nil {
		return AgendaInfo{}, err
	}

	state := c.StateFor(tip)
	since, err := s.StateSinceHeightForTip(id, tip)
	if err != nil {
		return AgendaInfo{}, err
	}

	p := c.Params()
	return AgendaInfo{
		Status:        stateToAgendaStatus(state),
		Since:         since,
		StartHeight:   p.StartHeight,
		TimeoutHeight: p.TimeoutHeight,
	}, nil
}

// DeploymentStatistics is the wire form of deploystate.Stats.
type DeploymentStatistics struct {
	Period    int64 `json:"period"`
	Threshold int64 `json:"threshold"`
	Elapsed   int64 `json:"elapsed"`
	Count     int64 `json:"count"`
	Possible  bool  `json:"possible"`
}

// NewDeploymentStatistics converts deploystate.Stats to its wire form.
func NewDeploymentStatistics(s deploystate.Stats) DeploymentStatistics {
	return DeploymentStatistics{
		Period:    s.Period,
		Threshold: s.Threshold,
		Elapsed:   s.Elapsed,
		Count:     s.Count,
		Possible:  s.Possible,
	}
}

// GetDeploymentInfoResult models the result of the getdeploymentinfo
// command: every registered deployment's AgendaInfo keyed by id, mirroring
// dcrd's GetBlockChainInfoResult.Deployments map.
type GetDeploymentInfoResult struct {
	Hash        string                `json:"hash"`
	Height      int64                 `json:"height"`
	Deployments map[string]AgendaInfo `json:"deployments"`
}
