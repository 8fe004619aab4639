// Copyright (c) 2024 The chainkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcresult

import "github.com/chainkit/deploystate/dcrjson"

// GetDeploymentInfoCmd defines the getdeploymentinfo JSON-RPC command,
// which returns the threshold state of every registered deployment as of
// the given block hash, or the current best block if omitted.
type GetDeploymentInfoCmd struct {
	BlockHash *string
}

// NewGetDeploymentInfoCmd returns a new instance that can be used to issue
// a getdeploymentinfo JSON-RPC command.
func NewGetDeploymentInfoCmd(blockHash *string) *GetDeploymentInfoCmd {
	return &GetDeploymentInfoCmd{BlockHash: blockHash}
}

func init() {
	dcrjson.MustRegister("getdeploymentinfo", (*GetDeploymentInfoCmd)(nil))
}
