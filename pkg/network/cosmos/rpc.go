package cosmos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/altuslabsxyz/blob-poster/pkg/network"
)

// RPCClient talks to a node's CometBFT RPC endpoint.
type RPCClient struct {
	endpoint string
	client   *http.Client
}

// NewRPCClient creates a client for the given RPC endpoint.
// A nil httpClient selects one with DefaultHTTPTimeout.
func NewRPCClient(endpoint string, httpClient *http.Client) (*RPCClient, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("RPC endpoint is required")
	}
	return &RPCClient{endpoint: trimEndpoint(endpoint), client: defaultHTTPClient(httpClient)}, nil
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    string `json:"data"`
	} `json:"error"`
}

type statusResult struct {
	NodeInfo struct {
		Network string `json:"network"`
		Version string `json:"version"`
		Moniker string `json:"moniker"`
	} `json:"node_info"`
	SyncInfo struct {
		LatestBlockHeight string `json:"latest_block_height"`
		CatchingUp        bool   `json:"catching_up"`
	} `json:"sync_info"`
}

type abciInfoResult struct {
	Response struct {
		Data       string `json:"data"`
		Version    string `json:"version"`
		AppVersion string `json:"app_version"`
	} `json:"response"`
}

// call issues a GET-style JSON-RPC request and decodes its result.
func (c *RPCClient) call(ctx context.Context, method string, out interface{}) error {
	data, err := fetch(ctx, c.client, http.MethodGet, c.endpoint+"/"+method, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	var resp rpcResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("%s: failed to parse response: %w", method, err)
	}
	if resp.Error != nil {
		return fmt.Errorf("%s: rpc error %d: %s %s", method, resp.Error.Code, resp.Error.Message, resp.Error.Data)
	}
	if len(resp.Result) == 0 {
		return fmt.Errorf("%s: response has no result", method)
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("%s: failed to parse result: %w", method, err)
	}
	return nil
}

// Probe queries /status and /abci_info.
func (c *RPCClient) Probe(ctx context.Context) (*network.NodeInfo, error) {
	var status statusResult
	if err := c.call(ctx, "status", &status); err != nil {
		return nil, err
	}
	if status.NodeInfo.Network == "" {
		return nil, fmt.Errorf("status: node reported no network")
	}

	var abci abciInfoResult
	if err := c.call(ctx, "abci_info", &abci); err != nil {
		return nil, err
	}

	info := &network.NodeInfo{
		ChainID:     status.NodeInfo.Network,
		Moniker:     status.NodeInfo.Moniker,
		NodeVersion: status.NodeInfo.Version,
		AppName:     abci.Response.Data,
		AppVersion:  abci.Response.Version,
		CatchingUp:  status.SyncInfo.CatchingUp,
	}
	// Both numbers are informational; a node that omits them still answered.
	if h, err := strconv.ParseInt(status.SyncInfo.LatestBlockHeight, 10, 64); err == nil {
		info.LatestHeight = h
	}
	if p, err := strconv.ParseUint(abci.Response.AppVersion, 10, 64); err == nil {
		info.AppProtocol = p
	}
	return info, nil
}
