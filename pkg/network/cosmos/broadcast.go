package cosmos

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/altuslabsxyz/blob-poster/pkg/network"
)

// BroadcastMode specifies how the node handles a broadcast.
type BroadcastMode string

const (
	BroadcastModeSync  BroadcastMode = "BROADCAST_MODE_SYNC"
	BroadcastModeAsync BroadcastMode = "BROADCAST_MODE_ASYNC"
)

// BroadcastRequest is the body of POST /cosmos/tx/v1beta1/txs.
type BroadcastRequest struct {
	TxBytes string        `json:"tx_bytes"`
	Mode    BroadcastMode `json:"mode"`
}

// BroadcastResponse is the response of POST /cosmos/tx/v1beta1/txs.
type BroadcastResponse struct {
	TxResponse *struct {
		Height    string `json:"height"`
		TxHash    string `json:"txhash"`
		Codespace string `json:"codespace"`
		Code      uint32 `json:"code"`
		RawLog    string `json:"raw_log"`
	} `json:"tx_response"`
}

// BroadcastTx submits encoded transaction bytes in sync mode.
// A non-zero result code is returned in the result, not as an error.
func (c *RESTClient) BroadcastTx(ctx context.Context, txBytes []byte) (*network.TxBroadcastResult, error) {
	if len(txBytes) == 0 {
		return nil, fmt.Errorf("transaction bytes are required")
	}

	data, err := fetch(ctx, c.client, http.MethodPost, c.endpoint+"/cosmos/tx/v1beta1/txs", BroadcastRequest{
		TxBytes: base64.StdEncoding.EncodeToString(txBytes),
		Mode:    BroadcastModeSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to broadcast transaction: %w", err)
	}

	var broadcastResp BroadcastResponse
	if err := json.Unmarshal(data, &broadcastResp); err != nil {
		return nil, fmt.Errorf("failed to parse broadcast response: %w", err)
	}
	if broadcastResp.TxResponse == nil {
		return nil, fmt.Errorf("broadcast response has no tx_response")
	}

	tr := broadcastResp.TxResponse
	result := &network.TxBroadcastResult{
		TxHash:    tr.TxHash,
		Code:      tr.Code,
		Codespace: tr.Codespace,
		Log:       tr.RawLog,
	}
	if tr.Height != "" {
		if h, err := strconv.ParseInt(tr.Height, 10, 64); err == nil {
			result.Height = h
		}
	}
	return result, nil
}
