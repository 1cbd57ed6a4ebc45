package network

// TxBroadcastResult contains the result of broadcasting a transaction.
type TxBroadcastResult struct {
	// TxHash is the transaction hash.
	TxHash string `json:"txHash"`

	// Code is the transaction result code (0 = success).
	Code uint32 `json:"code"`

	// Codespace is the module that produced a non-zero code.
	Codespace string `json:"codespace,omitempty"`

	// Log contains any log messages from the transaction.
	Log string `json:"log,omitempty"`

	// Height is the block height where the transaction was included.
	// Sync broadcasts return before inclusion, so this is usually zero.
	Height int64 `json:"height,omitempty"`
}

// NodeInfo is what a node's RPC endpoint reports about itself.
type NodeInfo struct {
	// ChainID is the network the node serves.
	ChainID string `json:"chainId" yaml:"chain_id"`

	Moniker string `json:"moniker,omitempty" yaml:"moniker,omitempty"`

	// NodeVersion is the consensus engine version.
	NodeVersion string `json:"nodeVersion" yaml:"node_version"`

	// AppName and AppVersion come from /abci_info, e.g. "celestia-app" and "3.3.1".
	AppName    string `json:"appName,omitempty" yaml:"app_name,omitempty"`
	AppVersion string `json:"appVersion,omitempty" yaml:"app_version,omitempty"`

	// AppProtocol is the application protocol version the chain runs.
	AppProtocol uint64 `json:"appProtocol,omitempty" yaml:"app_protocol,omitempty"`

	LatestHeight int64 `json:"latestHeight" yaml:"latest_height"`
	CatchingUp   bool  `json:"catchingUp" yaml:"catching_up"`
}

// Serves reports whether the node is on the chain the descriptor names.
func (n NodeInfo) Serves(chain ChainDescriptor) bool {
	return n.ChainID == chain.ChainID
}
