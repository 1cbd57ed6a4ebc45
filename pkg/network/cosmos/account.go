package cosmos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const accountsPath = "/cosmos/auth/v1beta1/accounts/"

// RESTClient talks to a node's REST (LCD) gateway.
type RESTClient struct {
	endpoint string
	client   *http.Client
}

// NewRESTClient creates a client for the given REST endpoint.
// A nil httpClient selects one with DefaultHTTPTimeout.
func NewRESTClient(endpoint string, httpClient *http.Client) (*RESTClient, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("REST endpoint is required")
	}
	return &RESTClient{endpoint: trimEndpoint(endpoint), client: defaultHTTPClient(httpClient)}, nil
}

func (c *RESTClient) Endpoint() string { return c.endpoint }

// AccountInfo is what signing needs from the auth module.
type AccountInfo struct {
	Address       string
	AccountNumber uint64
	Sequence      uint64
	PubKey        string // base64, empty until the account has signed once
}

// authAccount is one account as rendered by the gateway. Module and vesting
// accounts carry their numbers in a nested base_account.
type authAccount struct {
	Address       string `json:"address"`
	AccountNumber string `json:"account_number"`
	Sequence      string `json:"sequence"`
	PubKey        *struct {
		Key string `json:"key"`
	} `json:"pub_key"`
	BaseAccount *authAccount `json:"base_account"`
}

// QueryAccount looks up the account number and sequence of address.
func (c *RESTClient) QueryAccount(ctx context.Context, address string) (*AccountInfo, error) {
	if address == "" {
		return nil, fmt.Errorf("address is required")
	}

	data, err := fetch(ctx, c.client, http.MethodGet, c.endpoint+accountsPath+url.PathEscape(address), nil)
	if err != nil {
		var status *StatusError
		if errors.As(err, &status) && status.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
		}
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	var resp struct {
		Account *authAccount `json:"account"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse account response: %w", err)
	}
	if resp.Account == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
	}
	return resp.Account.info()
}

// info converts the gateway form. A top-level account_number wins over a
// nested base_account; absent numbers count as zero.
func (a *authAccount) info() (*AccountInfo, error) {
	body := a
	if a.AccountNumber == "" && a.BaseAccount != nil {
		body = a.BaseAccount
	}

	number, err := parseCounter(body.AccountNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to parse account number: %w", err)
	}
	sequence, err := parseCounter(body.Sequence)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sequence: %w", err)
	}

	info := &AccountInfo{Address: body.Address, AccountNumber: number, Sequence: sequence}
	if body.PubKey != nil {
		info.PubKey = body.PubKey.Key
	}
	return info, nil
}

func parseCounter(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 10, 64)
}
