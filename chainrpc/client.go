// Package chainrpc is a chain.ChainRead implementation over a small JSON/
// HTTP API, for chain families whose node exposes height/state/event
// reads that way rather than through a native client library (the
// rollup and cometbls reducers both only depend on the chain.ChainRead
// interface, never on this package directly).
package chainrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/ibc-relay/voyager/chain"
)

// Client is a chain.ChainRead backed by GET requests against baseURL.
// Endpoints:
//
//	GET {baseURL}height                                  -> heightResponse
//	GET {baseURL}state/{kind}/{id}/{rev}-{height}         -> stateResponse
//	GET {baseURL}events/{fromRev}-{fromHeight}/{toRev}-{toHeight} -> []eventResponse
type Client struct {
	id      chain.ID
	baseURL string
	http    *http.Client
}

var _ chain.ChainRead = (*Client)(nil)

// New builds a Client reading from baseURL on behalf of chain id.
func New(id chain.ID, baseURL string) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{id: id, baseURL: baseURL, http: http.DefaultClient}
}

func (c *Client) ChainID() chain.ID { return c.id }

type heightResponse struct {
	RevisionNumber uint64 `json:"revision_number"`
	RevisionHeight uint64 `json:"revision_height"`
}

func (c *Client) LatestHeight(ctx context.Context) (chain.Height, error) {
	var res heightResponse
	if err := c.get(ctx, &res, "height"); err != nil {
		return chain.Height{}, err
	}
	return chain.Height{RevisionNumber: res.RevisionNumber, RevisionHeight: res.RevisionHeight}, nil
}

type stateResponse struct {
	Value         []byte `json:"value"`
	Proof         []byte `json:"proof"`
	ProofRevision uint64 `json:"proof_revision_number"`
	ProofHeight   uint64 `json:"proof_revision_height"`
}

func (c *Client) QueryState(ctx context.Context, path chain.StatePath, at chain.Height) (chain.StateProof, error) {
	id := path.ClientID + path.ConnectionID + path.PortID + path.ChannelID
	var res stateResponse
	err := c.get(ctx, &res, "state/%s/%s/%d-%d", path.Kind, id, at.RevisionNumber, at.RevisionHeight)
	if err != nil {
		return chain.StateProof{}, err
	}
	return chain.StateProof{
		Value: res.Value,
		Proof: res.Proof,
		ProofHeight: chain.Height{
			RevisionNumber: res.ProofRevision,
			RevisionHeight: res.ProofHeight,
		},
	}, nil
}

type eventResponse struct {
	Kind           string          `json:"kind"`
	RevisionNumber uint64          `json:"revision_number"`
	RevisionHeight uint64          `json:"revision_height"`
	TxHash         common.Hash     `json:"tx_hash"`
	Data           json.RawMessage `json:"data"`
}

// EventsInRange decodes each raw event's Data field as a map, leaving
// chain-family-specific typed decoding (into the concrete lightclient.*
// event types) to the caller, since this package has no knowledge of
// which chain family it's being used for.
func (c *Client) EventsInRange(ctx context.Context, from, to chain.Height) ([]chain.Event, error) {
	var res []eventResponse
	err := c.get(ctx, &res, "events/%d-%d/%d-%d", from.RevisionNumber, from.RevisionHeight, to.RevisionNumber, to.RevisionHeight)
	if err != nil {
		return nil, err
	}

	out := make([]chain.Event, 0, len(res))
	for _, e := range res {
		var data any
		if len(e.Data) > 0 {
			if err := json.Unmarshal(e.Data, &data); err != nil {
				return nil, fmt.Errorf("chainrpc: decoding event data: %w", err)
			}
		}
		out = append(out, chain.Event{
			Kind:   e.Kind,
			Height: chain.Height{RevisionNumber: e.RevisionNumber, RevisionHeight: e.RevisionHeight},
			TxHash: e.TxHash,
			Data:   data,
		})
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, out any, format string, args ...any) error {
	url := c.baseURL + fmt.Sprintf(format, args...)

	log.Debug("chainrpc: get", "url", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("chainrpc: building request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("chainrpc: request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		log.Error("chainrpc: request failed", "url", url, "status", res.StatusCode, "response", string(body))
		return fmt.Errorf("chainrpc: request to %s failed with status %d", url, res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("chainrpc: reading response body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("chainrpc: decoding response from %s: %w", url, err)
	}
	return nil
}
