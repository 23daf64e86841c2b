// Package dispatcher issues outbound calls to the counterparty switch.
// Sends are fire-and-forget: the answer to a lookup arrives later on the
// callback endpoints, and a transport failure is reported to the caller
// instead of being retried.
package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/paycrux/switch-connector/internal/headers"
	"github.com/paycrux/switch-connector/internal/model"
)

type SwitchClient struct {
	baseURL string
	client  *http.Client
}

func NewSwitchClient(baseURL string, timeoutMs int) *SwitchClient {
	if timeoutMs <= 0 {
		timeoutMs = 3000
	}

	return &SwitchClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: time.Duration(timeoutMs) * time.Millisecond},
	}
}

// SendLookupRequest GETs /parties/{idType}/{id} at the switch with
// translated headers. The answer arrives asynchronously via the callbacks.
func (c *SwitchClient) SendLookupRequest(ctx context.Context, req model.LookupRequest) error {
	h, err := headers.LookupRequest(req)
	if err != nil {
		return err
	}

	path := "/parties/" + req.PartyIDType.String() + "/" + req.PartyIdentifier

	return c.do(ctx, http.MethodGet, path, h, nil)
}

// SendLookupAnswer PUTs a resolved party to the switch when this side is
// the one answering a peer's lookup.
func (c *SwitchClient) SendLookupAnswer(ctx context.Context, answer model.PartiesAnswer, hctx headers.AnswerContext) error {
	info := answer.Party.PartyIDInfo
	path, err := headers.AnswerPath(info.PartyIDType, info.PartyIdentifier, false)
	if err != nil {
		return err
	}

	b, err := json.Marshal(answer)
	if err != nil {
		return fmt.Errorf("marshal parties answer: %w", err)
	}

	return c.do(ctx, http.MethodPut, path, headers.Answer(hctx), b)
}

// SendLookupError PUTs an opaque error payload to the switch's error leg.
func (c *SwitchClient) SendLookupError(ctx context.Context, idType model.IdentifierType, partyID string, errInfo []byte, hctx headers.AnswerContext) error {
	path, err := headers.AnswerPath(idType, partyID, true)
	if err != nil {
		return err
	}

	return c.do(ctx, http.MethodPut, path, headers.Answer(hctx), errInfo)
}

func (c *SwitchClient) do(ctx context.Context, method, path string, h http.Header, body []byte) error {
	var rd *bytes.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	for k, vs := range h {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}

	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return fmt.Errorf("switch %s %s status=%d", method, path, res.StatusCode)
	}

	return nil
}
