// Package vendor drives the vendor service, the system of record for vendor
// status. This service never stores vendors locally.
package vendoradmin

import (
	"context"
	"encoding/json"
	"net/url"

	"soukscan/internal/platform/httpclient"
	id "soukscan/pkg/domain"
)

// Transition names the vendor service PATCH endpoint for a status change.
type Transition string

const (
	TransitionVerify   Transition = "verify"
	TransitionReject   Transition = "reject"
	TransitionSuspend  Transition = "suspend"
	TransitionActivate Transition = "activate"
)

// TakesReason reports whether the endpoint expects a reason parameter.
func (t Transition) TakesReason() bool {
	return t == TransitionReject || t == TransitionSuspend
}

// RemoteState is the vendor as returned by the vendor service after a call.
// ID and Status are read when present; the full body is kept verbatim.
type RemoteState struct {
	ID      id.VendorID
	Status  string
	Payload httpclient.RemotePayload
}

func (s *RemoteState) UnmarshalJSON(data []byte) error {
	if err := s.Payload.UnmarshalJSON(data); err != nil {
		return err
	}
	var probe struct {
		ID     id.VendorID `json:"id"`
		Status string      `json:"status"`
	}
	if json.Unmarshal(data, &probe) == nil {
		s.ID, s.Status = probe.ID, probe.Status
	}
	return nil
}

func (s RemoteState) MarshalJSON() ([]byte, error) {
	return s.Payload.MarshalJSON()
}

// Client is the typed vendor service API.
type Client struct {
	http *httpclient.Client
}

func NewClient(c *httpclient.Client) *Client {
	return &Client{http: c}
}

func (c *Client) List(ctx context.Context) (httpclient.RemotePayload, error) {
	var out httpclient.RemotePayload
	err := c.http.Get(ctx, "", nil, &out)
	return out, err
}

func (c *Client) ListPending(ctx context.Context) (httpclient.RemotePayload, error) {
	var out httpclient.RemotePayload
	err := c.http.Get(ctx, "/pending", nil, &out)
	return out, err
}

func (c *Client) Get(ctx context.Context, vendorID id.VendorID) (*RemoteState, error) {
	var out RemoteState
	if err := c.http.Get(ctx, "/"+vendorID.String(), nil, &out); err != nil {
		return nil, err
	}
	out.Payload.Service = c.http.Service()
	return &out, nil
}

// UpdateStatus commits a status transition on the vendor service. reason is
// sent only to the endpoints that take one.
func (c *Client) UpdateStatus(ctx context.Context, vendorID id.VendorID, t Transition, adminID id.AdminID, reason string) (*RemoteState, error) {
	q := url.Values{"adminId": {adminID.String()}}
	if t.TakesReason() {
		q.Set("reason", reason)
	}
	var out RemoteState
	if err := c.http.Patch(ctx, "/"+vendorID.String()+"/"+string(t), q, nil, &out); err != nil {
		return nil, err
	}
	out.Payload.Service = c.http.Service()
	return &out, nil
}

// DocumentMetadata calls GET /{id}/document/metadata.
func (c *Client) DocumentMetadata(ctx context.Context, vendorID id.VendorID) (httpclient.RemotePayload, error) {
	var out httpclient.RemotePayload
	err := c.http.Get(ctx, "/"+vendorID.String()+"/document/metadata", nil, &out)
	return out, err
}

// Document returns the document descriptor or signed download URL.
func (c *Client) Document(ctx context.Context, vendorID id.VendorID) (httpclient.RemotePayload, error) {
	var out httpclient.RemotePayload
	err := c.http.Get(ctx, "/"+vendorID.String()+"/document", nil, &out)
	return out, err
}
