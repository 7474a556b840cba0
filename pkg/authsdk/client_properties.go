package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListProperties returns every listing. No session is needed.
func (c *SDKClient) ListProperties(ctx context.Context) ([]Property, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/properties", "", nil, nil)
	if err != nil {
		return nil, err
	}

	var out []Property
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProperty returns one listing. No session is needed.
func (c *SDKClient) GetProperty(ctx context.Context, id string) (*Property, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/properties/"+url.PathEscape(id), "", nil, nil)
	if err != nil {
		return nil, err
	}

	var p Property
	if err := decodeJSON(resp, &p, http.StatusOK); err != nil {
		return nil, err
	}
	return &p, nil
}

// SearchProperties matches query against listing titles and descriptions.
func (c *SDKClient) SearchProperties(ctx context.Context, query string) ([]Property, error) {
	path := "/v1/properties/search?q=" + url.QueryEscape(query)
	resp, err := c.doRequest(ctx, http.MethodGet, path, "", nil, nil)
	if err != nil {
		return nil, err
	}

	var out []Property
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAgents returns the public card of every agent.
func (c *SDKClient) ListAgents(ctx context.Context) ([]Agent, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/agents", "", nil, nil)
	if err != nil {
		return nil, err
	}

	var out []Agent
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitContact sends an enquiry. No session is needed.
func (c *SDKClient) SubmitContact(ctx context.Context, req ContactRequest) (*Contact, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/contacts", "", req, nil)
	if err != nil {
		return nil, err
	}

	var out Contact
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
