package client

import (
	"context"
	"encoding/json"
	"net/http"
)

type StyleService struct {
	Options []RequestOption
}

func NewStyleService(opts ...RequestOption) StyleService {
	return StyleService{
		Options: opts,
	}
}

func (r *StyleService) List(ctx context.Context, opts ...RequestOption) ([]string, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, "GET", c.URL+"/v1/styles", nil)

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError(resp)
	}

	var result []string

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return result, nil
}
