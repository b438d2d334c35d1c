package tracker

import (
	"context"
	"net/http"

	"github.com/lct-labs/jiraseed/pkg/engine"
)

type issueType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// findIssueType matches an issue type by name against the instance's
// global issue type list.
func (c *Client) findIssueType(ctx context.Context, name string) (*engine.Found, error) {
	var types []issueType
	if err := c.do(ctx, http.MethodGet, "/rest/api/2/issuetype", nil, &types); err != nil {
		return nil, err
	}
	for _, t := range types {
		if t.Name == name {
			return &engine.Found{ID: engine.Identifier(t.ID)}, nil
		}
	}
	return nil, nil
}

// createIssueType registers a standard-level issue type.
func (c *Client) createIssueType(ctx context.Context, name, description string) (engine.Identifier, error) {
	body := map[string]string{
		"name":        name,
		"description": description,
		"type":        "standard",
	}
	var created issueType
	if err := c.do(ctx, http.MethodPost, "/rest/api/2/issuetype", body, &created); err != nil {
		return "", err
	}
	return engine.Identifier(created.ID), nil
}
