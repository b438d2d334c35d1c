package tracker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/lct-labs/jiraseed/pkg/catalog"
	"github.com/lct-labs/jiraseed/pkg/engine"
)

func (c *Client) findProject(ctx context.Context, key string) (*engine.Found, error) {
	var proj struct {
		Key string `json:"key"`
	}
	path := fmt.Sprintf("/rest/api/2/project/%s", url.PathEscape(key))
	if err := c.do(ctx, http.MethodGet, path, nil, &proj); err != nil {
		if engine.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &engine.Found{ID: engine.Identifier(proj.Key)}, nil
}

func (c *Client) createProject(ctx context.Context, def catalog.EntityDefinition) (engine.Identifier, error) {
	body := map[string]any{
		"key":            def.Name,
		"name":           def.Attributes[catalog.AttrDisplayName],
		"description":    def.Attributes[catalog.AttrDescription],
		"lead":           def.Attributes[catalog.AttrLead],
		"projectTypeKey": "software",
	}

	var created struct {
		Key string `json:"key"`
	}
	if err := c.do(ctx, http.MethodPost, "/rest/api/2/project", body, &created); err != nil {
		return "", err
	}
	if created.Key == "" {
		created.Key = def.Name
	}
	return engine.Identifier(created.Key), nil
}

// DeleteProject removes the project container and everything in it.
func (c *Client) DeleteProject(ctx context.Context, projectKey string) error {
	path := fmt.Sprintf("/rest/api/2/project/%s", url.PathEscape(projectKey))
	err := c.do(ctx, http.MethodDelete, path, nil, nil)
	if engine.IsNotFound(err) {
		return nil
	}
	return err
}
