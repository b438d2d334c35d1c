package tracker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/lct-labs/jiraseed/pkg/catalog"
	"github.com/lct-labs/jiraseed/pkg/engine"
)

type version struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Released bool   `json:"released"`
}

func (c *Client) findVersion(ctx context.Context, projectKey, name string) (*engine.Found, error) {
	var versions []version
	path := fmt.Sprintf("/rest/api/2/project/%s/versions", url.PathEscape(projectKey))
	if err := c.do(ctx, http.MethodGet, path, nil, &versions); err != nil {
		if engine.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	for _, v := range versions {
		if v.Name == name {
			return &engine.Found{
				ID:       engine.Identifier(v.ID),
				ParentID: engine.Identifier(projectKey),
			}, nil
		}
	}
	return nil, nil
}

func (c *Client) createVersion(ctx context.Context, def catalog.EntityDefinition) (engine.Identifier, error) {
	body := map[string]any{
		"name":        def.Name,
		"project":     def.ProjectKey,
		"description": def.Attributes[catalog.AttrDescription],
		"released":    def.Attributes[catalog.AttrReleased] == "true",
	}

	var created version
	if err := c.do(ctx, http.MethodPost, "/rest/api/2/version", body, &created); err != nil {
		return "", err
	}
	return engine.Identifier(created.ID), nil
}
