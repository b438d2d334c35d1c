package tracker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/lct-labs/jiraseed/pkg/catalog"
	"github.com/lct-labs/jiraseed/pkg/engine"
)

type field struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Custom bool   `json:"custom"`
}

// fieldCache memoizes the instance's field list; fields are global and
// the list is consulted for every constraint creation.
type fieldCache struct {
	mu   sync.Mutex
	byID map[string]string
}

// fieldID resolves a custom field name to its customfield_NNNNN id.
// Returns "" when no field with that name exists.
func (c *Client) fieldID(ctx context.Context, name string) (string, error) {
	c.fields.mu.Lock()
	if c.fields.byID != nil {
		id := c.fields.byID[name]
		c.fields.mu.Unlock()
		return id, nil
	}
	c.fields.mu.Unlock()

	var all []field
	if err := c.do(ctx, http.MethodGet, "/rest/api/2/field", nil, &all); err != nil {
		return "", err
	}

	byID := make(map[string]string, len(all))
	for _, f := range all {
		if f.Custom {
			byID[f.Name] = f.ID
		}
	}

	c.fields.mu.Lock()
	c.fields.byID = byID
	c.fields.mu.Unlock()
	return byID[name], nil
}

func (c *Client) createField(ctx context.Context, def catalog.EntityDefinition) (engine.Identifier, error) {
	body := map[string]any{
		"name":        def.Name,
		"description": def.Attributes[catalog.AttrDescription],
		"type":        def.Attributes[catalog.AttrFieldType],
	}
	if sk := def.Attributes[catalog.AttrSearcherKey]; sk != "" {
		body["searcherKey"] = sk
	}

	var created field
	if err := c.do(ctx, http.MethodPost, "/rest/api/2/field", body, &created); err != nil {
		return "", err
	}

	// Invalidate the memoized field list so the new field resolves.
	c.fields.mu.Lock()
	c.fields.byID = nil
	c.fields.mu.Unlock()

	if opts := def.Attributes[catalog.AttrOptions]; opts != "" {
		c.createFieldOptions(ctx, created.ID, strings.Split(opts, ","))
	}
	return engine.Identifier(created.ID), nil
}

// createFieldOptions populates a select field's options. Option
// provisioning is best effort: instances without the field option
// endpoint still get the field itself, and option values are then
// maintained by an administrator.
func (c *Client) createFieldOptions(ctx context.Context, fieldID string, options []string) {
	for _, opt := range options {
		body := map[string]any{"value": opt}
		path := fmt.Sprintf("/rest/api/2/field/%s/option", url.PathEscape(fieldID))
		if err := c.do(ctx, http.MethodPost, path, body, nil); err != nil {
			c.log.WithError(err).Warnf("option %q not created for field %s", opt, fieldID)
			return
		}
	}
}

// AttachFieldToScreens adds the field to the default screen. Jira
// rejects a field that is already present; that response counts as
// success so field provisioning stays idempotent.
func (c *Client) AttachFieldToScreens(ctx context.Context, fieldID engine.Identifier, projectKey string) error {
	path := fmt.Sprintf("/rest/api/2/screens/addToDefault/%s", url.PathEscape(string(fieldID)))
	err := c.do(ctx, http.MethodPost, path, nil, nil)
	if err != nil && engine.ErrCode(err) == engine.CodeValidation &&
		strings.Contains(strings.ToLower(err.Error()), "already") {
		c.log.Debugf("field %s already on default screen", fieldID)
		return nil
	}
	return err
}
