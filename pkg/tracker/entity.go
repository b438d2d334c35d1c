package tracker

import (
	"context"
	"strings"

	"github.com/lct-labs/jiraseed/pkg/catalog"
	"github.com/lct-labs/jiraseed/pkg/engine"
)

// FindEntity dispatches a logical-identity lookup to the right REST
// surface. A nil result means the entity does not exist.
func (c *Client) FindEntity(ctx context.Context, id catalog.Identity, parentID engine.Identifier) (*engine.Found, error) {
	switch id.Type {
	case catalog.TypeProject:
		return c.findProject(ctx, id.Name)
	case catalog.TypeCustomField:
		fid, err := c.fieldID(ctx, id.Name)
		if err != nil {
			return nil, err
		}
		if fid == "" {
			return nil, nil
		}
		return &engine.Found{ID: engine.Identifier(fid)}, nil
	case catalog.TypeIssueType:
		return c.findIssueType(ctx, id.Name)
	case catalog.TypeVersion:
		return c.findVersion(ctx, id.ProjectKey, id.Name)
	case catalog.TypeComponentMapping:
		if parentID == "" {
			return nil, nil
		}
		ok, err := c.hasLabel(ctx, parentID, componentLabel(id.Name))
		if err != nil || !ok {
			return nil, err
		}
		return &engine.Found{
			ID:       mappingIdentifier(parentID, id.Name),
			ParentID: parentID,
		}, nil
	default:
		return c.findIssue(ctx, id)
	}
}

// CreateEntity dispatches creation by entity type.
func (c *Client) CreateEntity(ctx context.Context, def catalog.EntityDefinition, parentID engine.Identifier) (engine.Identifier, error) {
	switch def.Type {
	case catalog.TypeProject:
		return c.createProject(ctx, def)
	case catalog.TypeCustomField:
		return c.createField(ctx, def)
	case catalog.TypeIssueType:
		return c.createIssueType(ctx, def.Name, def.Attributes[catalog.AttrDescription])
	case catalog.TypeVersion:
		return c.createVersion(ctx, def)
	case catalog.TypeComponentMapping:
		if err := c.addLabel(ctx, parentID, componentLabel(def.Name)); err != nil {
			return "", err
		}
		return mappingIdentifier(parentID, def.Name), nil
	default:
		return c.createIssue(ctx, def, parentID)
	}
}

// componentLabel turns a component name into a Jira label. Labels
// cannot contain spaces.
func componentLabel(component string) string {
	label := strings.ToLower(component)
	label = strings.ReplaceAll(label, " ", "-")
	return "component-" + label
}

func mappingIdentifier(featureID engine.Identifier, component string) engine.Identifier {
	return engine.Identifier(string(featureID) + "/" + componentLabel(component))
}
