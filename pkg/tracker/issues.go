package tracker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/lct-labs/jiraseed/pkg/catalog"
	"github.com/lct-labs/jiraseed/pkg/engine"
)

// issueFields is the subset of issue fields the client reads back.
type issueFields struct {
	Summary   string `json:"summary"`
	IssueType struct {
		Name string `json:"name"`
	} `json:"issuetype"`
	Parent string   `json:"customfield_10108"`
	Labels []string `json:"labels"`
}

type issue struct {
	Key    string      `json:"key"`
	Fields issueFields `json:"fields"`
}

type searchResult struct {
	StartAt int     `json:"startAt"`
	Total   int     `json:"total"`
	Issues  []issue `json:"issues"`
}

// searchIssues pages through a JQL query.
func (c *Client) searchIssues(ctx context.Context, jql string) ([]issue, error) {
	var all []issue
	for startAt := 0; ; {
		req := map[string]any{
			"jql":        jql,
			"startAt":    startAt,
			"maxResults": 100,
			"fields":     []string{"summary", "issuetype", parentLinkField, "labels"},
		}
		var page searchResult
		if err := c.do(ctx, http.MethodPost, "/rest/api/2/search", req, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Issues...)
		startAt += len(page.Issues)
		if startAt >= page.Total || len(page.Issues) == 0 {
			return all, nil
		}
	}
}

// findIssue locates an issue by project, issue type and exact summary.
// The JQL summary operator is a text match, so results are filtered
// for summary equality.
func (c *Client) findIssue(ctx context.Context, id catalog.Identity) (*engine.Found, error) {
	jql := fmt.Sprintf(`project = "%s" AND issuetype = "%s" AND summary ~ "\"%s\""`,
		jqlEscape(id.ProjectKey), id.Type.IssueTypeName(), jqlEscape(id.Name))

	issues, err := c.searchIssues(ctx, jql)
	if err != nil {
		return nil, err
	}
	for _, is := range issues {
		if is.Fields.Summary == id.Name {
			return &engine.Found{
				ID:       engine.Identifier(is.Key),
				ParentID: engine.Identifier(is.Fields.Parent),
			}, nil
		}
	}
	return nil, nil
}

// createIssue creates one hierarchy or constraint issue. The parent
// link is set only for issue parents; issues whose logical parent is
// the project itself carry no link, and constraints never carry one,
// they reference their target through a Blocks link instead.
func (c *Client) createIssue(ctx context.Context, def catalog.EntityDefinition, parentID engine.Identifier) (engine.Identifier, error) {
	fields := map[string]any{
		"project":     map[string]string{"key": def.ProjectKey},
		"summary":     def.Name,
		"description": def.Attributes[catalog.AttrDescription],
		"issuetype":   map[string]string{"name": def.Type.IssueTypeName()},
	}
	if def.Type == catalog.TypeConstraint {
		c.constraintFields(ctx, def, fields)
		fields["labels"] = constraintLabels(def.Attributes[catalog.AttrGuild])
	} else if def.Parent != nil && def.Parent.Type != catalog.TypeProject && parentID != "" {
		fields[parentLinkField] = string(parentID)
	}

	var created struct {
		Key string `json:"key"`
	}
	err := c.do(ctx, http.MethodPost, "/rest/api/2/issue",
		map[string]any{"fields": fields}, &created)
	if err != nil {
		return "", err
	}
	id := engine.Identifier(created.Key)

	if status := def.Attributes[catalog.AttrStatus]; status != "" {
		// Best effort: a workflow without the status leaves the issue
		// in its initial state rather than failing the creation.
		if err := c.transitionTo(ctx, id, status); err != nil {
			c.log.WithError(err).Warnf("transition of %s to %q failed", id, status)
		}
	}
	return id, nil
}

// constraintLabels are the fixed marker label plus the guild label,
// with the guild name normalized the same way component labels are.
func constraintLabels(guild string) []string {
	labels := []string{"constraint"}
	if guild != "" {
		labels = append(labels, "guild-"+strings.ReplaceAll(strings.ToLower(guild), " ", "-"))
	}
	return labels
}

// CreateBlocksLink links blockerID to blockedID with the standard
// Blocks link type; the blocker is the outward side.
func (c *Client) CreateBlocksLink(ctx context.Context, blockerID, blockedID engine.Identifier) error {
	body := map[string]any{
		"type":         map[string]string{"name": "Blocks"},
		"outwardIssue": map[string]string{"key": string(blockerID)},
		"inwardIssue":  map[string]string{"key": string(blockedID)},
	}
	return c.do(ctx, http.MethodPost, "/rest/api/2/issueLink", body, nil)
}

// transitionTo moves an issue to the named workflow status via the
// first transition whose destination matches, case-insensitively.
func (c *Client) transitionTo(ctx context.Context, id engine.Identifier, status string) error {
	var available struct {
		Transitions []struct {
			ID string `json:"id"`
			To struct {
				Name string `json:"name"`
			} `json:"to"`
		} `json:"transitions"`
	}
	path := fmt.Sprintf("/rest/api/2/issue/%s/transitions", url.PathEscape(string(id)))
	if err := c.do(ctx, http.MethodGet, path, nil, &available); err != nil {
		return err
	}
	for _, t := range available.Transitions {
		if strings.EqualFold(t.To.Name, status) {
			body := map[string]any{"transition": map[string]string{"id": t.ID}}
			return c.do(ctx, http.MethodPost, path, body, nil)
		}
	}
	return engine.NewValidationError(
		fmt.Sprintf("no transition to status %q available on %s", status, id), nil)
}

// constraintFields adds the governance custom field values when the
// fields exist on the instance. A missing field is skipped rather than
// failing the issue, so constraint provisioning works on instances
// where the fields phase has not run.
func (c *Client) constraintFields(ctx context.Context, def catalog.EntityDefinition, fields map[string]any) {
	set := func(fieldName, value string, option bool) {
		if value == "" {
			return
		}
		id, err := c.fieldID(ctx, fieldName)
		if err != nil || id == "" {
			c.log.Debugf("custom field %q not available, skipping", fieldName)
			return
		}
		if option {
			fields[id] = map[string]string{"value": value}
		} else {
			fields[id] = value
		}
	}
	set("Guild", def.Attributes[catalog.AttrGuild], true)
	set("Risk Materiality", def.Attributes[catalog.AttrMateriality], true)
	set("Mitigation Plan", def.Attributes[catalog.AttrMitigationPlan], false)
}

// DeleteEntity removes an issue and its subtasks. An already absent
// issue counts as deleted.
func (c *Client) DeleteEntity(ctx context.Context, id engine.Identifier) error {
	path := fmt.Sprintf("/rest/api/2/issue/%s?deleteSubtasks=true", url.PathEscape(string(id)))
	err := c.do(ctx, http.MethodDelete, path, nil, nil)
	if engine.IsNotFound(err) {
		return nil
	}
	return err
}

// ListScoped returns every governance issue in the project with its
// parent link, for teardown planning.
func (c *Client) ListScoped(ctx context.Context, projectKey string) ([]engine.LiveEntity, error) {
	jql := fmt.Sprintf(
		`project = "%s" AND issuetype in ("Strategic Objective", "Portfolio Epic", "Business Outcome", "Feature", "Constraint")`,
		jqlEscape(projectKey))

	issues, err := c.searchIssues(ctx, jql)
	if err != nil {
		return nil, err
	}

	entities := make([]engine.LiveEntity, 0, len(issues))
	for _, is := range issues {
		t := entityTypeFor(is.Fields.IssueType.Name)
		if t == "" {
			continue
		}
		entities = append(entities, engine.LiveEntity{
			ID:         engine.Identifier(is.Key),
			Type:       t,
			Name:       is.Fields.Summary,
			ProjectKey: projectKey,
			ParentID:   engine.Identifier(is.Fields.Parent),
		})
	}
	return entities, nil
}

// ListChildren returns the issues whose parent link points at id.
func (c *Client) ListChildren(ctx context.Context, id engine.Identifier) ([]engine.Identifier, error) {
	jql := fmt.Sprintf(`cf[10108] = "%s"`, jqlEscape(string(id)))
	issues, err := c.searchIssues(ctx, jql)
	if err != nil {
		return nil, err
	}
	children := make([]engine.Identifier, 0, len(issues))
	for _, is := range issues {
		children = append(children, engine.Identifier(is.Key))
	}
	return children, nil
}

// ListFeaturesWithoutVersion returns the project's features with no
// fix version assigned.
func (c *Client) ListFeaturesWithoutVersion(ctx context.Context, projectKey string) ([]engine.LiveEntity, error) {
	jql := fmt.Sprintf(`project = "%s" AND issuetype = "Feature" AND fixVersion is EMPTY`,
		jqlEscape(projectKey))

	issues, err := c.searchIssues(ctx, jql)
	if err != nil {
		return nil, err
	}
	features := make([]engine.LiveEntity, 0, len(issues))
	for _, is := range issues {
		features = append(features, engine.LiveEntity{
			ID:         engine.Identifier(is.Key),
			Type:       catalog.TypeFeature,
			Name:       is.Fields.Summary,
			ProjectKey: projectKey,
			ParentID:   engine.Identifier(is.Fields.Parent),
		})
	}
	return features, nil
}

// SetFixVersion adds a fix version to an issue, keeping any versions
// already present.
func (c *Client) SetFixVersion(ctx context.Context, id engine.Identifier, version string) error {
	body := map[string]any{
		"update": map[string]any{
			"fixVersions": []map[string]any{
				{"add": map[string]string{"name": version}},
			},
		},
	}
	path := fmt.Sprintf("/rest/api/2/issue/%s", url.PathEscape(string(id)))
	return c.do(ctx, http.MethodPut, path, body, nil)
}

// addLabel idempotently adds a label to an issue.
func (c *Client) addLabel(ctx context.Context, id engine.Identifier, label string) error {
	body := map[string]any{
		"update": map[string]any{
			"labels": []map[string]any{
				{"add": label},
			},
		},
	}
	path := fmt.Sprintf("/rest/api/2/issue/%s", url.PathEscape(string(id)))
	return c.do(ctx, http.MethodPut, path, body, nil)
}

// hasLabel checks whether an issue carries the label.
func (c *Client) hasLabel(ctx context.Context, id engine.Identifier, label string) (bool, error) {
	var is issue
	path := fmt.Sprintf("/rest/api/2/issue/%s?fields=labels", url.PathEscape(string(id)))
	if err := c.do(ctx, http.MethodGet, path, nil, &is); err != nil {
		if engine.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	for _, l := range is.Fields.Labels {
		if l == label {
			return true, nil
		}
	}
	return false, nil
}

func entityTypeFor(issueTypeName string) catalog.EntityType {
	for _, t := range []catalog.EntityType{
		catalog.TypeStrategicObjective,
		catalog.TypePortfolioEpic,
		catalog.TypeBusinessOutcome,
		catalog.TypeFeature,
		catalog.TypeConstraint,
	} {
		if t.IssueTypeName() == issueTypeName {
			return t
		}
	}
	return ""
}
