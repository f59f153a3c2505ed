// Package posts is the typed view of the /posts resource of the REST
// fixture service and the shape every post body must have.
package posts

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/raysh454/probe/internal/apirunner"
)

// Collection is the resource path.
const Collection = "/posts"

// Field names as they appear on the wire.
const (
	FieldID     = "id"
	FieldUserID = "userId"
	FieldTitle  = "title"
	FieldBody   = "body"
)

// Post mirrors one post. Zero fields are omitted so partial payloads can be
// built from the same type.
type Post struct {
	ID     int    `json:"id,omitempty"`
	UserID int    `json:"userId,omitempty"`
	Title  string `json:"title,omitempty"`
	Body   string `json:"body,omitempty"`
}

var fieldTypes = map[string]ldvalue.ValueType{
	FieldID:     ldvalue.NumberType,
	FieldUserID: ldvalue.NumberType,
	FieldTitle:  ldvalue.StringType,
	FieldBody:   ldvalue.StringType,
}

// Path returns the item path for id.
func Path(id int) string {
	return fmt.Sprintf("%s/%d", Collection, id)
}

// CheckShape verifies v is an object with exactly id, userId, title and body,
// typed number, number, string, string.
func CheckShape(v ldvalue.Value) error {
	if v.Type() != ldvalue.ObjectType {
		return fmt.Errorf("post: expected object, got %s", v.Type())
	}
	keys := v.Keys()
	sort.Strings(keys)
	if len(keys) != len(fieldTypes) {
		return fmt.Errorf("post: expected fields [body id title userId], got %v", keys)
	}
	return CheckFields(v, FieldID, FieldUserID, FieldTitle, FieldBody)
}

// CheckFields verifies that each named field is present with its wire type.
// Extra fields are allowed.
func CheckFields(v ldvalue.Value, names ...string) error {
	if v.Type() != ldvalue.ObjectType {
		return fmt.Errorf("post: expected object, got %s", v.Type())
	}
	present := make(map[string]bool)
	for _, k := range v.Keys() {
		present[k] = true
	}
	var problems []string
	for _, name := range names {
		if !present[name] {
			problems = append(problems, fmt.Sprintf("missing %q", name))
			continue
		}
		field := v.GetByKey(name)
		want, known := fieldTypes[name]
		if known && field.Type() != want {
			problems = append(problems, fmt.Sprintf("%q is %s, want %s", name, field.Type(), want))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("post: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Client wraps a runner with the /posts calls the scenarios make.
type Client struct {
	runner *apirunner.Runner
}

func NewClient(runner *apirunner.Runner) *Client {
	return &Client{runner: runner}
}

func (c *Client) List(ctx context.Context) (*apirunner.Snapshot, error) {
	return c.runner.Get(ctx, Collection)
}

func (c *Client) Get(ctx context.Context, id int) (*apirunner.Snapshot, error) {
	return c.runner.Get(ctx, Path(id))
}

// Create posts payload as-is; any subset of fields (or none) is allowed.
func (c *Client) Create(ctx context.Context, payload any) (*apirunner.Snapshot, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	return c.runner.Post(ctx, Collection, payload)
}

// Replace sends a full PUT of p to id.
func (c *Client) Replace(ctx context.Context, id int, p Post) (*apirunner.Snapshot, error) {
	return c.runner.Put(ctx, Path(id), p)
}

// Update sends a PATCH carrying only the given fields.
func (c *Client) Update(ctx context.Context, id int, fields map[string]any) (*apirunner.Snapshot, error) {
	return c.runner.Patch(ctx, Path(id), fields)
}

func (c *Client) Delete(ctx context.Context, id int) (*apirunner.Snapshot, error) {
	return c.runner.Delete(ctx, Path(id))
}
