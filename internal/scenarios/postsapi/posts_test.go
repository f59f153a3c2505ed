package postsapi_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/raysh454/probe/internal/apirunner"
	"github.com/raysh454/probe/internal/expect"
	"github.com/raysh454/probe/internal/posts"
	"github.com/raysh454/probe/internal/testutil"
)

const missingID = 999999

func newClient(t *testing.T) *posts.Client {
	t.Helper()
	return posts.NewClient(testutil.APIRunner(t))
}

// okJSON fails unless snap has the wanted status and a JSON body.
func okJSON(t *testing.T, snap *apirunner.Snapshot, want int) ldvalue.Value {
	t.Helper()
	expect.NoError(t, snap.ExpectStatus(want), snap.Summary())
	v, err := snap.JSON()
	expect.NoError(t, err, "parse body")
	return v
}

func TestPosts_ListAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	snap, err := newClient(t).List(ctx)
	expect.NoError(t, err, "list posts")
	list := okJSON(t, snap, http.StatusOK)

	require.Equal(t, ldvalue.ArrayType, list.Type())
	require.Greater(t, list.Count(), 0)
	require.NoError(t, posts.CheckFields(list.GetByIndex(0), posts.FieldID, posts.FieldUserID, posts.FieldTitle, posts.FieldBody))
}

func TestPosts_GetOne(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	snap, err := newClient(t).Get(ctx, 1)
	expect.NoError(t, err, "get post")
	post := okJSON(t, snap, http.StatusOK)

	assert.Equal(t, 1, post.GetByKey(posts.FieldID).IntValue())
	require.NoError(t, posts.CheckFields(post, posts.FieldUserID, posts.FieldTitle, posts.FieldBody))
	assert.NotEmpty(t, post.GetByKey(posts.FieldTitle).StringValue())
	assert.NotEmpty(t, post.GetByKey(posts.FieldBody).StringValue())
}

func TestPosts_GetMissingIsNotFound(t *testing.T) {
	t.Parallel()

	snap, err := newClient(t).Get(context.Background(), missingID)
	expect.NoError(t, err, "get missing post")
	expect.Status(t, snap, http.StatusNotFound)
}

func TestPosts_Create(t *testing.T) {
	t.Parallel()
	in := posts.Post{
		Title:  "Test Post Title",
		Body:   "This is a test post body content for API testing",
		UserID: 1,
	}

	snap, err := newClient(t).Create(context.Background(), in)
	expect.NoError(t, err, "create post")
	created := okJSON(t, snap, http.StatusCreated)

	id := created.GetByKey(posts.FieldID)
	require.True(t, id.IsNumber(), "id must be a number, got %s", id.JSONString())
	assert.Greater(t, id.IntValue(), 0)
	expect.Equal(t, "created title", in.Title, created.GetByKey(posts.FieldTitle).StringValue())
	expect.Equal(t, "created body", in.Body, created.GetByKey(posts.FieldBody).StringValue())
	assert.Equal(t, in.UserID, created.GetByKey(posts.FieldUserID).IntValue())
}

func TestPosts_CreateWithMissingFields(t *testing.T) {
	t.Parallel()

	snap, err := newClient(t).Create(context.Background(), map[string]any{"title": "Incomplete Post"})
	expect.NoError(t, err, "create post")
	created := okJSON(t, snap, http.StatusCreated)

	require.NoError(t, posts.CheckFields(created, posts.FieldID))
	expect.Equal(t, "created title", "Incomplete Post", created.GetByKey(posts.FieldTitle).StringValue())
}

func TestPosts_Replace(t *testing.T) {
	t.Parallel()
	in := posts.Post{
		ID:     1,
		Title:  "Updated Post Title",
		Body:   "This is the updated body content for the post",
		UserID: 2,
	}

	snap, err := newClient(t).Replace(context.Background(), 1, in)
	expect.NoError(t, err, "replace post")
	out := okJSON(t, snap, http.StatusOK)

	assert.Equal(t, 1, out.GetByKey(posts.FieldID).IntValue())
	expect.Equal(t, "replaced title", in.Title, out.GetByKey(posts.FieldTitle).StringValue())
	expect.Equal(t, "replaced body", in.Body, out.GetByKey(posts.FieldBody).StringValue())
	assert.Equal(t, in.UserID, out.GetByKey(posts.FieldUserID).IntValue())
}

// The service answers 500, not 404, for a PUT on an unknown id.
func TestPosts_ReplaceMissingIsServerError(t *testing.T) {
	t.Parallel()
	in := posts.Post{ID: missingID, Title: "Updated Title", Body: "Updated body", UserID: 1}

	snap, err := newClient(t).Replace(context.Background(), missingID, in)
	expect.NoError(t, err, "replace missing post")
	expect.Status(t, snap, http.StatusInternalServerError)
}

func TestPosts_UpdateOneField(t *testing.T) {
	t.Parallel()

	snap, err := newClient(t).Update(context.Background(), 1, map[string]any{"title": "Partially Updated Title"})
	expect.NoError(t, err, "patch post")
	out := okJSON(t, snap, http.StatusOK)

	assert.Equal(t, 1, out.GetByKey(posts.FieldID).IntValue())
	expect.Equal(t, "patched title", "Partially Updated Title", out.GetByKey(posts.FieldTitle).StringValue())
	require.NoError(t, posts.CheckFields(out, posts.FieldBody, posts.FieldUserID))
}

func TestPosts_UpdateTwoFields(t *testing.T) {
	t.Parallel()
	patch := map[string]any{
		"title": "New Title via PATCH",
		"body":  "New body content via PATCH",
	}

	snap, err := newClient(t).Update(context.Background(), 2, patch)
	expect.NoError(t, err, "patch post")
	out := okJSON(t, snap, http.StatusOK)

	assert.Equal(t, 2, out.GetByKey(posts.FieldID).IntValue())
	expect.Equal(t, "patched title", "New Title via PATCH", out.GetByKey(posts.FieldTitle).StringValue())
	expect.Equal(t, "patched body", "New body content via PATCH", out.GetByKey(posts.FieldBody).StringValue())
	require.NoError(t, posts.CheckFields(out, posts.FieldUserID))
}

func TestPosts_Delete(t *testing.T) {
	t.Parallel()
	for _, id := range []int{1, missingID} {
		id := id
		t.Run(fmt.Sprintf("id=%d", id), func(t *testing.T) {
			t.Parallel()
			snap, err := newClient(t).Delete(context.Background(), id)
			expect.NoError(t, err, "delete post")
			expect.Status(t, snap, http.StatusOK)
			assert.True(t, snap.IsEmptyObject(), "expected {} body, got %s", snap.Text())
		})
	}
}
