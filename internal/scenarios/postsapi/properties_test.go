package postsapi_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/probe/internal/expect"
	"github.com/raysh454/probe/internal/posts"
)

func TestProperty_EveryKnownPostHasTheSameShape(t *testing.T) {
	t.Parallel()
	client := newClient(t)
	ctx := context.Background()

	for id := 1; id <= 100; id++ {
		snap, err := client.Get(ctx, id)
		expect.NoError(t, err, fmt.Sprintf("get post %d", id))
		post := okJSON(t, snap, http.StatusOK)
		require.NoError(t, posts.CheckShape(post), "post %d", id)
		assert.Equal(t, id, post.GetByKey(posts.FieldID).IntValue())
	}
}

func TestProperty_CreateEchoesAnyFieldSubset(t *testing.T) {
	t.Parallel()
	all := []struct {
		key   string
		value any
	}{
		{posts.FieldTitle, "subset title"},
		{posts.FieldBody, "subset body"},
		{posts.FieldUserID, 7},
	}

	for mask := 0; mask < 1<<len(all); mask++ {
		payload := map[string]any{}
		for i, f := range all {
			if mask&(1<<i) != 0 {
				payload[f.key] = f.value
			}
		}
		mask := mask
		t.Run(fmt.Sprintf("mask=%03b", mask), func(t *testing.T) {
			t.Parallel()
			snap, err := newClient(t).Create(context.Background(), payload)
			expect.NoError(t, err, "create post")
			created := okJSON(t, snap, http.StatusCreated)

			id := created.GetByKey(posts.FieldID)
			require.True(t, id.IsNumber(), "id must be numeric, got %s", id.JSONString())
			assert.Greater(t, id.IntValue(), 0)
			for key, want := range payload {
				got := created.GetByKey(key)
				switch w := want.(type) {
				case string:
					assert.Equal(t, w, got.StringValue(), key)
				case int:
					assert.Equal(t, w, got.IntValue(), key)
				}
			}
		})
	}
}

func TestProperty_PatchKeepsUntouchedFields(t *testing.T) {
	t.Parallel()
	client := newClient(t)
	ctx := context.Background()

	orig, err := client.Get(ctx, 3)
	expect.NoError(t, err, "get post")
	before := okJSON(t, orig, http.StatusOK)

	snap, err := client.Update(ctx, 3, map[string]any{posts.FieldBody: "only the body changes"})
	expect.NoError(t, err, "patch post")
	after := okJSON(t, snap, http.StatusOK)

	require.NoError(t, posts.CheckShape(after))
	assert.Equal(t, "only the body changes", after.GetByKey(posts.FieldBody).StringValue())
	assert.Equal(t, before.GetByKey(posts.FieldTitle).StringValue(), after.GetByKey(posts.FieldTitle).StringValue())
	assert.Equal(t, before.GetByKey(posts.FieldUserID).IntValue(), after.GetByKey(posts.FieldUserID).IntValue())
}

func TestProperty_MissingIDAsymmetry(t *testing.T) {
	t.Parallel()
	client := newClient(t)
	ctx := context.Background()

	get, err := client.Get(ctx, missingID)
	expect.NoError(t, err, "get missing")
	expect.Status(t, get, http.StatusNotFound)

	put, err := client.Replace(ctx, missingID, posts.Post{Title: "x"})
	expect.NoError(t, err, "put missing")
	expect.Status(t, put, http.StatusInternalServerError)

	del, err := client.Delete(ctx, missingID)
	expect.NoError(t, err, "delete missing")
	expect.Status(t, del, http.StatusOK)
	assert.True(t, del.IsEmptyObject())
}
