package fixtures

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/raysh454/probe/internal/logging"
	"github.com/raysh454/probe/internal/posts"
)

// The posts double is read-only: writes are answered as if they succeeded
// but nothing is stored, the same way the public fixture behaves.

func (s *Server) mountPosts() {
	r := s.router
	r.Get(posts.Collection, s.handleListPosts)
	r.Post(posts.Collection, s.handleCreatePost)
	r.Get(posts.Collection+"/{id}", s.handleGetPost)
	r.Put(posts.Collection+"/{id}", s.handleReplacePost)
	r.Patch(posts.Collection+"/{id}", s.handleUpdatePost)
	r.Delete(posts.Collection+"/{id}", s.handleDeletePost)
}

// seedPost returns the deterministic post with the given id. Ten posts per
// user, like the public data set.
func seedPost(id int) posts.Post {
	return posts.Post{
		ID:     id,
		UserID: (id-1)/10 + 1,
		Title:  fmt.Sprintf("post %d title", id),
		Body:   fmt.Sprintf("body of post %d\nwritten by user %d", id, (id-1)/10+1),
	}
}

func (s *Server) lookupPost(r *http.Request) (int, posts.Post, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, posts.Post{}, false
	}
	if id < 1 || id > s.cfg.PostCount {
		return id, posts.Post{}, false
	}
	return id, seedPost(id), true
}

func postFields(p posts.Post) map[string]any {
	return map[string]any{
		posts.FieldID:     p.ID,
		posts.FieldUserID: p.UserID,
		posts.FieldTitle:  p.Title,
		posts.FieldBody:   p.Body,
	}
}

func decodeFields(r *http.Request) (map[string]any, error) {
	fields := map[string]any{}
	if r.Body == nil || r.ContentLength == 0 {
		return fields, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return nil, err
	}
	// A literal null decodes to a nil map.
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	out := make([]posts.Post, 0, s.cfg.PostCount)
	for id := 1; id <= s.cfg.PostCount; id++ {
		out = append(out, seedPost(id))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	_, p, ok := s.lookupPost(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleCreatePost echoes whatever fields were sent plus the next id.
// Nothing is validated.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	fields[posts.FieldID] = s.cfg.PostCount + 1
	writeJSON(w, http.StatusCreated, fields)
}

// handleReplacePost answers 500 for unknown ids, which is what the public
// fixture does instead of 404.
func (s *Server) handleReplacePost(w http.ResponseWriter, r *http.Request) {
	id, _, ok := s.lookupPost(r)
	if !ok {
		s.logger.Debug("replace of unknown post", logging.Field{Key: "id", Value: id})
		http.Error(w, "TypeError: Cannot read properties of undefined (reading 'id')", http.StatusInternalServerError)
		return
	}
	fields, err := decodeFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	fields[posts.FieldID] = id
	writeJSON(w, http.StatusOK, fields)
}

// handleUpdatePost merges the sent fields over the stored post. Unknown ids
// get the sent fields back with the path id.
func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, p, ok := s.lookupPost(r)
	fields, err := decodeFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	out := map[string]any{}
	if ok {
		out = postFields(p)
	}
	for k, v := range fields {
		out[k] = v
	}
	out[posts.FieldID] = id
	writeJSON(w, http.StatusOK, out)
}

// handleDeletePost always succeeds with an empty object, known id or not.
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{})
}
