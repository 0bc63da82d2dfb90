package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpost/quill/models"
)

func TestCreateComment(t *testing.T) {
	app := newTestApp(t)
	token, userID := app.signup("Ada", "ada@example.com")
	postID := app.createPost(token, "T", "B", "")

	w := app.do(http.MethodPost, "/comments", token, gin.H{"postId": postID, "content": "  hello  "})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	comment := decode(t, w)["comment"].(map[string]interface{})
	assert.Equal(t, "hello", comment["content"])
	assert.Equal(t, userID, comment["authorId"])
	assert.Equal(t, postID, comment["postId"])
	assert.Equal(t, "Ada", comment["author"].(map[string]interface{})["name"])
}

func TestCreateComment_Validation(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.signup("Ada", "ada@example.com")
	postID := app.createPost(token, "T", "B", "")

	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodPost, "/comments", token, gin.H{"content": "hi"}).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodPost, "/comments", token, gin.H{"postId": postID}).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodPost, "/comments", token, gin.H{"postId": postID, "content": "   "}).Code)
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodPost, "/comments", token, gin.H{"postId": models.NewID(), "content": "hi"}).Code)
	assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodPost, "/comments", "", gin.H{"postId": postID, "content": "hi"}).Code)
}

func TestListComments(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.signup("Ada", "ada@example.com")
	postID := app.createPost(token, "T", "B", "")
	for i := 0; i < 3; i++ {
		w := app.do(http.MethodPost, "/comments", token, gin.H{"postId": postID, "content": fmt.Sprintf("comment %d", i)})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := app.do(http.MethodGet, "/comments/"+postID+"?limit=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data, pagination := dataOf(t, w)
	assert.Len(t, data, 2)
	assert.Equal(t, float64(3), pagination["total"])
	assert.Equal(t, float64(2), pagination["totalPages"])
	assert.Equal(t, "comment 2", data[0].(map[string]interface{})["content"])

	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/comments/"+models.NewID(), "", nil).Code)
}

func TestUpdateDeleteComment_Ownership(t *testing.T) {
	app := newTestApp(t)
	adaToken, _ := app.signup("Ada", "ada@example.com")
	bobToken, _ := app.signup("Bob", "bob@example.com")
	postID := app.createPost(adaToken, "T", "B", "")

	w := app.do(http.MethodPost, "/comments", adaToken, gin.H{"postId": postID, "content": "mine"})
	require.Equal(t, http.StatusCreated, w.Code)
	commentID := decode(t, w)["comment"].(map[string]interface{})["id"].(string)

	assert.Equal(t, http.StatusForbidden, app.do(http.MethodPut, "/comments/"+commentID, bobToken, gin.H{"content": "theirs"}).Code)
	assert.Equal(t, http.StatusForbidden, app.do(http.MethodDelete, "/comments/"+commentID, bobToken, nil).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodPut, "/comments/"+commentID, adaToken, gin.H{"content": " "}).Code)
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodPut, "/comments/"+models.NewID(), adaToken, gin.H{"content": "x"}).Code)

	w = app.do(http.MethodPut, "/comments/"+commentID, adaToken, gin.H{"content": "edited"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "edited", decode(t, w)["comment"].(map[string]interface{})["content"])

	assert.Equal(t, http.StatusOK, app.do(http.MethodDelete, "/comments/"+commentID, adaToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodDelete, "/comments/"+commentID, adaToken, nil).Code)
}
