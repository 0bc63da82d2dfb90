package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpost/quill/models"
)

func TestLike_Twice(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.signup("Ada", "ada@example.com")
	id := app.createPost(token, "T", "B", "")

	w := app.do(http.MethodPost, "/posts/"+id+"/like", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode(t, w)
	assert.Equal(t, float64(1), first["likeCount"])
	assert.Equal(t, true, first["isLiked"])

	w = app.do(http.MethodPost, "/posts/"+id+"/like", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "post already liked", decode(t, w)["error"])

	w = app.do(http.MethodGet, "/posts/"+id, token, nil)
	post := decode(t, w)
	assert.Equal(t, float64(1), post["likeCount"])
	assert.Equal(t, true, post["isLiked"])
}

func TestUnlike_WithoutLike(t *testing.T) {
	app := newTestApp(t)
	adaToken, _ := app.signup("Ada", "ada@example.com")
	bobToken, _ := app.signup("Bob", "bob@example.com")
	id := app.createPost(adaToken, "T", "B", "")
	require.Equal(t, http.StatusCreated, app.do(http.MethodPost, "/posts/"+id+"/like", adaToken, nil).Code)

	w := app.do(http.MethodDelete, "/posts/"+id+"/like", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(http.MethodGet, "/posts/"+id, "", nil)
	assert.Equal(t, float64(1), decode(t, w)["likeCount"])
}

func TestLikeUnlikeCycle(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.signup("Ada", "ada@example.com")
	id := app.createPost(token, "T", "B", "")

	require.Equal(t, http.StatusCreated, app.do(http.MethodPost, "/posts/"+id+"/like", token, nil).Code)

	w := app.do(http.MethodDelete, "/posts/"+id+"/like", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, float64(0), resp["likeCount"])
	assert.Equal(t, false, resp["isLiked"])

	assert.Equal(t, http.StatusNotFound, app.do(http.MethodDelete, "/posts/"+id+"/like", token, nil).Code)
	assert.Equal(t, http.StatusCreated, app.do(http.MethodPost, "/posts/"+id+"/like", token, nil).Code)
}

func TestLike_UnknownPostOrAnonymous(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.signup("Ada", "ada@example.com")
	id := app.createPost(token, "T", "B", "")

	assert.Equal(t, http.StatusNotFound, app.do(http.MethodPost, "/posts/"+models.NewID()+"/like", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodPost, "/posts/"+id+"/like", "", nil).Code)
}

func TestLike_ViewerRelativeEnrichment(t *testing.T) {
	app := newTestApp(t)
	aToken, _ := app.signup("A", "a@example.com")
	bToken, _ := app.signup("B", "b@example.com")
	cToken, _ := app.signup("C", "c@example.com")
	id := app.createPost(aToken, "P", "body", "")

	w := app.do(http.MethodPost, "/posts/"+id+"/like", bToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["likeCount"])

	w = app.do(http.MethodGet, "/posts/"+id, bToken, nil)
	post := decode(t, w)
	assert.Equal(t, float64(1), post["likeCount"])
	assert.Equal(t, true, post["isLiked"])

	w = app.do(http.MethodGet, "/posts/"+id, "", nil)
	post = decode(t, w)
	assert.Equal(t, float64(1), post["likeCount"])
	assert.Equal(t, false, post["isLiked"])

	w = app.do(http.MethodGet, "/posts", cToken, nil)
	data, _ := dataOf(t, w)
	require.Len(t, data, 1)
	assert.Equal(t, float64(1), data[0].(map[string]interface{})["likeCount"])
	assert.Equal(t, false, data[0].(map[string]interface{})["isLiked"])
}

func TestLike_DuplicateRowRejectedByIndex(t *testing.T) {
	app := newTestApp(t)
	token, userID := app.signup("Ada", "ada@example.com")
	id := app.createPost(token, "T", "B", "")

	require.NoError(t, app.db.Create(&models.Like{UserID: userID, PostID: id}).Error)
	err := app.db.Create(&models.Like{UserID: userID, PostID: id}).Error
	assert.Error(t, err)
}

func TestListLikers(t *testing.T) {
	app := newTestApp(t)
	aToken, _ := app.signup("A", "a@example.com")
	bToken, bID := app.signup("B", "b@example.com")
	id := app.createPost(aToken, "P", "body", "")
	require.Equal(t, http.StatusCreated, app.do(http.MethodPost, "/posts/"+id+"/like", bToken, nil).Code)

	w := app.do(http.MethodGet, "/posts/"+id+"/likes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data, pagination := dataOf(t, w)
	require.Len(t, data, 1)
	liker := data[0].(map[string]interface{})
	assert.Equal(t, bID, liker["id"])
	assert.Equal(t, "B", liker["name"])
	assert.Equal(t, "b@example.com", liker["email"])
	assert.Equal(t, float64(1), pagination["total"])

	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/posts/"+models.NewID()+"/likes", "", nil).Code)
}
