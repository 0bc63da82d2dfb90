package controllers

import (
	"gorm.io/gorm"

	"github.com/quillpost/quill/models"
)

// PostView is a post annotated with viewer-relative like metadata.
type PostView struct {
	models.Post
	LikeCount int64 `json:"likeCount"`
	IsLiked   bool  `json:"isLiked"`
}

// enrichPosts attaches like counts and the viewer's like state to posts, preserving order.
// An empty viewerID means an anonymous viewer, for whom isLiked is always false.
func enrichPosts(db *gorm.DB, posts []models.Post, viewerID string) ([]PostView, error) {
	views := make([]PostView, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	var counts []struct {
		PostID string
		Count  int64
	}
	if err := db.Model(&models.Like{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	countByPost := make(map[string]int64, len(counts))
	for _, c := range counts {
		countByPost[c.PostID] = c.Count
	}

	liked := map[string]bool{}
	if viewerID != "" {
		var likedIDs []string
		if err := db.Model(&models.Like{}).
			Where("user_id = ? AND post_id IN ?", viewerID, ids).
			Pluck("post_id", &likedIDs).Error; err != nil {
			return nil, err
		}
		for _, id := range likedIDs {
			liked[id] = true
		}
	}

	for _, p := range posts {
		views = append(views, PostView{Post: p, LikeCount: countByPost[p.ID], IsLiked: liked[p.ID]})
	}
	return views, nil
}

func enrichPost(db *gorm.DB, post models.Post, viewerID string) (PostView, error) {
	views, err := enrichPosts(db, []models.Post{post}, viewerID)
	if err != nil {
		return PostView{}, err
	}
	return views[0], nil
}

func countLikes(db *gorm.DB, postID string) (int64, error) {
	var count int64
	err := db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
