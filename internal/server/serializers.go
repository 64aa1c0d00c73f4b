package server

import (
	"bloghub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// categoryJSON renders a category.
func categoryJSON(category *models.Category) fiber.Map {
	return fiber.Map{
		"id":   category.ID,
		"name": category.Name,
	}
}

// commentJSON renders a comment with its author's display name.
func commentJSON(comment *models.Comment) fiber.Map {
	return fiber.Map{
		"id":           comment.ID,
		"comment_user": comment.User.FullName(),
		"comment":      comment.Body,
		"created_at":   comment.CreatedAt,
	}
}

func commentsJSON(comments []*models.Comment) []fiber.Map {
	out := make([]fiber.Map, 0, len(comments))
	for _, comment := range comments {
		out = append(out, commentJSON(comment))
	}
	return out
}

// postJSON renders a post. Detail views include the content; list views
// omit it and carry an absolute URL to the detail endpoint instead.
func postJSON(c *fiber.Ctx, post *models.Post, detail bool) fiber.Map {
	var categoryName any
	if post.Category != nil {
		categoryName = post.Category.Name
	}

	out := fiber.Map{
		"id":           post.ID,
		"author":       post.Author.FullName(),
		"category":     categoryName,
		"title":        post.Title,
		"slug":         post.Slug,
		"status":       post.Status,
		"image":        post.ImageURL,
		"likes":        post.LikesCount,
		"created_at":   post.CreatedAt,
		"updated_at":   post.UpdatedAt,
		"published_at": post.PublishedAt,
	}
	if detail {
		out["content"] = post.Content
	} else {
		out["absolute_url"] = c.BaseURL() + "/api/v1/blog/posts/" + post.Slug
	}
	return out
}

func postsJSON(c *fiber.Ctx, posts []*models.Post) []fiber.Map {
	out := make([]fiber.Map, 0, len(posts))
	for _, post := range posts {
		out = append(out, postJSON(c, post, false))
	}
	return out
}

// favoritePostJSON renders a favorites entry with a trimmed post summary.
func favoritePostJSON(c *fiber.Ctx, favorite *models.FavoritePost) fiber.Map {
	post := favorite.Post
	var categoryName any
	if post.Category != nil {
		categoryName = post.Category.Name
	}
	return fiber.Map{
		"id": favorite.ID,
		"post": fiber.Map{
			"id":           post.ID,
			"author":       post.Author.FullName(),
			"category":     categoryName,
			"title":        post.Title,
			"likes":        post.LikesCount,
			"absolute_url": c.BaseURL() + "/api/v1/blog/posts/" + post.Slug,
		},
	}
}

// profileJSON renders the profile with the delegated user name fields and
// the favorites list.
func profileJSON(c *fiber.Ctx, profile *models.Profile, user *models.User) fiber.Map {
	favorites := make([]fiber.Map, 0, len(profile.FavoritePosts))
	for i := range profile.FavoritePosts {
		favorites = append(favorites, favoritePostJSON(c, &profile.FavoritePosts[i]))
	}
	return fiber.Map{
		"id":             profile.ID,
		"email":          user.Email,
		"first_name":     user.FirstName,
		"last_name":      user.LastName,
		"bio":            profile.Bio,
		"image":          profile.ImageURL,
		"birth_date":     profile.BirthDate,
		"favorite_posts": favorites,
	}
}

// userJSON renders the registration response.
func userJSON(user *models.User) fiber.Map {
	return fiber.Map{
		"id":          user.ID,
		"email":       user.Email,
		"first_name":  user.FirstName,
		"last_name":   user.LastName,
		"is_verified": user.IsVerified,
		"created_at":  user.CreatedAt,
	}
}
