package handler

import (
	"time"

	"github.com/Baaaki/content-square/internal/models"
	"github.com/Baaaki/content-square/internal/service"
)

type RoleView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type UserView struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Email     string    `json:"email"`
	Role      RoleView  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OwnerView struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
}

type TagRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// PostListItem embeds the owner, PostDetail only references it
type PostListItem struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Owner     OwnerView `json:"owner"`
	Tags      []TagRef  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PostDetail struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	OwnerID   uint      `json:"owner_id"`
	Tags      []TagRef  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TagPostView struct {
	ID      uint      `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Owner   OwnerView `json:"owner"`
}

type TagView struct {
	ID        uint          `json:"id"`
	Name      string        `json:"name"`
	Posts     []TagPostView `json:"posts"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type UserList struct {
	Total int64      `json:"total"`
	Skip  int        `json:"skip"`
	Limit int        `json:"limit"`
	Users []UserView `json:"users"`
}

type PostList struct {
	Total int64          `json:"total"`
	Skip  int            `json:"skip"`
	Limit int            `json:"limit"`
	Posts []PostListItem `json:"posts"`
}

type TagList struct {
	Total int64     `json:"total"`
	Skip  int       `json:"skip"`
	Limit int       `json:"limit"`
	Tags  []TagView `json:"tags"`
}

// CreatedView is returned by every create endpoint
type CreatedView struct {
	ID uint `json:"id"`
}

func presentUser(u *models.User) UserView {
	return UserView{
		ID:        u.ID,
		Name:      u.Name,
		Surname:   u.Surname,
		Email:     u.Email,
		Role:      RoleView{ID: u.Role.ID, Name: u.Role.Name},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func presentOwner(u *models.User) OwnerView {
	return OwnerView{ID: u.ID, Name: u.Name, Surname: u.Surname, Email: u.Email}
}

func presentTagRefs(tags []models.Tag) []TagRef {
	refs := make([]TagRef, 0, len(tags))
	for _, t := range tags {
		refs = append(refs, TagRef{ID: t.ID, Name: t.Name})
	}
	return refs
}

func presentPostItem(p *models.Post) PostListItem {
	return PostListItem{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Owner:     presentOwner(&p.Owner),
		Tags:      presentTagRefs(p.Tags),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func presentPostDetail(p *models.Post) PostDetail {
	return PostDetail{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		OwnerID:   p.OwnerID,
		Tags:      presentTagRefs(p.Tags),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func presentTag(t *models.Tag) TagView {
	posts := make([]TagPostView, 0, len(t.Posts))
	for i := range t.Posts {
		p := &t.Posts[i]
		posts = append(posts, TagPostView{
			ID:      p.ID,
			Title:   p.Title,
			Content: p.Content,
			Owner:   presentOwner(&p.Owner),
		})
	}
	return TagView{
		ID:        t.ID,
		Name:      t.Name,
		Posts:     posts,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func presentUserPage(page *service.Page[models.User]) UserList {
	users := make([]UserView, 0, len(page.Items))
	for i := range page.Items {
		users = append(users, presentUser(&page.Items[i]))
	}
	return UserList{Total: page.Total, Skip: page.Skip, Limit: page.Limit, Users: users}
}

func presentPostPage(page *service.Page[models.Post]) PostList {
	posts := make([]PostListItem, 0, len(page.Items))
	for i := range page.Items {
		posts = append(posts, presentPostItem(&page.Items[i]))
	}
	return PostList{Total: page.Total, Skip: page.Skip, Limit: page.Limit, Posts: posts}
}

func presentTagPage(page *service.Page[models.Tag]) TagList {
	tags := make([]TagView, 0, len(page.Items))
	for i := range page.Items {
		tags = append(tags, presentTag(&page.Items[i]))
	}
	return TagList{Total: page.Total, Skip: page.Skip, Limit: page.Limit, Tags: tags}
}
