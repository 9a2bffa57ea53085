package graph

import (
	"github.com/graphql-go/graphql"

	"lireddit/internal/model"
)

var fieldErrorType = graphql.NewObject(graphql.ObjectConfig{
	Name: "FieldError",
	Fields: graphql.Fields{
		"field": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(model.FieldError).Field, nil
			},
		},
		"message": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(model.FieldError).Message, nil
			},
		},
	},
})

// userType never reveals another user's email address.
var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Int),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*model.User).ID, nil
			},
		},
		"username": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*model.User).Username, nil
			},
		},
		"email": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				user := p.Source.(*model.User)
				if id, ok := viewerID(p.Context); ok && id == user.ID {
					return user.Email, nil
				}
				return "", nil
			},
		},
		"createdAt": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return millis(p.Source.(*model.User).CreatedAt), nil
			},
		},
		"updatedAt": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return millis(p.Source.(*model.User).UpdatedAt), nil
			},
		},
	},
})

var userResponseType = graphql.NewObject(graphql.ObjectConfig{
	Name: "UserResponse",
	Fields: graphql.Fields{
		"errors": &graphql.Field{
			Type: graphql.NewList(graphql.NewNonNull(fieldErrorType)),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				resp := p.Source.(*model.UserResponse)
				if resp.Errors == nil {
					return nil, nil
				}
				return resp.Errors, nil
			},
		},
		"user": &graphql.Field{
			Type: userType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				resp := p.Source.(*model.UserResponse)
				if resp.User == nil {
					return nil, nil
				}
				return resp.User, nil
			},
		},
	},
})

func userFromSummary(s *model.UserSummary) *model.User {
	return &model.User{
		ID:        s.ID,
		Username:  s.Username,
		Email:     s.Email,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (r *Resolver) postType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*model.Post).ID, nil
				},
			},
			"title": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*model.Post).Title, nil
				},
			},
			"text": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*model.Post).Text, nil
				},
			},
			"textSnippet": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*model.Post).Snippet(), nil
				},
			},
			"points": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*model.Post).Points, nil
				},
			},
			"creatorId": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*model.Post).CreatorID, nil
				},
			},
			"creator": &graphql.Field{
				Type:    graphql.NewNonNull(userType),
				Resolve: r.resolveCreator,
			},
			"createdAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return millis(p.Source.(*model.Post).CreatedAt), nil
				},
			},
			"updatedAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return millis(p.Source.(*model.Post).UpdatedAt), nil
				},
			},
		},
	})
}

// resolveCreator uses the joined creator from listings and loads it otherwise.
func (r *Resolver) resolveCreator(p graphql.ResolveParams) (interface{}, error) {
	post := p.Source.(*model.Post)
	if post.Creator != nil {
		return userFromSummary(post.Creator), nil
	}

	user, err := r.Users.GetByID(p.Context, post.CreatorID)
	if err != nil {
		return nil, internal(p, err)
	}
	if user == nil {
		return nil, internal(p, model.ErrUserNotFound)
	}
	return user, nil
}

func paginatedPostsType(postType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "PaginatedPosts",
		Fields: graphql.Fields{
			"posts": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(postType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					page := p.Source.(*model.PaginatedPosts)
					posts := make([]*model.Post, len(page.Posts))
					for i := range page.Posts {
						posts[i] = &page.Posts[i]
					}
					return posts, nil
				},
			},
			"hasMore": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*model.PaginatedPosts).HasMore, nil
				},
			},
		},
	})
}
