package graph

import (
	"github.com/graphql-go/graphql"

	"lireddit/internal/model"
)

// NewSchema builds the query and mutation roots over r.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	postType := r.postType()

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"posts": &graphql.Field{
				Type: graphql.NewNonNull(paginatedPostsType(postType)),
				Args: graphql.FieldConfigArgument{
					"limit":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"cursor": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.posts,
			},
			"post": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.post,
			},
			"users": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType))),
				Resolve: r.users,
			},
			"me": &graphql.Field{
				Type:    userType,
				Resolve: r.me,
			},
		},
	})

	nonNullString := &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}
	nonNullInt := &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)}

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createPost": &graphql.Field{
				Type:    graphql.NewNonNull(postType),
				Args:    graphql.FieldConfigArgument{"title": nonNullString, "text": nonNullString},
				Resolve: r.createPost,
			},
			"updatePost": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"id":    nonNullInt,
					"title": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.updatePost,
			},
			"deletePost": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Args:    graphql.FieldConfigArgument{"id": nonNullInt},
				Resolve: r.deletePost,
			},
			"vote": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Args:    graphql.FieldConfigArgument{"postId": nonNullInt, "value": nonNullInt},
				Resolve: r.vote,
			},
			"register": &graphql.Field{
				Type: graphql.NewNonNull(userResponseType),
				Args: graphql.FieldConfigArgument{
					"email":    nonNullString,
					"username": nonNullString,
					"password": nonNullString,
				},
				Resolve: r.register,
			},
			"login": &graphql.Field{
				Type: graphql.NewNonNull(userResponseType),
				Args: graphql.FieldConfigArgument{
					"emailOrUsername": nonNullString,
					"password":        nonNullString,
				},
				Resolve: r.login,
			},
			"logout": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Resolve: r.logout,
			},
			"deleteUser": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Args:    graphql.FieldConfigArgument{"email": nonNullString},
				Resolve: r.deleteUser,
			},
			"forgotPassword": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Args:    graphql.FieldConfigArgument{"email": nonNullString},
				Resolve: r.forgotPassword,
			},
			"changePassword": &graphql.Field{
				Type: graphql.NewNonNull(userResponseType),
				Args: graphql.FieldConfigArgument{
					"token":       nonNullString,
					"newPassword": nonNullString,
				},
				Resolve: r.changePassword,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

// =============================================================================
// Queries
// =============================================================================

func (r *Resolver) posts(p graphql.ResolveParams) (interface{}, error) {
	page, err := r.Posts.List(p.Context, p.Args["limit"].(int), optionalString(p.Args, "cursor"))
	if err != nil {
		return nil, internal(p, err)
	}
	return page, nil
}

func (r *Resolver) post(p graphql.ResolveParams) (interface{}, error) {
	post, err := r.Posts.Get(p.Context, int64(p.Args["id"].(int)))
	if err != nil {
		return nil, internal(p, err)
	}
	if post == nil {
		return nil, nil
	}
	return post, nil
}

func (r *Resolver) users(p graphql.ResolveParams) (interface{}, error) {
	users, err := r.Users.List(p.Context)
	if err != nil {
		return nil, internal(p, err)
	}
	out := make([]*model.User, len(users))
	for i := range users {
		out[i] = &users[i]
	}
	return out, nil
}

func (r *Resolver) me(p graphql.ResolveParams) (interface{}, error) {
	sess, err := sessionFrom(p.Context)
	if err != nil {
		return nil, err
	}
	user, err := r.Users.Me(p.Context, sess)
	if err != nil {
		return nil, internal(p, err)
	}
	if user == nil {
		return nil, nil
	}
	return user, nil
}

// =============================================================================
// Mutations
// =============================================================================

func (r *Resolver) createPost(p graphql.ResolveParams) (interface{}, error) {
	userID, err := requireUser(p.Context)
	if err != nil {
		return nil, err
	}

	post, err := r.Posts.Create(p.Context, userID, model.CreatePostRequest{
		Title: p.Args["title"].(string),
		Text:  p.Args["text"].(string),
	})
	if err != nil {
		return nil, internal(p, err)
	}
	return post, nil
}

func (r *Resolver) updatePost(p graphql.ResolveParams) (interface{}, error) {
	post, err := r.Posts.Update(p.Context, int64(p.Args["id"].(int)), optionalString(p.Args, "title"))
	if err != nil {
		return nil, internal(p, err)
	}
	if post == nil {
		return nil, nil
	}
	return post, nil
}

func (r *Resolver) deletePost(p graphql.ResolveParams) (interface{}, error) {
	return r.Posts.Delete(p.Context, int64(p.Args["id"].(int))), nil
}

func (r *Resolver) vote(p graphql.ResolveParams) (interface{}, error) {
	userID, err := requireUser(p.Context)
	if err != nil {
		return nil, err
	}

	ok, err := r.Votes.Vote(p.Context, userID, int64(p.Args["postId"].(int)), p.Args["value"].(int))
	if err != nil {
		return nil, internal(p, err)
	}
	return ok, nil
}

func (r *Resolver) register(p graphql.ResolveParams) (interface{}, error) {
	sess, err := sessionFrom(p.Context)
	if err != nil {
		return nil, err
	}

	resp, err := r.Users.Register(p.Context, sess, &model.RegisterRequest{
		Email:    p.Args["email"].(string),
		Username: p.Args["username"].(string),
		Password: p.Args["password"].(string),
	})
	if err != nil {
		return nil, internal(p, err)
	}
	return resp, nil
}

func (r *Resolver) login(p graphql.ResolveParams) (interface{}, error) {
	sess, err := sessionFrom(p.Context)
	if err != nil {
		return nil, err
	}

	resp, err := r.Users.Login(p.Context, sess, &model.LoginRequest{
		EmailOrUsername: p.Args["emailOrUsername"].(string),
		Password:        p.Args["password"].(string),
	})
	if err != nil {
		return nil, internal(p, err)
	}
	return resp, nil
}

func (r *Resolver) logout(p graphql.ResolveParams) (interface{}, error) {
	sess, err := sessionFrom(p.Context)
	if err != nil {
		return nil, err
	}
	return r.Users.Logout(p.Context, sess), nil
}

func (r *Resolver) deleteUser(p graphql.ResolveParams) (interface{}, error) {
	sess, err := sessionFrom(p.Context)
	if err != nil {
		return nil, err
	}

	ok, err := r.Users.DeleteUser(p.Context, sess, p.Args["email"].(string))
	if err != nil {
		return nil, internal(p, err)
	}
	return ok, nil
}

func (r *Resolver) forgotPassword(p graphql.ResolveParams) (interface{}, error) {
	ok, err := r.Passwords.ForgotPassword(p.Context, p.Args["email"].(string))
	if err != nil {
		return nil, internal(p, err)
	}
	return ok, nil
}

func (r *Resolver) changePassword(p graphql.ResolveParams) (interface{}, error) {
	resp, err := r.Passwords.ChangePassword(p.Context, &model.ChangePasswordRequest{
		Token:       p.Args["token"].(string),
		NewPassword: p.Args["newPassword"].(string),
	})
	if err != nil {
		return nil, internal(p, err)
	}
	return resp, nil
}
