// Package schema declares the companies and users GraphQL schema. Every field
// that needs data is resolved with exactly one call to the data service.
package schema

import (
	"context"

	"github.com/EO-DataHub/eodhp-graphql-gateway/models"
	"github.com/graphql-go/graphql"
)

// DataService is the set of data service calls the resolvers delegate to.
type DataService interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetCompany(ctx context.Context, id string) (*models.Company, error)
	GetCompanyUsers(ctx context.Context, companyID string) ([]models.User, error)
	CreateUser(ctx context.Context, user models.NewUser) (*models.User, error)
	UpdateUser(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error)
	DeleteUser(ctx context.Context, id string) (*models.User, error)
}

// New builds the gateway schema against ds. The returned schema is not
// modified afterwards and is safe for concurrent use.
func New(ds DataService) (graphql.Schema, error) {
	r := &resolver{ds: ds}

	var companyType, userType *graphql.Object

	// Company and User reference each other, so both field maps are thunks
	// evaluated once both objects exist.
	companyType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Company",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id": &graphql.Field{
					Type:    graphql.String,
					Resolve: companyString(func(c *models.Company) string { return c.ID }),
				},
				"name": &graphql.Field{
					Type:    graphql.String,
					Resolve: companyString(func(c *models.Company) string { return c.Name }),
				},
				"description": &graphql.Field{
					Type:    graphql.String,
					Resolve: companyString(func(c *models.Company) string { return c.Description }),
				},
				"users": &graphql.Field{
					Type:    graphql.NewList(userType),
					Resolve: r.companyUsers,
				},
			}
		}),
	})

	userType = graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id": &graphql.Field{
					Type:    graphql.String,
					Resolve: userString(func(u *models.User) string { return u.ID }),
				},
				"firstName": &graphql.Field{
					Type:    graphql.String,
					Resolve: userString(func(u *models.User) string { return u.FirstName }),
				},
				"age": &graphql.Field{Type: graphql.Int},
				"companyId": &graphql.Field{
					Type:    graphql.String,
					Resolve: userString(func(u *models.User) string { return u.CompanyID }),
				},
				"company": &graphql.Field{
					Type:    companyType,
					Resolve: r.userCompany,
				},
			}
		}),
	})

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQueryType",
		Fields: graphql.Fields{
			"user": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.user,
			},
			"company": &graphql.Field{
				Type: companyType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.company,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"addUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"firstName": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"age":       &graphql.ArgumentConfig{Type: graphql.Int},
					"companyId": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.addUser,
			},
			"deleteUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.deleteUser,
			},
			"editUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"firstName": &graphql.ArgumentConfig{Type: graphql.String},
					"age":       &graphql.ArgumentConfig{Type: graphql.Int},
					"companyId": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.editUser,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    rootQuery,
		Mutation: mutation,
	})
}
