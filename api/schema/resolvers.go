package schema

import (
	"github.com/EO-DataHub/eodhp-graphql-gateway/models"
	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog"
)

type resolver struct {
	ds DataService
}

// future starts fn in its own goroutine and hands the engine a thunk that
// waits for it, so sibling fields fetch in parallel. Only query-side fields
// use it; mutations must complete one after another.
func future(p graphql.ResolveParams, fn func() (interface{}, error)) (interface{}, error) {
	type result struct {
		data interface{}
		err  error
	}

	ch := make(chan result, 1)
	go func() {
		data, err := fn()
		logFieldError(p, err)
		ch <- result{data: data, err: err}
	}()

	return func() (interface{}, error) {
		r := <-ch
		return r.data, r.err
	}, nil
}

func logFieldError(p graphql.ResolveParams, err error) {
	if err == nil {
		return
	}
	zerolog.Ctx(p.Context).Debug().Err(err).
		Str("field", p.Info.ParentType.Name()+"."+p.Info.FieldName).
		Msg("field resolution failed")
}

func (r *resolver) user(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	return future(p, func() (interface{}, error) {
		return r.ds.GetUser(p.Context, id)
	})
}

func (r *resolver) company(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	return future(p, func() (interface{}, error) {
		return r.ds.GetCompany(p.Context, id)
	})
}

func (r *resolver) companyUsers(p graphql.ResolveParams) (interface{}, error) {
	company, ok := sourceCompany(p.Source)
	if !ok {
		return nil, nil
	}
	return future(p, func() (interface{}, error) {
		return r.ds.GetCompanyUsers(p.Context, company.ID)
	})
}

func (r *resolver) userCompany(p graphql.ResolveParams) (interface{}, error) {
	user, ok := sourceUser(p.Source)
	if !ok || user.CompanyID == "" {
		return nil, nil
	}
	return future(p, func() (interface{}, error) {
		return r.ds.GetCompany(p.Context, user.CompanyID)
	})
}

// userString resolves a string field of a user, reporting an absent value
// as null.
func userString(get func(*models.User) string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		user, ok := sourceUser(p.Source)
		if !ok {
			return nil, nil
		}
		return nullIfEmpty(get(user)), nil
	}
}

// companyString resolves a string field of a company, reporting an absent
// value as null.
func companyString(get func(*models.Company) string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		company, ok := sourceCompany(p.Source)
		if !ok {
			return nil, nil
		}
		return nullIfEmpty(get(company)), nil
	}
}

func nullIfEmpty(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}

func (r *resolver) addUser(p graphql.ResolveParams) (interface{}, error) {
	newUser := models.NewUser{}
	newUser.FirstName, _ = p.Args["firstName"].(string)
	if age, ok := p.Args["age"].(int); ok {
		newUser.Age = &age
	}
	newUser.CompanyID, _ = p.Args["companyId"].(string)

	user, err := r.ds.CreateUser(p.Context, newUser)
	logFieldError(p, err)
	return user, err
}

func (r *resolver) deleteUser(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)

	user, err := r.ds.DeleteUser(p.Context, id)
	logFieldError(p, err)
	return user, err
}

func (r *resolver) editUser(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)

	// The whole argument set, id included, is the patch body.
	fields := make(map[string]interface{}, len(p.Args))
	for k, v := range p.Args {
		fields[k] = v
	}

	user, err := r.ds.UpdateUser(p.Context, id, fields)
	logFieldError(p, err)
	return user, err
}

func sourceUser(source interface{}) (*models.User, bool) {
	switch u := source.(type) {
	case *models.User:
		return u, u != nil
	case models.User:
		return &u, true
	}
	return nil, false
}

func sourceCompany(source interface{}) (*models.Company, bool) {
	switch c := source.(type) {
	case *models.Company:
		return c, c != nil
	case models.Company:
		return &c, true
	}
	return nil, false
}
